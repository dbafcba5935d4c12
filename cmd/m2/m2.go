package main

import (
	"github.com/magicoss/m2/cmd/m2/cmd"
)

// Marketplace settlement CLI
//
func main() {
	cmd.Execute()
}
