package tests

import (
	"math/rand"
	"time"

	"github.com/magicoss/m2/pkg/address"
)

var testHelperRand *rand.Rand

func init() {
	testHelperRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// RandomAddress returns an address that no derivation proof controls.
func RandomAddress() address.Address {
	var result address.Address
	for i := range result {
		result[i] = byte(testHelperRand.Intn(256))
	}
	return result
}
