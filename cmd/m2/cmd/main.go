package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magicoss/m2/internal/platform/config"
	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/internal/platform/node"
	"github.com/magicoss/m2/pkg/address"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var m2Cmd = &cobra.Command{
	Use:   "m2",
	Short: "Marketplace settlement CLI",
}

func Execute() {
	m2Cmd.AddCommand(cmdInit)
	m2Cmd.AddCommand(cmdMint)
	m2Cmd.AddCommand(cmdCredit)
	m2Cmd.AddCommand(cmdSell)
	m2Cmd.AddCommand(cmdBid)
	m2Cmd.AddCommand(cmdCancelSell)
	m2Cmd.AddCommand(cmdCancelBid)
	m2Cmd.AddCommand(cmdDeposit)
	m2Cmd.AddCommand(cmdWithdraw)
	m2Cmd.AddCommand(cmdExecuteSale)
	m2Cmd.AddCommand(cmdDerive)
	m2Cmd.AddCommand(cmdState)
	m2Cmd.Execute()
}

// newContext returns a logging context carrying fresh request values, the
// way the request transport would build one.
func newContext() context.Context {
	ctx := node.ContextWithDevelopmentLogger(context.Background(), "TEXT")
	return node.ContextWithValues(ctx, uuid.New().String(), time.Now())
}

func newConfig() (*config.Config, error) {
	cfg, err := config.Environment()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read config from environment")
	}
	return cfg, nil
}

func newDB(cfg *config.Config) (*db.DB, error) {
	masterDB, err := db.New(&db.StorageConfig{
		Region: cfg.AWS.Region,
		Bucket: cfg.Storage.Bucket,
		Root:   cfg.Storage.Root,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to open db")
	}
	return masterDB, nil
}

func decodeAddress(arg string) (address.Address, error) {
	result, err := address.FromString(arg)
	if err != nil {
		return address.Address{}, errors.Wrapf(err, "Failed to parse address %s", arg)
	}
	return result, nil
}

func dumpJSON(value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	fmt.Printf("```\n%s\n```\n\n", data)
	return nil
}
