package cmd

import (
	"fmt"
	"strconv"

	"github.com/magicoss/m2/internal/funds"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdCredit = &cobra.Command{
	Use:   "credit account amount",
	Short: "Credit native units to an account.",
	Long: "Credits native units to a wallet account with no source. This is the " +
		"deposit ramp boundary for standalone deployments, production funds " +
		"arrive through an external ramp.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 2 {
			return errors.New("Incorrect argument count")
		}

		ctx := newContext()

		cfg, err := newConfig()
		if err != nil {
			return err
		}

		account, err := decodeAddress(args[0])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Failed to parse amount %s", args[1])
		}

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		ledger := funds.NewLedger(masterDB)
		if err := ledger.Credit(ctx, account, amount); err != nil {
			return err
		}
		if err := ledger.Commit(ctx); err != nil {
			return err
		}

		balance, err := ledger.Balance(ctx, account)
		if err != nil {
			return err
		}

		fmt.Printf("Credited %d to %s, balance %d\n", amount, account, balance)
		return nil
	},
}
