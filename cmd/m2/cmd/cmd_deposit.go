package cmd

import (
	"strconv"

	"github.com/magicoss/m2/internal/escrow"
	"github.com/magicoss/m2/internal/funds"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdDeposit = &cobra.Command{
	Use:   "deposit marketplace buyer amount",
	Short: "Deposit native units into the buyer's escrow.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 3 {
			return errors.New("Incorrect argument count")
		}

		ctx := newContext()

		cfg, err := newConfig()
		if err != nil {
			return err
		}

		market, err := decodeAddress(args[0])
		if err != nil {
			return err
		}
		buyer, err := decodeAddress(args[1])
		if err != nil {
			return err
		}
		amount, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Failed to parse amount %s", args[2])
		}

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		ledger := funds.NewLedger(masterDB)
		account, err := escrow.Deposit(ctx, masterDB, ledger, market, buyer, amount)
		if err != nil {
			return err
		}
		if err := ledger.Commit(ctx); err != nil {
			return err
		}

		return dumpJSON(account)
	},
}
