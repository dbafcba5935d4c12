package cmd

import (
	"fmt"

	"github.com/magicoss/m2/internal/bid"
	"github.com/magicoss/m2/internal/custody"
	"github.com/magicoss/m2/internal/funds"
	"github.com/magicoss/m2/internal/offer"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdCancelSell = &cobra.Command{
	Use:   "cancel-sell marketplace seller asset",
	Short: "Cancel a standing offer and return its deposit.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 3 {
			return errors.New("Incorrect argument count")
		}

		ctx := newContext()

		cfg, err := newConfig()
		if err != nil {
			return err
		}

		market, seller, asset, err := decodeAddresses(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		holding := custody.AccountAddress(asset, seller)
		o, err := offer.Fetch(ctx, masterDB, market, seller, holding, asset)
		if err != nil {
			return err
		}

		ledger := funds.NewLedger(masterDB)
		if err := offer.Cancel(ctx, masterDB, ledger, o, seller); err != nil {
			return err
		}
		if err := ledger.Commit(ctx); err != nil {
			return err
		}

		fmt.Printf("Cancelled offer %s\n", o.Address)
		return nil
	},
}

var cmdCancelBid = &cobra.Command{
	Use:   "cancel-bid marketplace buyer asset",
	Short: "Cancel a standing bid and return its deposit.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 3 {
			return errors.New("Incorrect argument count")
		}

		ctx := newContext()

		cfg, err := newConfig()
		if err != nil {
			return err
		}

		market, buyer, asset, err := decodeAddresses(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		b, err := bid.Fetch(ctx, masterDB, market, buyer, asset)
		if err != nil {
			return err
		}

		ledger := funds.NewLedger(masterDB)
		if err := bid.Cancel(ctx, masterDB, ledger, b, buyer); err != nil {
			return err
		}
		if err := ledger.Commit(ctx); err != nil {
			return err
		}

		fmt.Printf("Cancelled bid %s\n", b.Address)
		return nil
	},
}
