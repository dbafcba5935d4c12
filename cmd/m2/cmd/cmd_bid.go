package cmd

import (
	"strconv"

	"github.com/magicoss/m2/internal/bid"
	"github.com/magicoss/m2/internal/funds"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdBid = &cobra.Command{
	Use:   "bid marketplace buyer asset price [expiry] [referral]",
	Short: "Create a standing bid to buy an asset.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 4 {
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
		price, err := strconv.ParseUint(args[3], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Failed to parse price %s", args[3])
		}

		expiry := int64(0)
		if len(args) > 4 {
			expiry, err = strconv.ParseInt(args[4], 10, 64)
			if err != nil {
				return errors.Wrapf(err, "Failed to parse expiry %s", args[4])
			}
		}

		var referral address.Address
		if len(args) > 5 {
			referral, err = decodeAddress(args[5])
			if err != nil {
				return err
			}
		}

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		ledger := funds.NewLedger(masterDB)
		b, err := bid.Create(ctx, masterDB, ledger, &bid.NewBid{
			Buyer:       buyer,
			Marketplace: market,
			Asset:       asset,
			Referral:    referral,
			Price:       price,
			Expiry:      expiry,
			Deposit:     cfg.Marketplace.RecordDeposit,
		})
		if err != nil {
			return err
		}
		if err := ledger.Commit(ctx); err != nil {
			return err
		}

		return dumpJSON(b)
	},
}
