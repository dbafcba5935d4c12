package cmd

import (
	"strconv"

	"github.com/magicoss/m2/internal/funds"
	"github.com/magicoss/m2/internal/offer"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdSell = &cobra.Command{
	Use:   "sell marketplace seller asset price [expiry]",
	Short: "Create a standing offer to sell one unit of an asset.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 4 {
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

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		ledger := funds.NewLedger(masterDB)
		o, err := offer.Create(ctx, masterDB, ledger, &offer.NewOffer{
			Seller:      seller,
			Marketplace: market,
			Asset:       asset,
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

		return dumpJSON(o)
	},
}

func decodeAddresses(args ...string) (address.Address, address.Address, address.Address, error) {
	var result [3]address.Address
	for i, arg := range args {
		addr, err := decodeAddress(arg)
		if err != nil {
			return result[0], result[1], result[2], err
		}
		result[i] = addr
	}
	return result[0], result[1], result[2], nil
}
