package cmd

import (
	"strconv"

	"github.com/magicoss/m2/internal/settlement"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdExecuteSale = &cobra.Command{
	Use:   "execute-sale marketplace payer buyer seller notary asset price maker_fee_bps taker_fee_bps",
	Short: "Settle a standing offer against a standing bid.",
	Long: "Atomically settles a sale: validates the offer and bid, moves the " +
		"asset through custody, pays royalties and splits the proceeds. Pass " +
		"--notary-signed when the notary co-signed the request to apply the " +
		"marketplace's notary fee schedule.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 9 {
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
		payer, buyer, seller, err := decodeAddresses(args[1], args[2], args[3])
		if err != nil {
			return err
		}
		notary, err := decodeAddress(args[4])
		if err != nil {
			return err
		}
		asset, err := decodeAddress(args[5])
		if err != nil {
			return err
		}

		price, err := strconv.ParseUint(args[6], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "Failed to parse price %s", args[6])
		}
		makerFeeBps, err := strconv.ParseInt(args[7], 10, 16)
		if err != nil {
			return errors.Wrapf(err, "Failed to parse maker fee bps %s", args[7])
		}
		takerFeeBps, err := strconv.ParseUint(args[8], 10, 16)
		if err != nil {
			return errors.Wrapf(err, "Failed to parse taker fee bps %s", args[8])
		}

		notarySigned, _ := c.Flags().GetBool("notary-signed")

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		event, err := settlement.ExecuteSale(ctx, masterDB, &settlement.ExecuteSaleRequest{
			Price:        price,
			MakerFeeBps:  int16(makerFeeBps),
			TakerFeeBps:  uint16(takerFeeBps),
			Payer:        payer,
			Buyer:        buyer,
			Seller:       seller,
			Notary:       notary,
			Marketplace:  market,
			Asset:        asset,
			NotarySigned: notarySigned,
		})
		if err != nil {
			return err
		}

		return dumpJSON(event)
	},
}

func init() {
	cmdExecuteSale.Flags().Bool("notary-signed", false,
		"the marketplace notary co-signed this request")
}
