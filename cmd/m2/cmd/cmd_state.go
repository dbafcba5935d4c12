package cmd

import (
	"fmt"

	"github.com/magicoss/m2/internal/bid"
	"github.com/magicoss/m2/internal/marketplace"
	"github.com/magicoss/m2/internal/offer"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdState = &cobra.Command{
	Use:   "state marketplace",
	Short: "Load and print a marketplace's records.",
	Long:  "Loads the marketplace config plus every standing offer and bid.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("Missing marketplace address")
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

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		m, err := marketplace.Retrieve(ctx, masterDB, market)
		if err != nil {
			return err
		}

		fmt.Printf("# Marketplace %s\n\n", m.Address)
		if err := dumpJSON(m); err != nil {
			return err
		}

		offers, err := offer.List(ctx, masterDB, market)
		if err != nil {
			return err
		}
		fmt.Printf("## Offers (%d)\n\n", len(offers))
		for _, o := range offers {
			if err := dumpJSON(o); err != nil {
				return err
			}
		}

		bids, err := bid.List(ctx, masterDB, market)
		if err != nil {
			return err
		}
		fmt.Printf("## Bids (%d)\n\n", len(bids))
		for _, b := range bids {
			if err := dumpJSON(b); err != nil {
				return err
			}
		}

		return nil
	},
}
