package cmd

import (
	"github.com/magicoss/m2/internal/marketplace"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdInit = &cobra.Command{
	Use:   "init",
	Short: "Create the marketplace record from the environment config.",
	RunE: func(c *cobra.Command, args []string) error {
		ctx := newContext()

		cfg, err := newConfig()
		if err != nil {
			return err
		}

		creator, err := decodeAddress(cfg.Marketplace.Creator)
		if err != nil {
			return errors.Wrap(err, "Invalid creator address")
		}
		notary, err := decodeAddress(cfg.Marketplace.Notary)
		if err != nil {
			return errors.Wrap(err, "Invalid notary address")
		}

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		m, err := marketplace.Create(ctx, masterDB, &marketplace.NewMarketplace{
			Creator:        creator,
			Notary:         notary,
			MaxMakerFeeBps: cfg.Marketplace.MaxMakerFeeBps,
			MaxTakerFeeBps: cfg.Marketplace.MaxTakerFeeBps,
		})
		if err != nil {
			return err
		}

		return dumpJSON(m)
	},
}
