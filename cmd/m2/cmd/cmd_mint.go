package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magicoss/m2/internal/custody"
	"github.com/magicoss/m2/internal/metadata"
	"github.com/magicoss/m2/internal/settlement"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdMint = &cobra.Command{
	Use:   "mint asset owner [creator:share_bps ...]",
	Short: "Register an asset under custody and record its creators.",
	Long: "Registers a unique asset under custody with the settlement authority " +
		"as lock authority, held by owner, and saves a metadata registry entry " +
		"with the given creator royalty shares.",
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) < 2 {
			return errors.New("Incorrect argument count")
		}

		ctx := newContext()

		cfg, err := newConfig()
		if err != nil {
			return err
		}

		asset, err := decodeAddress(args[0])
		if err != nil {
			return err
		}
		owner, err := decodeAddress(args[1])
		if err != nil {
			return err
		}

		creators, err := parseCreators(args[2:])
		if err != nil {
			return err
		}

		masterDB, err := newDB(cfg)
		if err != nil {
			return err
		}
		defer masterDB.Close()

		signerAddress, _ := settlement.SignerProof()

		cust := custody.NewService(masterDB)
		if err := cust.Mint(ctx, asset, owner, signerAddress); err != nil {
			return err
		}
		if err := cust.Commit(ctx); err != nil {
			return err
		}

		if err := metadata.Save(ctx, masterDB, &metadata.Entry{
			Asset:    asset,
			Creators: creators,
		}); err != nil {
			return err
		}

		fmt.Printf("Minted %s to %s\n", asset, owner)
		fmt.Printf("Holding account : %s\n", custody.AccountAddress(asset, owner))
		return nil
	},
}

// parseCreators parses "address:share_bps" arguments.
func parseCreators(args []string) ([]metadata.Creator, error) {
	creators := make([]metadata.Creator, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("Malformed creator %s, want address:share_bps", arg)
		}

		creatorAddress, err := decodeAddress(parts[0])
		if err != nil {
			return nil, err
		}
		share, err := strconv.ParseUint(parts[1], 10, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse share %s", parts[1])
		}

		creators = append(creators, metadata.Creator{
			Address:  creatorAddress,
			ShareBps: uint16(share),
		})
	}
	return creators, nil
}
