package cmd

import (
	"fmt"

	"github.com/magicoss/m2/internal/bid"
	"github.com/magicoss/m2/internal/custody"
	"github.com/magicoss/m2/internal/escrow"
	"github.com/magicoss/m2/internal/marketplace"
	"github.com/magicoss/m2/internal/offer"
	"github.com/magicoss/m2/internal/settlement"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdDerive = &cobra.Command{
	Use:   "derive kind arg...",
	Short: "Derive the deterministic addresses used by the module.",
	Long: `Derive the deterministic addresses used by the module.

  derive marketplace <creator>
  derive treasury <marketplace>
  derive escrow <marketplace> <buyer>
  derive holding <asset> <owner>
  derive offer <marketplace> <seller> <asset>
  derive bid <marketplace> <buyer> <asset>
  derive signer`,
	RunE: func(c *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("Missing kind")
		}

		kind, rest := args[0], args[1:]

		switch kind {
		case "marketplace":
			if len(rest) != 1 {
				return errors.New("Incorrect argument count")
			}
			creator, err := decodeAddress(rest[0])
			if err != nil {
				return err
			}
			fmt.Printf("Marketplace : %s\n", marketplace.DeriveAddress(creator))

		case "treasury":
			if len(rest) != 1 {
				return errors.New("Incorrect argument count")
			}
			market, err := decodeAddress(rest[0])
			if err != nil {
				return err
			}
			treasury, _ := marketplace.TreasuryProof(market)
			fmt.Printf("Treasury : %s\n", treasury)

		case "escrow":
			if len(rest) != 2 {
				return errors.New("Incorrect argument count")
			}
			market, err := decodeAddress(rest[0])
			if err != nil {
				return err
			}
			buyer, err := decodeAddress(rest[1])
			if err != nil {
				return err
			}
			account, _ := escrow.AccountProof(market, buyer)
			fmt.Printf("Escrow : %s\n", account)

		case "holding":
			if len(rest) != 2 {
				return errors.New("Incorrect argument count")
			}
			asset, err := decodeAddress(rest[0])
			if err != nil {
				return err
			}
			owner, err := decodeAddress(rest[1])
			if err != nil {
				return err
			}
			fmt.Printf("Holding : %s\n", custody.AccountAddress(asset, owner))

		case "offer":
			if len(rest) != 3 {
				return errors.New("Incorrect argument count")
			}
			market, seller, asset, err := decodeAddresses(rest[0], rest[1], rest[2])
			if err != nil {
				return err
			}
			holding := custody.AccountAddress(asset, seller)
			record, _ := offer.RecordProof(market, seller, holding, asset)
			fmt.Printf("Offer : %s\n", record)

		case "bid":
			if len(rest) != 3 {
				return errors.New("Incorrect argument count")
			}
			market, buyer, asset, err := decodeAddresses(rest[0], rest[1], rest[2])
			if err != nil {
				return err
			}
			record, _ := bid.RecordProof(market, buyer, asset)
			fmt.Printf("Bid : %s\n", record)

		case "signer":
			signer, _ := settlement.SignerProof()
			fmt.Printf("Signer : %s\n", signer)

		default:
			return errors.Errorf("Unknown kind %s", kind)
		}

		return nil
	},
}
