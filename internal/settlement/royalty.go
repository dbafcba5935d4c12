package settlement

import (
	"context"

	"github.com/magicoss/m2/internal/custody"
	"github.com/magicoss/m2/internal/funds"
	"github.com/magicoss/m2/internal/metadata"
	"github.com/magicoss/m2/internal/platform/node"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// disburseRoyalties pays each configured creator its share of the sale
// price from the buyer's escrow, before any other value moves. A royalty
// override on the asset's transfer policy takes precedence over the
// metadata registry's creator list. Returns the total royalty paid.
func disburseRoyalties(ctx context.Context, ledger *funds.Ledger, cust *custody.Service,
	meta *metadata.Entry, asset, escrowAddress address.Address, escrowProof address.Proof,
	price uint64) (uint64, error) {

	ctx, span := trace.StartSpan(ctx, "internal.settlement.disburseRoyalties")
	defer span.End()

	creators := meta.Creators
	if override, exists, err := cust.RoyaltyOverride(ctx, asset); err != nil {
		return 0, errors.Wrap(err, "Failed to fetch royalty override")
	} else if exists {
		creators = override
	}

	auth := funds.DerivedAuthority(escrowProof)

	total := uint64(0)
	for _, creator := range creators {
		if creator.ShareBps == 0 {
			continue
		}

		amount, err := mulDivBps(price, uint64(creator.ShareBps))
		if err != nil {
			return 0, err
		}
		if amount == 0 {
			continue
		}

		if err := ledger.Transfer(ctx, escrowAddress, creator.Address, amount, auth); err != nil {
			return 0, errors.Wrapf(err, "Failed to pay creator %s", creator.Address)
		}

		newTotal := total + amount
		if newTotal < total {
			return 0, ErrNumericalOverflow
		}
		total = newTotal
	}

	if total > 0 {
		node.LogVerbose(ctx, "Paid %d royalty across %d creators", total, len(creators))
	}

	return total, nil
}
