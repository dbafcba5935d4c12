package settlement

import (
	"context"
	"time"

	"github.com/magicoss/m2/internal/bid"
	"github.com/magicoss/m2/internal/custody"
	"github.com/magicoss/m2/internal/marketplace"
	"github.com/magicoss/m2/internal/metadata"
	"github.com/magicoss/m2/internal/offer"

	"go.opencensus.io/trace"
)

// validateSale is the all-or-nothing check gate in front of settlement.
// Checks run in a fixed order and the first failure aborts the attempt with
// no side effects.
func validateSale(ctx context.Context, req *ExecuteSaleRequest, m *marketplace.Marketplace,
	o *offer.Offer, b *bid.Bid, meta *metadata.Entry, mint *custody.MintState,
	sellerHolding *custody.TokenAccount, now time.Time) error {

	_, span := trace.StartSpan(ctx, "internal.settlement.validateSale")
	defer span.End()

	// The payer must be a party to the sale.
	if !req.Payer.Equal(req.Buyer) && !req.Payer.Equal(req.Seller) {
		return reject(RejectUnauthorized, "payer %s", req.Payer)
	}

	if req.Price == 0 {
		return reject(RejectValidation, "price must be positive")
	}

	if err := ValidateFeeBps(m, req.MakerFeeBps, req.TakerFeeBps); err != nil {
		return err
	}

	if !req.Notary.Equal(m.Notary) {
		return reject(RejectInvalidNotary, "notary %s", req.Notary)
	}

	// The bid must agree with the offer's recorded terms.
	if !b.Asset.Equal(o.Asset) {
		return reject(RejectValidation, "bid asset %s, offer asset %s", b.Asset, o.Asset)
	}
	if b.Price != o.Price {
		return reject(RejectValidation, "bid price %d, offer price %d", b.Price, o.Price)
	}
	if b.Quantity != o.Quantity {
		return reject(RejectValidation, "bid quantity %d, offer quantity %d", b.Quantity, o.Quantity)
	}

	// And with the caller supplied terms.
	if req.Price != o.Price {
		return reject(RejectValidation, "request price %d, offer price %d", req.Price, o.Price)
	}
	if !req.Asset.Equal(o.Asset) {
		return reject(RejectValidation, "request asset %s, offer asset %s", req.Asset, o.Asset)
	}
	if o.Quantity != 1 {
		return reject(RejectValidation, "offer quantity %d", o.Quantity)
	}

	if bid.Expired(b, now) {
		return reject(RejectExpired, "bid expiry %d", b.Expiry)
	}
	if offer.Expired(o, now) {
		return reject(RejectExpired, "offer expiry %d", o.Expiry)
	}

	// The asset is unique: supply of one, no fractional units.
	if mint.Supply != 1 || mint.Decimals != 0 {
		return reject(RejectValidation, "asset %s is not unique", req.Asset)
	}
	if sellerHolding.Amount != 1 {
		return reject(RejectValidation, "seller holding %s holds %d units",
			sellerHolding.Address, sellerHolding.Amount)
	}

	if err := metadata.Validate(meta, req.Asset); err != nil {
		return reject(RejectBadMetadata, "%s", err)
	}

	return nil
}
