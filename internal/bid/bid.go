package bid

import (
	"context"
	"time"

	"github.com/magicoss/m2/internal/funds"
	"github.com/magicoss/m2/internal/marketplace"
	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/internal/platform/node"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Bid not found")

	// ErrExists occurs when the buyer already has a standing bid for the
	// asset.
	ErrExists = errors.New("Bid already exists")
)

// RecordProof returns the bid record address for its unique key along with
// the proof that releases the record's storage deposit.
func RecordProof(marketAddress, buyer, asset address.Address) (address.Address, address.Proof) {
	return address.Derive([]byte(marketplace.SeedPrefix), buyer.Bytes(), marketAddress.Bytes(),
		asset.Bytes())
}

// Expired returns true when the bid's expiry has elapsed. Expiries of -1, 0
// and 1 never elapse.
func Expired(b *Bid, now time.Time) bool {
	exp := b.Expiry
	if exp < 0 {
		exp = -exp
	}
	return exp > 1 && now.Unix() > exp
}

// Create the bid record. The storage deposit moves from the buyer to the
// record address and comes back when the record closes. This is the bidding
// flow boundary, settlement only ever consumes bids.
func Create(ctx context.Context, dbConn *db.DB, ledger *funds.Ledger, nu *NewBid) (*Bid, error) {
	ctx, span := trace.StartSpan(ctx, "internal.bid.Create")
	defer span.End()

	v := ctx.Value(node.KeyValues).(*node.Values)

	recordAddress, _ := RecordProof(nu.Marketplace, nu.Buyer, nu.Asset)

	if _, err := Fetch(ctx, dbConn, nu.Marketplace, nu.Buyer, nu.Asset); err == nil {
		return nil, ErrExists
	} else if err != ErrNotFound {
		return nil, err
	}

	b := Bid{
		Address:     recordAddress,
		Buyer:       nu.Buyer,
		Marketplace: nu.Marketplace,
		Asset:       nu.Asset,
		Referral:    nu.Referral,
		Quantity:    1,
		Price:       nu.Price,
		Expiry:      nu.Expiry,
		CreatedAt:   v.Now,
		UpdatedAt:   v.Now,
	}

	if nu.Deposit > 0 {
		auth := funds.SignerAuthority(nu.Buyer)
		if err := ledger.Transfer(ctx, nu.Buyer, recordAddress, nu.Deposit, auth); err != nil {
			return nil, errors.Wrap(err, "Failed to take storage deposit")
		}
	}

	if err := Save(ctx, dbConn, &b); err != nil {
		return nil, errors.Wrap(err, "Failed to save bid")
	}

	node.Log(ctx, "Created bid %s : asset %s price %d", b.Address, b.Asset, b.Price)
	return &b, nil
}

// Cancel closes the bid record and returns its storage deposit to the
// buyer. Only the buyer may cancel.
func Cancel(ctx context.Context, dbConn *db.DB, ledger *funds.Ledger, b *Bid,
	requester address.Address) error {

	ctx, span := trace.StartSpan(ctx, "internal.bid.Cancel")
	defer span.End()

	if !requester.Equal(b.Buyer) {
		return errors.New("Only the buyer can cancel a bid")
	}

	if err := Close(ctx, dbConn, ledger, b); err != nil {
		return err
	}

	node.Log(ctx, "Cancelled bid %s", b.Address)
	return nil
}

// Close clears the bid, returns the record's deposit balance to the buyer
// and destroys the record. Every value field is zeroed and persisted before
// removal so stale storage can never be reread as a live bid.
func Close(ctx context.Context, dbConn *db.DB, ledger *funds.Ledger, b *Bid) error {
	recordAddress, recordProof := RecordProof(b.Marketplace, b.Buyer, b.Asset)

	balance, err := ledger.Balance(ctx, recordAddress)
	if err != nil {
		return errors.Wrap(err, "Failed to fetch record balance")
	}
	if balance > 0 {
		auth := funds.DerivedAuthority(recordProof)
		if err := ledger.Transfer(ctx, recordAddress, b.Buyer, balance, auth); err != nil {
			return errors.Wrap(err, "Failed to return storage deposit")
		}
	}

	marketAddress, buyer, asset := b.Marketplace, b.Buyer, b.Asset

	Clear(b)
	if err := Save(ctx, dbConn, b); err != nil {
		return errors.Wrap(err, "Failed to clear bid")
	}

	return Remove(ctx, dbConn, marketAddress, buyer, asset)
}

// Clear zeroes every value field of the bid in place.
func Clear(b *Bid) {
	*b = Bid{
		Address:     b.Address,
		Buyer:       b.Buyer,
		Marketplace: b.Marketplace,
		Asset:       b.Asset,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
