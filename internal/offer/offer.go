package offer

import (
	"context"
	"time"

	"github.com/magicoss/m2/internal/custody"
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
	ErrNotFound = errors.New("Offer not found")

	// ErrExists occurs when an offer already stands for the same asset.
	ErrExists = errors.New("Offer already exists")

	// ErrWrongHolding occurs when the seller's holding account doesn't hold
	// exactly one unit of the asset.
	ErrWrongHolding = errors.New("Holding account does not hold one unit")
)

// RecordProof returns the offer record address for its unique key along with
// the proof that releases the record's storage deposit.
func RecordProof(marketAddress, seller, holdingAccount, asset address.Address) (address.Address, address.Proof) {
	return address.Derive([]byte(marketplace.SeedPrefix), seller.Bytes(), marketAddress.Bytes(),
		holdingAccount.Bytes(), asset.Bytes())
}

// Expired returns true when the offer's expiry has elapsed. Expiries of -1,
// 0 and 1 never elapse.
func Expired(o *Offer, now time.Time) bool {
	exp := o.Expiry
	if exp < 0 {
		exp = -exp
	}
	return exp > 1 && now.Unix() > exp
}

// Create the offer record. The storage deposit moves from the seller to the
// record address and comes back when the record closes. This is the listing
// flow boundary, settlement only ever consumes offers.
func Create(ctx context.Context, dbConn *db.DB, ledger *funds.Ledger, nu *NewOffer) (*Offer, error) {
	ctx, span := trace.StartSpan(ctx, "internal.offer.Create")
	defer span.End()

	v := ctx.Value(node.KeyValues).(*node.Values)

	holdingAccount := custody.AccountAddress(nu.Asset, nu.Seller)

	cust := custody.NewService(dbConn)
	holding, err := cust.TokenAccount(ctx, nu.Asset, nu.Seller)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to fetch seller holding")
	}
	if holding.Amount != 1 {
		return nil, ErrWrongHolding
	}

	recordAddress, _ := RecordProof(nu.Marketplace, nu.Seller, holdingAccount, nu.Asset)

	if _, err := Fetch(ctx, dbConn, nu.Marketplace, nu.Seller, holdingAccount, nu.Asset); err == nil {
		return nil, ErrExists
	} else if err != ErrNotFound {
		return nil, err
	}

	o := Offer{
		Address:        recordAddress,
		Seller:         nu.Seller,
		Marketplace:    nu.Marketplace,
		HoldingAccount: holdingAccount,
		Asset:          nu.Asset,
		Quantity:       1,
		Price:          nu.Price,
		Expiry:         nu.Expiry,
		CreatedAt:      v.Now,
		UpdatedAt:      v.Now,
	}

	if nu.Deposit > 0 {
		auth := funds.SignerAuthority(nu.Seller)
		if err := ledger.Transfer(ctx, nu.Seller, recordAddress, nu.Deposit, auth); err != nil {
			return nil, errors.Wrap(err, "Failed to take storage deposit")
		}
	}

	if err := Save(ctx, dbConn, &o); err != nil {
		return nil, errors.Wrap(err, "Failed to save offer")
	}

	node.Log(ctx, "Created offer %s : asset %s price %d", o.Address, o.Asset, o.Price)
	return &o, nil
}

// Cancel closes the offer record and returns its storage deposit to the
// seller. Only the seller may cancel.
func Cancel(ctx context.Context, dbConn *db.DB, ledger *funds.Ledger, o *Offer,
	requester address.Address) error {

	ctx, span := trace.StartSpan(ctx, "internal.offer.Cancel")
	defer span.End()

	if !requester.Equal(o.Seller) {
		return errors.New("Only the seller can cancel an offer")
	}

	if err := Close(ctx, dbConn, ledger, o); err != nil {
		return err
	}

	node.Log(ctx, "Cancelled offer %s", o.Address)
	return nil
}

// Close zeroes the offer quantity, returns the record's deposit balance to
// the seller and destroys the record. The quantity is zeroed and persisted
// before removal so a partially applied close can never be reread as a live
// offer.
func Close(ctx context.Context, dbConn *db.DB, ledger *funds.Ledger, o *Offer) error {
	recordAddress, recordProof := RecordProof(o.Marketplace, o.Seller, o.HoldingAccount, o.Asset)

	balance, err := ledger.Balance(ctx, recordAddress)
	if err != nil {
		return errors.Wrap(err, "Failed to fetch record balance")
	}
	if balance > 0 {
		auth := funds.DerivedAuthority(recordProof)
		if err := ledger.Transfer(ctx, recordAddress, o.Seller, balance, auth); err != nil {
			return errors.Wrap(err, "Failed to return storage deposit")
		}
	}

	o.Quantity = 0
	if err := Save(ctx, dbConn, o); err != nil {
		return errors.Wrap(err, "Failed to zero offer")
	}

	return Remove(ctx, dbConn, o.Marketplace, o.Seller, o.HoldingAccount, o.Asset)
}
