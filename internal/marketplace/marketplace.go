package marketplace

import (
	"context"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/internal/platform/node"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// SeedPrefix is the first seed of every address derived by this module.
const SeedPrefix = "m2"

const treasurySeed = "treasury"

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Marketplace not found")

	// ErrExists occurs when a marketplace is created twice for a creator.
	ErrExists = errors.New("Marketplace already exists")
)

// DeriveAddress returns the marketplace address for a creator.
func DeriveAddress(creator address.Address) address.Address {
	result, _ := address.Derive([]byte(SeedPrefix), creator.Bytes())
	return result
}

// TreasuryProof returns the treasury address for a marketplace along with
// the proof that moves funds out of it.
func TreasuryProof(marketAddress address.Address) (address.Address, address.Proof) {
	return address.Derive([]byte(SeedPrefix), marketAddress.Bytes(), []byte(treasurySeed))
}

// Create the marketplace record. This is the external setup flow, run once
// per deployment.
func Create(ctx context.Context, dbConn *db.DB, nu *NewMarketplace) (*Marketplace, error) {
	ctx, span := trace.StartSpan(ctx, "internal.marketplace.Create")
	defer span.End()

	v := ctx.Value(node.KeyValues).(*node.Values)

	marketAddress := DeriveAddress(nu.Creator)

	if _, err := Fetch(ctx, dbConn, marketAddress); err == nil {
		return nil, ErrExists
	} else if err != ErrNotFound {
		return nil, err
	}

	var m Marketplace
	if err := node.Convert(nu, &m); err != nil {
		return nil, errors.Wrap(err, "Failed to convert new marketplace")
	}

	m.Address = marketAddress
	m.Treasury, _ = TreasuryProof(marketAddress)
	m.CreatedAt = v.Now
	m.UpdatedAt = v.Now

	if err := Save(ctx, dbConn, &m); err != nil {
		return nil, errors.Wrap(err, "Failed to save marketplace")
	}

	node.Log(ctx, "Created marketplace %s for creator %s", m.Address, m.Creator)
	return &m, nil
}

// Retrieve gets the specified marketplace from the database.
func Retrieve(ctx context.Context, dbConn *db.DB, marketAddress address.Address) (*Marketplace, error) {
	ctx, span := trace.StartSpan(ctx, "internal.marketplace.Retrieve")
	defer span.End()

	m, err := Fetch(ctx, dbConn, marketAddress)
	if err != nil {
		return nil, err
	}

	return m, nil
}
