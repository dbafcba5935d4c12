package offer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
)

const storageKey = "marketplaces"
const storageSubKey = "offers"

// Save a single offer in storage.
func Save(ctx context.Context, dbConn *db.DB, o *Offer) error {
	data, err := json.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal offer")
	}

	return dbConn.Put(ctx, buildStoragePath(o.Marketplace, o.Seller, o.HoldingAccount, o.Asset), data)
}

// Fetch a single offer from storage.
func Fetch(ctx context.Context, dbConn *db.DB, marketAddress, seller, holdingAccount,
	asset address.Address) (*Offer, error) {

	b, err := dbConn.Fetch(ctx, buildStoragePath(marketAddress, seller, holdingAccount, asset))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch offer")
	}

	o := Offer{}
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal offer")
	}

	return &o, nil
}

// Remove destroys the offer record.
func Remove(ctx context.Context, dbConn *db.DB, marketAddress, seller, holdingAccount,
	asset address.Address) error {

	if err := dbConn.Remove(ctx, buildStoragePath(marketAddress, seller, holdingAccount, asset)); err != nil {
		if err == db.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// List all offers for a specified marketplace.
func List(ctx context.Context, dbConn *db.DB, marketAddress address.Address) ([]*Offer, error) {
	data, err := dbConn.Search(ctx, fmt.Sprintf("%s/%s/%s", storageKey, marketAddress, storageSubKey))
	if err != nil {
		return nil, err
	}

	result := make([]*Offer, 0, len(data))
	for _, b := range data {
		o := Offer{}
		if err := json.Unmarshal(b, &o); err != nil {
			return nil, err
		}
		result = append(result, &o)
	}

	return result, nil
}

// Returns the storage path prefix for a given identifier.
func buildStoragePath(marketAddress, seller, holdingAccount, asset address.Address) string {
	return fmt.Sprintf("%s/%s/%s/%s-%s-%s", storageKey, marketAddress, storageSubKey,
		seller, holdingAccount, asset)
}
