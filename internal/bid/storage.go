package bid

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
)

const storageKey = "marketplaces"
const storageSubKey = "bids"

// Save a single bid in storage.
func Save(ctx context.Context, dbConn *db.DB, b *Bid) error {
	data, err := json.Marshal(b)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal bid")
	}

	return dbConn.Put(ctx, buildStoragePath(b.Marketplace, b.Buyer, b.Asset), data)
}

// Fetch a single bid from storage.
func Fetch(ctx context.Context, dbConn *db.DB, marketAddress, buyer,
	asset address.Address) (*Bid, error) {

	data, err := dbConn.Fetch(ctx, buildStoragePath(marketAddress, buyer, asset))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch bid")
	}

	b := Bid{}
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal bid")
	}

	return &b, nil
}

// Remove destroys the bid record.
func Remove(ctx context.Context, dbConn *db.DB, marketAddress, buyer, asset address.Address) error {
	if err := dbConn.Remove(ctx, buildStoragePath(marketAddress, buyer, asset)); err != nil {
		if err == db.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// List all bids for a specified marketplace.
func List(ctx context.Context, dbConn *db.DB, marketAddress address.Address) ([]*Bid, error) {
	data, err := dbConn.Search(ctx, fmt.Sprintf("%s/%s/%s", storageKey, marketAddress, storageSubKey))
	if err != nil {
		return nil, err
	}

	result := make([]*Bid, 0, len(data))
	for _, b := range data {
		record := Bid{}
		if err := json.Unmarshal(b, &record); err != nil {
			return nil, err
		}
		result = append(result, &record)
	}

	return result, nil
}

// Returns the storage path prefix for a given identifier.
func buildStoragePath(marketAddress, buyer, asset address.Address) string {
	return fmt.Sprintf("%s/%s/%s/%s-%s", storageKey, marketAddress, storageSubKey, buyer, asset)
}
