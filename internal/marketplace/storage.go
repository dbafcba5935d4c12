package marketplace

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
)

const storageKey = "marketplaces"

// Save a single marketplace in storage.
func Save(ctx context.Context, dbConn *db.DB, m *Marketplace) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal marketplace")
	}

	return dbConn.Put(ctx, buildStoragePath(m.Address), data)
}

// Fetch a single marketplace from storage.
func Fetch(ctx context.Context, dbConn *db.DB, marketAddress address.Address) (*Marketplace, error) {
	b, err := dbConn.Fetch(ctx, buildStoragePath(marketAddress))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch marketplace")
	}

	m := Marketplace{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal marketplace")
	}

	return &m, nil
}

// Returns the storage path prefix for a given identifier.
func buildStoragePath(marketAddress address.Address) string {
	return fmt.Sprintf("%s/%s/config", storageKey, marketAddress)
}
