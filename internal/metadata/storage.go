package metadata

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
)

const storageKey = "metadata"

// Save a single metadata entry in storage. Registry writes happen in the
// asset issuance flow, settlement only reads.
func Save(ctx context.Context, dbConn *db.DB, e *Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal metadata entry")
	}

	return dbConn.Put(ctx, buildStoragePath(e.Asset), data)
}

// Fetch a single metadata entry from storage.
func Fetch(ctx context.Context, dbConn *db.DB, asset address.Address) (*Entry, error) {
	data, err := dbConn.Fetch(ctx, buildStoragePath(asset))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch metadata entry")
	}

	e := Entry{}
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal metadata entry")
	}

	return &e, nil
}

// Returns the storage path prefix for a given identifier.
func buildStoragePath(asset address.Address) string {
	return fmt.Sprintf("%s/%s", storageKey, asset)
}
