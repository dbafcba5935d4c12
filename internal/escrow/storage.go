package escrow

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
)

const storageKey = "marketplaces"
const storageSubKey = "escrows"

// Save a single escrow account in storage.
func Save(ctx context.Context, dbConn *db.DB, account *Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal escrow account")
	}

	return dbConn.Put(ctx, buildStoragePath(account.Marketplace, account.Buyer), data)
}

// Fetch a single escrow account from storage.
func Fetch(ctx context.Context, dbConn *db.DB, marketAddress, buyer address.Address) (*Account, error) {
	data, err := dbConn.Fetch(ctx, buildStoragePath(marketAddress, buyer))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch escrow account")
	}

	account := Account{}
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal escrow account")
	}

	return &account, nil
}

// Remove destroys the escrow account record.
func Remove(ctx context.Context, dbConn *db.DB, marketAddress, buyer address.Address) error {
	if err := dbConn.Remove(ctx, buildStoragePath(marketAddress, buyer)); err != nil {
		if err == db.ErrNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Returns the storage path prefix for a given identifier.
func buildStoragePath(marketAddress, buyer address.Address) string {
	return fmt.Sprintf("%s/%s/%s/%s", storageKey, marketAddress, storageSubKey, buyer)
}
