package funds

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
)

const storageKey = "funds"

type balanceRecord struct {
	Account address.Address `json:"account"`
	Balance uint64          `json:"balance"`
}

// save persists a balance, removing the record entirely at zero.
func save(ctx context.Context, dbConn *db.DB, account address.Address, balance uint64) error {
	key := buildStoragePath(account)

	if balance == 0 {
		if err := dbConn.Remove(ctx, key); err != nil && err != db.ErrNotFound {
			return err
		}
		return nil
	}

	data, err := json.Marshal(&balanceRecord{Account: account, Balance: balance})
	if err != nil {
		return errors.Wrap(err, "Failed to marshal balance")
	}

	return dbConn.Put(ctx, key, data)
}

// fetch reads a balance. Missing accounts read as zero.
func fetch(ctx context.Context, dbConn *db.DB, account address.Address) (uint64, error) {
	data, err := dbConn.Fetch(ctx, buildStoragePath(account))
	if err != nil {
		if err == db.ErrNotFound {
			return 0, nil
		}
		return 0, errors.Wrap(err, "Failed to fetch balance")
	}

	record := balanceRecord{}
	if err := json.Unmarshal(data, &record); err != nil {
		return 0, errors.Wrap(err, "Failed to unmarshal balance")
	}

	return record.Balance, nil
}

// Returns the storage path prefix for a given identifier.
func buildStoragePath(account address.Address) string {
	return fmt.Sprintf("%s/%s", storageKey, account)
}
