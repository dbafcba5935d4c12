package custody

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
)

const storageKey = "custody"

var (
	// ErrPolicyNotFound occurs when no transfer policy exists for an asset.
	ErrPolicyNotFound = errors.New("Policy not found")
)

func saveMint(ctx context.Context, dbConn *db.DB, mint *MintState) error {
	data, err := json.Marshal(mint)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal mint state")
	}

	return dbConn.Put(ctx, buildMintPath(mint.Asset), data)
}

func fetchMint(ctx context.Context, dbConn *db.DB, asset address.Address) (*MintState, error) {
	data, err := dbConn.Fetch(ctx, buildMintPath(asset))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrMintNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch mint state")
	}

	mint := MintState{}
	if err := json.Unmarshal(data, &mint); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal mint state")
	}

	return &mint, nil
}

func saveAccount(ctx context.Context, dbConn *db.DB, account *TokenAccount) error {
	data, err := json.Marshal(account)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal token account")
	}

	return dbConn.Put(ctx, buildAccountPath(account.Address), data)
}

func fetchAccount(ctx context.Context, dbConn *db.DB, accountAddress address.Address) (*TokenAccount, error) {
	data, err := dbConn.Fetch(ctx, buildAccountPath(accountAddress))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch token account")
	}

	account := TokenAccount{}
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal token account")
	}

	return &account, nil
}

// SavePolicy persists a transfer policy. Policies are written by the asset
// issuance flow.
func SavePolicy(ctx context.Context, dbConn *db.DB, policy *Policy) error {
	data, err := json.Marshal(policy)
	if err != nil {
		return errors.Wrap(err, "Failed to marshal policy")
	}

	return dbConn.Put(ctx, buildPolicyPath(policy.Asset), data)
}

func fetchPolicy(ctx context.Context, dbConn *db.DB, asset address.Address) (*Policy, error) {
	data, err := dbConn.Fetch(ctx, buildPolicyPath(asset))
	if err != nil {
		if err == db.ErrNotFound {
			return nil, ErrPolicyNotFound
		}

		return nil, errors.Wrap(err, "Failed to fetch policy")
	}

	policy := Policy{}
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal policy")
	}

	return &policy, nil
}

// Returns the storage path prefix for a given identifier.
func buildMintPath(asset address.Address) string {
	return fmt.Sprintf("%s/mints/%s", storageKey, asset)
}

func buildAccountPath(accountAddress address.Address) string {
	return fmt.Sprintf("%s/accounts/%s", storageKey, accountAddress)
}

func buildPolicyPath(asset address.Address) string {
	return fmt.Sprintf("%s/policies/%s", storageKey, asset)
}
