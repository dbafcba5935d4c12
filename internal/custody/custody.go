package custody

import (
	"context"

	"github.com/magicoss/m2/internal/metadata"
	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/internal/platform/node"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

const tokenSeed = "token"

// AccountReserve is the storage reserve debited from the payer when a new
// receiving account is created during settlement.
const AccountReserve uint64 = 2400

var (
	// ErrMintNotFound abstracts the standard not found error.
	ErrMintNotFound = errors.New("Mint state not found")

	// ErrAccountNotFound occurs when a token account doesn't exist.
	ErrAccountNotFound = errors.New("Token account not found")

	// ErrLocked occurs when a transfer is attempted while custody holds the
	// lock.
	ErrLocked = errors.New("Asset is locked")

	// ErrUnauthorized occurs when the presented proof isn't the lock
	// authority.
	ErrUnauthorized = errors.New("Proof is not the lock authority")

	// ErrNoUnit occurs when the sending account doesn't hold the unit.
	ErrNoUnit = errors.New("Sender does not hold the unit")
)

// AccountAddress returns the deterministic token account address for an
// asset and owner.
func AccountAddress(asset, owner address.Address) address.Address {
	result, _ := address.Derive([]byte(tokenSeed), asset.Bytes(), owner.Bytes())
	return result
}

// Service drives the custody/transfer-policy state for settlements. All
// mutation is staged in memory and only hits storage on Commit, matching
// the all-or-nothing settlement contract.
type Service struct {
	dbConn   *db.DB
	mints    map[address.Address]*MintState
	accounts map[address.Address]*TokenAccount
	dirty    map[address.Address]bool
}

// NewService returns a custody service staging changes against the given
// db.
func NewService(dbConn *db.DB) *Service {
	return &Service{
		dbConn:   dbConn,
		mints:    make(map[address.Address]*MintState),
		accounts: make(map[address.Address]*TokenAccount),
		dirty:    make(map[address.Address]bool),
	}
}

// MintState returns the staged mint state for an asset.
func (s *Service) MintState(ctx context.Context, asset address.Address) (*MintState, error) {
	if mint, exists := s.mints[asset]; exists {
		return mint, nil
	}

	mint, err := fetchMint(ctx, s.dbConn, asset)
	if err != nil {
		return nil, err
	}

	s.mints[asset] = mint
	return mint, nil
}

// TokenAccount returns the staged token account for an asset and owner.
func (s *Service) TokenAccount(ctx context.Context, asset, owner address.Address) (*TokenAccount, error) {
	accountAddress := AccountAddress(asset, owner)

	if account, exists := s.accounts[accountAddress]; exists {
		return account, nil
	}

	account, err := fetchAccount(ctx, s.dbConn, accountAddress)
	if err != nil {
		return nil, err
	}

	s.accounts[accountAddress] = account
	return account, nil
}

// Mint registers a new wrapped asset under custody: supply of one, zero
// decimals, locked for the given authority, the unit held by owner. This is
// the issuance flow boundary.
func (s *Service) Mint(ctx context.Context, asset, owner, lockAuthority address.Address) error {
	ctx, span := trace.StartSpan(ctx, "internal.custody.Mint")
	defer span.End()

	v := ctx.Value(node.KeyValues).(*node.Values)

	if _, err := s.MintState(ctx, asset); err == nil {
		return errors.New("Mint state already exists")
	} else if err != ErrMintNotFound {
		return err
	}

	s.mints[asset] = &MintState{
		Asset:         asset,
		Supply:        1,
		Decimals:      0,
		Locked:        true,
		LockAuthority: lockAuthority,
		CreatedAt:     v.Now,
		UpdatedAt:     v.Now,
	}
	s.dirty[asset] = true

	accountAddress := AccountAddress(asset, owner)
	s.accounts[accountAddress] = &TokenAccount{
		Address:   accountAddress,
		Asset:     asset,
		Owner:     owner,
		Amount:    1,
		CreatedAt: v.Now,
		UpdatedAt: v.Now,
	}
	s.dirty[accountAddress] = true

	node.Log(ctx, "Minted asset %s to %s", asset, owner)
	return nil
}

// Unlock releases the custody lock on an asset. Only the lock authority's
// derivation proof may unlock.
func (s *Service) Unlock(ctx context.Context, asset address.Address, auth address.Proof) error {
	ctx, span := trace.StartSpan(ctx, "internal.custody.Unlock")
	defer span.End()

	mint, err := s.MintState(ctx, asset)
	if err != nil {
		return err
	}

	if !auth.Authorizes(mint.LockAuthority) {
		return ErrUnauthorized
	}

	mint.Locked = false
	s.dirty[asset] = true

	node.LogVerbose(ctx, "Unlocked asset %s", asset)
	return nil
}

// InitReceivingAccount creates the owner's token account for an asset if it
// doesn't exist yet. Returns true when an account was created so the caller
// can charge the payer the storage reserve.
func (s *Service) InitReceivingAccount(ctx context.Context, asset, owner address.Address) (bool, error) {
	ctx, span := trace.StartSpan(ctx, "internal.custody.InitReceivingAccount")
	defer span.End()

	v := ctx.Value(node.KeyValues).(*node.Values)

	if _, err := s.TokenAccount(ctx, asset, owner); err == nil {
		return false, nil
	} else if err != ErrAccountNotFound {
		return false, err
	}

	accountAddress := AccountAddress(asset, owner)
	s.accounts[accountAddress] = &TokenAccount{
		Address:   accountAddress,
		Asset:     asset,
		Owner:     owner,
		Amount:    0,
		CreatedAt: v.Now,
		UpdatedAt: v.Now,
	}
	s.dirty[accountAddress] = true

	node.LogVerbose(ctx, "Initialized receiving account %s for %s", accountAddress, owner)
	return true, nil
}

// Transfer moves the unit between owners. The asset must be unlocked, the
// proof must be the lock authority, and the lock is re-applied under the
// new owner as a side effect.
func (s *Service) Transfer(ctx context.Context, asset, from, to address.Address,
	auth address.Proof) error {

	ctx, span := trace.StartSpan(ctx, "internal.custody.Transfer")
	defer span.End()

	v := ctx.Value(node.KeyValues).(*node.Values)

	mint, err := s.MintState(ctx, asset)
	if err != nil {
		return err
	}

	if !auth.Authorizes(mint.LockAuthority) {
		return ErrUnauthorized
	}
	if mint.Locked {
		return ErrLocked
	}

	fromAccount, err := s.TokenAccount(ctx, asset, from)
	if err != nil {
		return err
	}
	if fromAccount.Amount != 1 {
		return ErrNoUnit
	}

	toAccount, err := s.TokenAccount(ctx, asset, to)
	if err != nil {
		return err
	}

	fromAccount.Amount = 0
	fromAccount.UpdatedAt = v.Now
	toAccount.Amount = 1
	toAccount.UpdatedAt = v.Now

	// Custody re-locks under the new owner.
	mint.Locked = true
	mint.UpdatedAt = v.Now

	s.dirty[asset] = true
	s.dirty[fromAccount.Address] = true
	s.dirty[toAccount.Address] = true

	node.LogVerbose(ctx, "Transferred asset %s : %s -> %s", asset, from, to)
	return nil
}

// RoyaltyOverride returns the policy's royalty creator list for an asset if
// one is configured.
func (s *Service) RoyaltyOverride(ctx context.Context, asset address.Address) ([]metadata.Creator, bool, error) {
	policy, err := fetchPolicy(ctx, s.dbConn, asset)
	if err != nil {
		if err == ErrPolicyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	if len(policy.RoyaltyOverride) == 0 {
		return nil, false, nil
	}

	return policy.RoyaltyOverride, true, nil
}

// Commit persists every staged mint state and token account.
func (s *Service) Commit(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "internal.custody.Commit")
	defer span.End()

	for key := range s.dirty {
		if mint, exists := s.mints[key]; exists {
			if err := saveMint(ctx, s.dbConn, mint); err != nil {
				return errors.Wrapf(err, "Failed to persist mint state for %s", key)
			}
		}
		if account, exists := s.accounts[key]; exists {
			if err := saveAccount(ctx, s.dbConn, account); err != nil {
				return errors.Wrapf(err, "Failed to persist token account %s", key)
			}
		}
		delete(s.dirty, key)
	}

	return nil
}
