package funds

import (
	"context"

	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/internal/platform/node"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var (
	// ErrUnauthorized occurs when the presented authority doesn't control
	// the debited account.
	ErrUnauthorized = errors.New("Authority does not control account")

	// ErrInsufficientFunds occurs when the debited account balance is too
	// low.
	ErrInsufficientFunds = errors.New("Insufficient funds")

	// ErrBadAmount occurs on zero value transfers.
	ErrBadAmount = errors.New("Transfer amount invalid")
)

// Authority is the right to debit an account. User held accounts are
// debited by their signer, derived accounts only by a derivation proof.
type Authority struct {
	Signer address.Address
	Proof  *address.Proof
}

// SignerAuthority returns the authority of a user held key. The signature
// itself is validated by the request transport before settlement runs.
func SignerAuthority(signer address.Address) Authority {
	return Authority{Signer: signer}
}

// DerivedAuthority returns the authority of a derivation proof.
func DerivedAuthority(proof address.Proof) Authority {
	return Authority{Proof: &proof}
}

// controls returns true if the authority controls the given account.
func (a Authority) controls(account address.Address) bool {
	if a.Proof != nil {
		return a.Proof.Authorizes(account)
	}
	return !a.Signer.IsZero() && a.Signer.Equal(account)
}

// Ledger is the native currency ledger. All mutation is staged in memory
// and only hits storage on Commit, so a failed settlement attempt leaves no
// observable balance changes.
type Ledger struct {
	dbConn   *db.DB
	balances map[address.Address]uint64
	loaded   map[address.Address]bool
	dirty    map[address.Address]bool
}

// NewLedger returns a ledger staging changes against the given db.
func NewLedger(dbConn *db.DB) *Ledger {
	return &Ledger{
		dbConn:   dbConn,
		balances: make(map[address.Address]uint64),
		loaded:   make(map[address.Address]bool),
		dirty:    make(map[address.Address]bool),
	}
}

// Balance returns the staged balance of an account, loading it from storage
// on first touch.
func (l *Ledger) Balance(ctx context.Context, account address.Address) (uint64, error) {
	if err := l.load(ctx, account); err != nil {
		return 0, err
	}
	return l.balances[account], nil
}

// Transfer moves native units between two accounts after verifying the
// authority controls the debited account.
func (l *Ledger) Transfer(ctx context.Context, from, to address.Address, amount uint64,
	auth Authority) error {

	ctx, span := trace.StartSpan(ctx, "internal.funds.Transfer")
	defer span.End()

	if amount == 0 {
		return ErrBadAmount
	}

	if !auth.controls(from) {
		return ErrUnauthorized
	}

	if err := l.load(ctx, from); err != nil {
		return err
	}
	if err := l.load(ctx, to); err != nil {
		return err
	}

	if l.balances[from] < amount {
		return ErrInsufficientFunds
	}

	l.balances[from] -= amount
	l.balances[to] += amount
	l.dirty[from] = true
	l.dirty[to] = true

	node.LogVerbose(ctx, "Transferred %d : %s -> %s", amount, from, to)
	return nil
}

// Credit adds native units to an account with no source. This is the
// deposit boundary used by bootstrap flows and tests, real deployments fund
// accounts from an external ramp.
func (l *Ledger) Credit(ctx context.Context, account address.Address, amount uint64) error {
	if err := l.load(ctx, account); err != nil {
		return err
	}

	l.balances[account] += amount
	l.dirty[account] = true
	return nil
}

// Commit persists every staged balance. Zero balances are removed from
// storage so closed accounts leave nothing behind.
func (l *Ledger) Commit(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "internal.funds.Commit")
	defer span.End()

	for account := range l.dirty {
		if err := save(ctx, l.dbConn, account, l.balances[account]); err != nil {
			return errors.Wrapf(err, "Failed to persist balance for %s", account)
		}
		delete(l.dirty, account)
	}

	return nil
}

func (l *Ledger) load(ctx context.Context, account address.Address) error {
	if l.loaded[account] {
		return nil
	}

	balance, err := fetch(ctx, l.dbConn, account)
	if err != nil {
		return err
	}

	l.balances[account] = balance
	l.loaded[account] = true
	return nil
}
