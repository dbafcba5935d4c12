package escrow

import (
	"context"

	"github.com/magicoss/m2/internal/funds"
	"github.com/magicoss/m2/internal/marketplace"
	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/internal/platform/node"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Escrow account not found")
)

// AccountProof returns the escrow address for a marketplace and buyer along
// with the proof that moves funds out of it.
func AccountProof(marketAddress, buyer address.Address) (address.Address, address.Proof) {
	return address.Derive([]byte(marketplace.SeedPrefix), marketAddress.Bytes(), buyer.Bytes())
}

// Deposit moves native units from the buyer's wallet into escrow, creating
// the account record on first deposit. The buyer signs the debit.
func Deposit(ctx context.Context, dbConn *db.DB, ledger *funds.Ledger, marketAddress,
	buyer address.Address, amount uint64) (*Account, error) {

	ctx, span := trace.StartSpan(ctx, "internal.escrow.Deposit")
	defer span.End()

	v := ctx.Value(node.KeyValues).(*node.Values)

	accountAddress, _ := AccountProof(marketAddress, buyer)

	account, err := Fetch(ctx, dbConn, marketAddress, buyer)
	if err == ErrNotFound {
		account = &Account{
			Address:     accountAddress,
			Marketplace: marketAddress,
			Buyer:       buyer,
			CreatedAt:   v.Now,
			UpdatedAt:   v.Now,
		}
		if err := Save(ctx, dbConn, account); err != nil {
			return nil, errors.Wrap(err, "Failed to save escrow account")
		}
	} else if err != nil {
		return nil, err
	}

	auth := funds.SignerAuthority(buyer)
	if err := ledger.Transfer(ctx, buyer, accountAddress, amount, auth); err != nil {
		return nil, errors.Wrap(err, "Failed to fund escrow")
	}

	node.Log(ctx, "Deposited %d into escrow %s", amount, accountAddress)
	return account, nil
}

// Withdraw moves native units from escrow back to the buyer's wallet. The
// debit is authorized by the derivation proof, not a key, so the requester
// must be the registered buyer.
func Withdraw(ctx context.Context, dbConn *db.DB, ledger *funds.Ledger, marketAddress,
	buyer address.Address, amount uint64, requester address.Address) error {

	ctx, span := trace.StartSpan(ctx, "internal.escrow.Withdraw")
	defer span.End()

	if !requester.Equal(buyer) {
		return errors.New("Only the buyer can withdraw from escrow")
	}

	if _, err := Fetch(ctx, dbConn, marketAddress, buyer); err != nil {
		return err
	}

	accountAddress, proof := AccountProof(marketAddress, buyer)

	auth := funds.DerivedAuthority(proof)
	if err := ledger.Transfer(ctx, accountAddress, buyer, amount, auth); err != nil {
		return errors.Wrap(err, "Failed to withdraw from escrow")
	}

	node.Log(ctx, "Withdrew %d from escrow %s", amount, accountAddress)
	return nil
}

// CloseIfEmpty destroys the escrow account record when its staged balance
// is zero. A non-zero escrow stays open for future settlements.
func CloseIfEmpty(ctx context.Context, dbConn *db.DB, ledger *funds.Ledger, marketAddress,
	buyer address.Address) (bool, error) {

	ctx, span := trace.StartSpan(ctx, "internal.escrow.CloseIfEmpty")
	defer span.End()

	accountAddress, _ := AccountProof(marketAddress, buyer)

	balance, err := ledger.Balance(ctx, accountAddress)
	if err != nil {
		return false, err
	}
	if balance > 0 {
		return false, nil
	}

	if err := Remove(ctx, dbConn, marketAddress, buyer); err != nil && err != ErrNotFound {
		return false, err
	}

	node.LogVerbose(ctx, "Closed empty escrow %s", accountAddress)
	return true, nil
}
