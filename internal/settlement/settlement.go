package settlement

import (
	"context"
	"encoding/json"

	"github.com/magicoss/m2/internal/bid"
	"github.com/magicoss/m2/internal/custody"
	"github.com/magicoss/m2/internal/escrow"
	"github.com/magicoss/m2/internal/funds"
	"github.com/magicoss/m2/internal/marketplace"
	"github.com/magicoss/m2/internal/metadata"
	"github.com/magicoss/m2/internal/offer"
	"github.com/magicoss/m2/internal/platform/db"
	"github.com/magicoss/m2/internal/platform/node"
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

const signerSeed = "signer"

// SignerProof returns the settlement authority: the derived account that
// holds custody locks and signs custody operations on behalf of this
// module. No private key exists for it.
func SignerProof() (address.Address, address.Proof) {
	return address.Derive([]byte(marketplace.SeedPrefix), []byte(signerSeed))
}

// ExecuteSale atomically settles a standing offer against a standing bid:
// verify both, move the asset through custody, pay royalties, split the
// proceeds and retire the records. Any failure aborts the attempt with no
// observable state changes; the caller may resubmit a corrected request.
func ExecuteSale(ctx context.Context, dbConn *db.DB, req *ExecuteSaleRequest) (*Event, error) {
	ctx, span := trace.StartSpan(ctx, "internal.settlement.ExecuteSale")
	defer span.End()

	v := ctx.Value(node.KeyValues).(*node.Values)

	m, err := marketplace.Fetch(ctx, dbConn, req.Marketplace)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to fetch marketplace")
	}

	cust := custody.NewService(dbConn)

	mint, err := cust.MintState(ctx, req.Asset)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to fetch mint state")
	}

	sellerHolding, err := cust.TokenAccount(ctx, req.Asset, req.Seller)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to fetch seller holding")
	}

	o, err := offer.Fetch(ctx, dbConn, req.Marketplace, req.Seller, sellerHolding.Address, req.Asset)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to fetch offer")
	}

	b, err := bid.Fetch(ctx, dbConn, req.Marketplace, req.Buyer, req.Asset)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to fetch bid")
	}

	meta, err := metadata.Fetch(ctx, dbConn, req.Asset)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to fetch metadata entry")
	}

	if err := validateSale(ctx, req, m, o, b, meta, mint, sellerHolding, v.Now); err != nil {
		return nil, err
	}

	payerIsSeller := req.Payer.Equal(req.Seller)

	makerFeeBps, takerFeeBps := ResolveFeeBps(m, req.Notary, req.NotarySigned,
		req.MakerFeeBps, req.TakerFeeBps)

	amounts, err := ComputeAmounts(req.Price, makerFeeBps, takerFeeBps, payerIsSeller)
	if err != nil {
		return nil, err
	}

	ledger := funds.NewLedger(dbConn)
	escrowAddress, escrowProof := escrow.AccountProof(req.Marketplace, req.Buyer)
	_, signerProof := SignerProof()

	// Move the asset through custody: unlock with the settlement
	// authority, create the buyer's receiving account if needed, transfer.
	// Custody re-locks under the buyer.
	if err := cust.Unlock(ctx, req.Asset, signerProof); err != nil {
		return nil, errors.Wrap(err, "Failed to unlock asset")
	}

	created, err := cust.InitReceivingAccount(ctx, req.Asset, req.Buyer)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to init receiving account")
	}
	if created {
		receiving := custody.AccountAddress(req.Asset, req.Buyer)
		auth := funds.SignerAuthority(req.Payer)
		if err := ledger.Transfer(ctx, req.Payer, receiving, custody.AccountReserve, auth); err != nil {
			return nil, errors.Wrap(err, "Failed to fund receiving account reserve")
		}
	}

	if err := cust.Transfer(ctx, req.Asset, req.Seller, req.Buyer, signerProof); err != nil {
		return nil, errors.Wrap(err, "Failed to transfer asset")
	}

	// Royalties come out of escrow before the seller and treasury legs so
	// the escrow balance can't be overdrawn by a later transfer.
	royalty, err := disburseRoyalties(ctx, ledger, cust, meta, req.Asset, escrowAddress,
		escrowProof, req.Price)
	if err != nil {
		return nil, err
	}
	amounts.Royalty = royalty

	if amounts.SellerReceipt > 0 {
		auth := funds.DerivedAuthority(escrowProof)
		if err := ledger.Transfer(ctx, escrowAddress, req.Seller, amounts.SellerReceipt, auth); err != nil {
			return nil, errors.Wrap(err, "Failed to pay seller")
		}
	}

	if amounts.PlatformFee > 0 {
		if payerIsSeller {
			// The seller signs the treasury leg directly from its wallet.
			auth := funds.SignerAuthority(req.Payer)
			if err := ledger.Transfer(ctx, req.Payer, m.Treasury, amounts.PlatformFee, auth); err != nil {
				return nil, errors.Wrap(err, "Failed to pay platform fee")
			}
		} else {
			// The buyer is the payer, so the fee comes from escrow under
			// the derivation proof.
			auth := funds.DerivedAuthority(escrowProof)
			if err := ledger.Transfer(ctx, escrowAddress, m.Treasury, amounts.PlatformFee, auth); err != nil {
				return nil, errors.Wrap(err, "Failed to pay platform fee")
			}
		}
	}

	event := Event{
		MakerFee:     amounts.MakerFee,
		TakerFee:     amounts.TakerFee,
		Royalty:      amounts.Royalty,
		Price:        amounts.Price,
		SellerExpiry: o.Expiry,
		BuyerExpiry:  b.Expiry,
	}

	// Everything that can fail a settlement has run. Retire the records and
	// flush the staged state. Write serialization per record is the storage
	// host's guarantee.
	if err := offer.Close(ctx, dbConn, ledger, o); err != nil {
		return nil, errors.Wrap(err, "Failed to close offer")
	}

	if err := bid.Close(ctx, dbConn, ledger, b); err != nil {
		return nil, errors.Wrap(err, "Failed to close bid")
	}

	if _, err := escrow.CloseIfEmpty(ctx, dbConn, ledger, req.Marketplace, req.Buyer); err != nil {
		return nil, errors.Wrap(err, "Failed to close escrow")
	}

	if err := ledger.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "Failed to commit ledger")
	}

	if err := cust.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "Failed to commit custody")
	}

	data, err := json.Marshal(&event)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to marshal settlement event")
	}
	node.Log(ctx, "Sale settled : %s", string(data))

	return &event, nil
}
