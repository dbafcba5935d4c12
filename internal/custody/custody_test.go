package custody

import (
	"context"
	"testing"

	"github.com/magicoss/m2/internal/metadata"
	"github.com/magicoss/m2/internal/platform/tests"
	"github.com/magicoss/m2/pkg/address"
)

func setup(t *testing.T) (*tests.Test, context.Context) {
	test := &tests.Test{}
	ctx := context.Background()
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("\t%s\tFailed to set up test : %v", tests.Failed, err)
	}
	t.Cleanup(func() { test.Close(ctx) })
	return test, test.Context(ctx, "custody-test")
}

func TestMintAndTransfer(t *testing.T) {
	test, ctx := setup(t)

	asset := tests.RandomAddress()
	seller := tests.RandomAddress()
	buyer := tests.RandomAddress()
	authority, proof := address.Derive([]byte("custody-test"), []byte("authority"))

	s := NewService(test.DB)
	if err := s.Mint(ctx, asset, seller, authority); err != nil {
		t.Fatalf("\t%s\tFailed to mint : %v", tests.Failed, err)
	}

	// Locked until the authority unlocks.
	if err := s.Transfer(ctx, asset, seller, buyer, proof); err != ErrLocked {
		t.Fatalf("\t%s\tLocked transfer got %v want %v", tests.Failed, err, ErrLocked)
	}

	// A proof for some other account can't unlock.
	_, wrongProof := address.Derive([]byte("custody-test"), []byte("other"))
	if err := s.Unlock(ctx, asset, wrongProof); err != ErrUnauthorized {
		t.Fatalf("\t%s\tWrong proof unlock got %v want %v", tests.Failed, err, ErrUnauthorized)
	}

	if err := s.Unlock(ctx, asset, proof); err != nil {
		t.Fatalf("\t%s\tFailed to unlock : %v", tests.Failed, err)
	}

	created, err := s.InitReceivingAccount(ctx, asset, buyer)
	if err != nil {
		t.Fatalf("\t%s\tFailed to init receiving account : %v", tests.Failed, err)
	}
	if !created {
		t.Fatalf("\t%s\tReceiving account reported as pre-existing", tests.Failed)
	}

	if err := s.Transfer(ctx, asset, seller, buyer, proof); err != nil {
		t.Fatalf("\t%s\tFailed to transfer : %v", tests.Failed, err)
	}

	// The unit moved and the lock re-applied.
	mint, err := s.MintState(ctx, asset)
	if err != nil {
		t.Fatalf("\t%s\tFailed to fetch mint state : %v", tests.Failed, err)
	}
	if !mint.Locked {
		t.Errorf("mint not re-locked after transfer")
	}

	buyerAccount, err := s.TokenAccount(ctx, asset, buyer)
	if err != nil {
		t.Fatalf("\t%s\tFailed to fetch buyer account : %v", tests.Failed, err)
	}
	if buyerAccount.Amount != 1 {
		t.Errorf("buyer amount got %d want 1", buyerAccount.Amount)
	}

	// A second transfer finds no unit to move.
	if err := s.Unlock(ctx, asset, proof); err != nil {
		t.Fatalf("\t%s\tFailed to unlock : %v", tests.Failed, err)
	}
	if err := s.Transfer(ctx, asset, seller, buyer, proof); err != ErrNoUnit {
		t.Errorf("replayed transfer got %v want %v", err, ErrNoUnit)
	}
}

func TestCommitPersists(t *testing.T) {
	test, ctx := setup(t)

	asset := tests.RandomAddress()
	owner := tests.RandomAddress()
	authority, _ := address.Derive([]byte("custody-test"), []byte("authority"))

	s := NewService(test.DB)
	if err := s.Mint(ctx, asset, owner, authority); err != nil {
		t.Fatalf("\t%s\tFailed to mint : %v", tests.Failed, err)
	}

	// Staged state is invisible until commit.
	fresh := NewService(test.DB)
	if _, err := fresh.MintState(ctx, asset); err != ErrMintNotFound {
		t.Fatalf("\t%s\tUncommitted mint visible : %v", tests.Failed, err)
	}

	if err := s.Commit(ctx); err != nil {
		t.Fatalf("\t%s\tFailed to commit : %v", tests.Failed, err)
	}

	fresh = NewService(test.DB)
	mint, err := fresh.MintState(ctx, asset)
	if err != nil {
		t.Fatalf("\t%s\tFailed to fetch committed mint : %v", tests.Failed, err)
	}
	if mint.Supply != 1 || mint.Decimals != 0 || !mint.Locked {
		t.Errorf("mint state got %+v", mint)
	}
}

func TestInitReceivingAccountIdempotent(t *testing.T) {
	test, ctx := setup(t)

	asset := tests.RandomAddress()
	owner := tests.RandomAddress()

	s := NewService(test.DB)
	created, err := s.InitReceivingAccount(ctx, asset, owner)
	if err != nil {
		t.Fatalf("\t%s\tFailed to init account : %v", tests.Failed, err)
	}
	if !created {
		t.Fatalf("\t%s\tFirst init reported as pre-existing", tests.Failed)
	}

	created, err = s.InitReceivingAccount(ctx, asset, owner)
	if err != nil {
		t.Fatalf("\t%s\tFailed to re-init account : %v", tests.Failed, err)
	}
	if created {
		t.Errorf("second init reported as created")
	}
}

func TestRoyaltyOverride(t *testing.T) {
	test, ctx := setup(t)

	asset := tests.RandomAddress()

	s := NewService(test.DB)

	// No policy configured.
	if _, exists, err := s.RoyaltyOverride(ctx, asset); err != nil || exists {
		t.Fatalf("\t%s\tAbsent policy got exists=%v err=%v", tests.Failed, exists, err)
	}

	creator := tests.RandomAddress()
	if err := SavePolicy(ctx, test.DB, &Policy{
		Asset:           asset,
		RoyaltyOverride: []metadata.Creator{{Address: creator, ShareBps: 250}},
	}); err != nil {
		t.Fatalf("\t%s\tFailed to save policy : %v", tests.Failed, err)
	}

	override, exists, err := s.RoyaltyOverride(ctx, asset)
	if err != nil {
		t.Fatalf("\t%s\tFailed to fetch override : %v", tests.Failed, err)
	}
	if !exists || len(override) != 1 || !override[0].Address.Equal(creator) {
		t.Errorf("override got %+v exists=%v", override, exists)
	}
}
