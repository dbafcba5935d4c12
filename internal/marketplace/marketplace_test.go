package marketplace

import (
	"context"
	"testing"

	"github.com/magicoss/m2/internal/platform/tests"
)

func TestCreateAndRetrieve(t *testing.T) {
	test := &tests.Test{}
	ctx := context.Background()
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("\t%s\tFailed to set up test : %v", tests.Failed, err)
	}
	t.Cleanup(func() { test.Close(ctx) })
	tctx := test.Context(ctx, "marketplace-test")

	nu := &NewMarketplace{
		Creator:        tests.RandomAddress(),
		Notary:         tests.RandomAddress(),
		MaxMakerFeeBps: 500,
		MaxTakerFeeBps: 500,
	}

	m, err := Create(tctx, test.DB, nu)
	if err != nil {
		t.Fatalf("\t%s\tFailed to create marketplace : %v", tests.Failed, err)
	}

	if !m.Address.Equal(DeriveAddress(nu.Creator)) {
		t.Errorf("address got %s want derived from creator", m.Address)
	}
	treasury, _ := TreasuryProof(m.Address)
	if !m.Treasury.Equal(treasury) {
		t.Errorf("treasury got %s want %s", m.Treasury, treasury)
	}

	got, err := Retrieve(tctx, test.DB, m.Address)
	if err != nil {
		t.Fatalf("\t%s\tFailed to retrieve marketplace : %v", tests.Failed, err)
	}
	if !got.Notary.Equal(nu.Notary) || got.MaxMakerFeeBps != 500 || got.MaxTakerFeeBps != 500 {
		t.Errorf("retrieved %+v", got)
	}

	// One marketplace per creator.
	if _, err := Create(tctx, test.DB, nu); err != ErrExists {
		t.Errorf("duplicate create got %v want %v", err, ErrExists)
	}

	if _, err := Retrieve(tctx, test.DB, tests.RandomAddress()); err != ErrNotFound {
		t.Errorf("missing marketplace got %v want %v", err, ErrNotFound)
	}
}
