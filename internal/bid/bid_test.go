package bid

import (
	"context"
	"testing"

	"github.com/magicoss/m2/internal/funds"
	"github.com/magicoss/m2/internal/platform/tests"
)

func setup(t *testing.T) (*tests.Test, context.Context) {
	test := &tests.Test{}
	ctx := context.Background()
	if err := test.Setup(ctx); err != nil {
		t.Fatalf("\t%s\tFailed to set up test : %v", tests.Failed, err)
	}
	t.Cleanup(func() { test.Close(ctx) })
	return test, test.Context(ctx, "bid-test")
}

func TestCreateAndCancel(t *testing.T) {
	test, ctx := setup(t)

	buyer := tests.RandomAddress()
	market := tests.RandomAddress()
	asset := tests.RandomAddress()

	ledger := funds.NewLedger(test.DB)
	if err := ledger.Credit(ctx, buyer, 2000); err != nil {
		t.Fatalf("\t%s\tFailed to credit buyer : %v", tests.Failed, err)
	}

	nu := &NewBid{
		Buyer:       buyer,
		Marketplace: market,
		Asset:       asset,
		Price:       500000,
		Deposit:     2000,
	}

	b, err := Create(ctx, test.DB, ledger, nu)
	if err != nil {
		t.Fatalf("\t%s\tFailed to create bid : %v", tests.Failed, err)
	}

	if got, _ := ledger.Balance(ctx, b.Address); got != 2000 {
		t.Errorf("record balance got %d want 2000", got)
	}

	if _, err := Create(ctx, test.DB, ledger, nu); err != ErrExists {
		t.Fatalf("\t%s\tDuplicate create got %v want %v", tests.Failed, err, ErrExists)
	}

	if err := Cancel(ctx, test.DB, ledger, b, tests.RandomAddress()); err == nil {
		t.Fatalf("\t%s\tStranger cancelled the bid", tests.Failed)
	}

	if err := Cancel(ctx, test.DB, ledger, b, buyer); err != nil {
		t.Fatalf("\t%s\tFailed to cancel : %v", tests.Failed, err)
	}

	if got, _ := ledger.Balance(ctx, buyer); got != 2000 {
		t.Errorf("buyer balance got %d want 2000", got)
	}
	if _, err := Fetch(ctx, test.DB, market, buyer, asset); err != ErrNotFound {
		t.Errorf("fetch after cancel got %v want %v", err, ErrNotFound)
	}
}

func TestClear(t *testing.T) {
	b := &Bid{
		Address:     tests.RandomAddress(),
		Buyer:       tests.RandomAddress(),
		Marketplace: tests.RandomAddress(),
		Asset:       tests.RandomAddress(),
		Referral:    tests.RandomAddress(),
		Quantity:    1,
		Price:       500000,
		Expiry:      1234567890,
	}

	key := *b
	Clear(b)

	// Key fields survive, value fields zero.
	if !b.Address.Equal(key.Address) || !b.Buyer.Equal(key.Buyer) ||
		!b.Marketplace.Equal(key.Marketplace) || !b.Asset.Equal(key.Asset) {
		t.Errorf("key fields changed : %+v", b)
	}
	if b.Quantity != 0 || b.Price != 0 || b.Expiry != 0 || !b.Referral.IsZero() {
		t.Errorf("value fields not cleared : %+v", b)
	}
}

func TestList(t *testing.T) {
	test, ctx := setup(t)

	market := tests.RandomAddress()
	ledger := funds.NewLedger(test.DB)

	for i := 0; i < 2; i++ {
		if _, err := Create(ctx, test.DB, ledger, &NewBid{
			Buyer:       tests.RandomAddress(),
			Marketplace: market,
			Asset:       tests.RandomAddress(),
			Price:       100000,
		}); err != nil {
			t.Fatalf("\t%s\tFailed to create bid : %v", tests.Failed, err)
		}
	}

	bids, err := List(ctx, test.DB, market)
	if err != nil {
		t.Fatalf("\t%s\tFailed to list bids : %v", tests.Failed, err)
	}
	if len(bids) != 2 {
		t.Errorf("listed %d bids want 2", len(bids))
	}
}
