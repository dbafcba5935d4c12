package offer

import (
	"context"
	"testing"
	"time"

	"github.com/magicoss/m2/internal/custody"
	"github.com/magicoss/m2/internal/funds"
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
	return test, test.Context(ctx, "offer-test")
}

// mintToSeller puts one unit of a fresh asset in the seller's custody
// account so an offer can be created against it.
func mintToSeller(t *testing.T, ctx context.Context, test *tests.Test,
	seller address.Address) address.Address {

	asset := tests.RandomAddress()
	authority, _ := address.Derive([]byte("offer-test"), []byte("authority"))

	cust := custody.NewService(test.DB)
	if err := cust.Mint(ctx, asset, seller, authority); err != nil {
		t.Fatalf("\t%s\tFailed to mint : %v", tests.Failed, err)
	}
	if err := cust.Commit(ctx); err != nil {
		t.Fatalf("\t%s\tFailed to commit custody : %v", tests.Failed, err)
	}
	return asset
}

func TestCreateAndCancel(t *testing.T) {
	test, ctx := setup(t)

	seller := tests.RandomAddress()
	market := tests.RandomAddress()
	asset := mintToSeller(t, ctx, test, seller)

	ledger := funds.NewLedger(test.DB)
	if err := ledger.Credit(ctx, seller, 2000); err != nil {
		t.Fatalf("\t%s\tFailed to credit seller : %v", tests.Failed, err)
	}

	nu := &NewOffer{
		Seller:      seller,
		Marketplace: market,
		Asset:       asset,
		Price:       500000,
		Deposit:     2000,
	}

	o, err := Create(ctx, test.DB, ledger, nu)
	if err != nil {
		t.Fatalf("\t%s\tFailed to create offer : %v", tests.Failed, err)
	}
	if o.Quantity != 1 {
		t.Errorf("quantity got %d want 1", o.Quantity)
	}

	// The deposit moved to the record address.
	if got, _ := ledger.Balance(ctx, o.Address); got != 2000 {
		t.Errorf("record balance got %d want 2000", got)
	}
	if got, _ := ledger.Balance(ctx, seller); got != 0 {
		t.Errorf("seller balance got %d want 0", got)
	}

	// Only one standing offer per key.
	if _, err := Create(ctx, test.DB, ledger, nu); err != ErrExists {
		t.Fatalf("\t%s\tDuplicate create got %v want %v", tests.Failed, err, ErrExists)
	}

	// Strangers can't cancel.
	if err := Cancel(ctx, test.DB, ledger, o, tests.RandomAddress()); err == nil {
		t.Fatalf("\t%s\tStranger cancelled the offer", tests.Failed)
	}

	if err := Cancel(ctx, test.DB, ledger, o, seller); err != nil {
		t.Fatalf("\t%s\tFailed to cancel : %v", tests.Failed, err)
	}

	// Deposit returned, record gone.
	if got, _ := ledger.Balance(ctx, seller); got != 2000 {
		t.Errorf("seller balance got %d want 2000", got)
	}
	holding := custody.AccountAddress(asset, seller)
	if _, err := Fetch(ctx, test.DB, market, seller, holding, asset); err != ErrNotFound {
		t.Errorf("fetch after cancel got %v want %v", err, ErrNotFound)
	}
}

func TestCreateWithoutHolding(t *testing.T) {
	test, ctx := setup(t)

	ledger := funds.NewLedger(test.DB)
	_, err := Create(ctx, test.DB, ledger, &NewOffer{
		Seller:      tests.RandomAddress(),
		Marketplace: tests.RandomAddress(),
		Asset:       tests.RandomAddress(),
		Price:       500000,
	})
	if err == nil {
		t.Fatalf("\t%s\tCreated offer without a holding", tests.Failed)
	}
}

func TestExpired(t *testing.T) {
	now := time.Unix(2000000000, 0)

	cases := []struct {
		name   string
		expiry int64
		want   bool
	}{
		{name: "zero never expires", expiry: 0, want: false},
		{name: "one never expires", expiry: 1, want: false},
		{name: "minus one never expires", expiry: -1, want: false},
		{name: "past", expiry: 1000000, want: true},
		{name: "past with flagged sign", expiry: -1000000, want: true},
		{name: "future", expiry: now.Unix() + 3600, want: false},
		{name: "future with flagged sign", expiry: -(now.Unix() + 3600), want: false},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Expired(&Offer{Expiry: tt.expiry}, now); got != tt.want {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	test, ctx := setup(t)

	market := tests.RandomAddress()
	ledger := funds.NewLedger(test.DB)

	for i := 0; i < 3; i++ {
		seller := tests.RandomAddress()
		asset := mintToSeller(t, ctx, test, seller)
		if _, err := Create(ctx, test.DB, ledger, &NewOffer{
			Seller:      seller,
			Marketplace: market,
			Asset:       asset,
			Price:       100000,
		}); err != nil {
			t.Fatalf("\t%s\tFailed to create offer : %v", tests.Failed, err)
		}
	}

	offers, err := List(ctx, test.DB, market)
	if err != nil {
		t.Fatalf("\t%s\tFailed to list offers : %v", tests.Failed, err)
	}
	if len(offers) != 3 {
		t.Errorf("listed %d offers want 3", len(offers))
	}
}
