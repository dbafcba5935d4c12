package settlement

import (
	"math"
	"testing"

	"github.com/magicoss/m2/internal/marketplace"
	"github.com/magicoss/m2/internal/platform/tests"

	"github.com/google/go-cmp/cmp"
)

func TestComputeAmounts(t *testing.T) {
	cases := []struct {
		name          string
		price         uint64
		makerFeeBps   int16
		takerFeeBps   uint16
		payerIsSeller bool
		want          Amounts
	}{
		{
			name:          "seller pays",
			price:         1000000,
			makerFeeBps:   200,
			takerFeeBps:   100,
			payerIsSeller: true,
			want: Amounts{
				Price:         1000000,
				MakerFee:      20000,
				TakerFee:      10000,
				SellerReceipt: 1020000,
				PlatformFee:   30000,
			},
		},
		{
			name:          "buyer pays",
			price:         1000000,
			makerFeeBps:   200,
			takerFeeBps:   100,
			payerIsSeller: false,
			want: Amounts{
				Price:         1000000,
				MakerFee:      20000,
				TakerFee:      10000,
				SellerReceipt: 980000,
				PlatformFee:   30000,
			},
		},
		{
			name:          "maker rebate, buyer pays",
			price:         1000000,
			makerFeeBps:   -50,
			takerFeeBps:   100,
			payerIsSeller: false,
			want: Amounts{
				Price:         1000000,
				MakerFee:      -5000,
				TakerFee:      10000,
				SellerReceipt: 1005000,
				PlatformFee:   5000,
			},
		},
		{
			name:          "maker rebate, seller pays",
			price:         1000000,
			makerFeeBps:   -50,
			takerFeeBps:   100,
			payerIsSeller: true,
			want: Amounts{
				Price:         1000000,
				MakerFee:      -5000,
				TakerFee:      10000,
				SellerReceipt: 995000,
				PlatformFee:   5000,
			},
		},
		{
			name:          "fees floor toward zero",
			price:         999,
			makerFeeBps:   250,
			takerFeeBps:   250,
			payerIsSeller: false,
			want: Amounts{
				Price:         999,
				MakerFee:      24,
				TakerFee:      24,
				SellerReceipt: 975,
				PlatformFee:   48,
			},
		},
		{
			name:          "zero fees",
			price:         500,
			makerFeeBps:   0,
			takerFeeBps:   0,
			payerIsSeller: false,
			want: Amounts{
				Price:         500,
				SellerReceipt: 500,
			},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeAmounts(tt.price, tt.makerFeeBps, tt.takerFeeBps, tt.payerIsSeller)
			if err != nil {
				t.Fatalf("\t%s\tFailed to compute amounts : %v", tests.Failed, err)
			}

			if diff := cmp.Diff(*got, tt.want); diff != "" {
				t.Errorf("got\n%+v\nwant\n%+v", *got, tt.want)
			}
		})
	}
}

func TestComputeAmountsOverflow(t *testing.T) {
	cases := []struct {
		name          string
		price         uint64
		makerFeeBps   int16
		takerFeeBps   uint16
		payerIsSeller bool
	}{
		{
			name:        "price above int64 range",
			price:       math.MaxUint64,
			makerFeeBps: 0,
			takerFeeBps: 0,
		},
		{
			name:        "taker fee product overflows",
			price:       math.MaxUint64,
			takerFeeBps: math.MaxUint16,
		},
		{
			name:        "maker fee product overflows",
			price:       math.MaxUint64,
			makerFeeBps: math.MaxInt16,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ComputeAmounts(tt.price, tt.makerFeeBps, tt.takerFeeBps,
				tt.payerIsSeller); err != ErrNumericalOverflow {
				t.Errorf("got %v want %v", err, ErrNumericalOverflow)
			}
		})
	}
}

func TestResolveFeeBps(t *testing.T) {
	notary := tests.RandomAddress()
	overrideMaker := int16(300)
	overrideTaker := uint16(150)

	m := &marketplace.Marketplace{
		Notary:            notary,
		NotaryMakerFeeBps: &overrideMaker,
		NotaryTakerFeeBps: &overrideTaker,
	}

	// Unsigned requests keep the caller's fees.
	maker, taker := ResolveFeeBps(m, notary, false, 200, 100)
	if maker != 200 || taker != 100 {
		t.Fatalf("\t%s\tUnsigned request overrode fees : %d %d", tests.Failed, maker, taker)
	}

	// A signature from some other account keeps the caller's fees.
	maker, taker = ResolveFeeBps(m, tests.RandomAddress(), true, 200, 100)
	if maker != 200 || taker != 100 {
		t.Fatalf("\t%s\tWrong notary overrode fees : %d %d", tests.Failed, maker, taker)
	}

	// The marketplace notary's co-signature applies its schedule.
	maker, taker = ResolveFeeBps(m, notary, true, 200, 100)
	if maker != overrideMaker || taker != overrideTaker {
		t.Fatalf("\t%s\tNotary schedule not applied : %d %d", tests.Failed, maker, taker)
	}

	// A schedule with no values falls through to the caller's fees.
	empty := &marketplace.Marketplace{Notary: notary}
	maker, taker = ResolveFeeBps(empty, notary, true, 200, 100)
	if maker != 200 || taker != 100 {
		t.Fatalf("\t%s\tEmpty schedule overrode fees : %d %d", tests.Failed, maker, taker)
	}
}

func TestValidateFeeBps(t *testing.T) {
	m := &marketplace.Marketplace{
		MaxMakerFeeBps: 500,
		MaxTakerFeeBps: 500,
	}

	cases := []struct {
		name        string
		makerFeeBps int16
		takerFeeBps uint16
		reject      bool
	}{
		{name: "within bounds", makerFeeBps: 200, takerFeeBps: 100},
		{name: "at bounds", makerFeeBps: 500, takerFeeBps: 500},
		{name: "rebate covered by taker", makerFeeBps: -100, takerFeeBps: 100},
		{name: "maker above max", makerFeeBps: 501, takerFeeBps: 100, reject: true},
		{name: "taker above max", makerFeeBps: 200, takerFeeBps: 501, reject: true},
		{name: "rebate exceeds taker", makerFeeBps: -101, takerFeeBps: 100, reject: true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFeeBps(m, tt.makerFeeBps, tt.takerFeeBps)
			if !tt.reject {
				if err != nil {
					t.Fatalf("\t%s\tRejected valid fees : %v", tests.Failed, err)
				}
				return
			}

			r, ok := IsReject(err)
			if !ok {
				t.Fatalf("\t%s\tExpected rejection, got : %v", tests.Failed, err)
			}
			if r.Code != RejectFeePolicy {
				t.Errorf("got reject code %d want %d", r.Code, RejectFeePolicy)
			}
		})
	}
}
