package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/magicoss/m2/internal/bid"
	"github.com/magicoss/m2/internal/custody"
	"github.com/magicoss/m2/internal/marketplace"
	"github.com/magicoss/m2/internal/metadata"
	"github.com/magicoss/m2/internal/offer"
	"github.com/magicoss/m2/internal/platform/tests"
)

// saleState is every record validateSale looks at, built valid so each case
// can break exactly one thing.
type saleState struct {
	req     *ExecuteSaleRequest
	m       *marketplace.Marketplace
	o       *offer.Offer
	b       *bid.Bid
	meta    *metadata.Entry
	mint    *custody.MintState
	holding *custody.TokenAccount
	now     time.Time
}

func validSaleState() *saleState {
	seller := tests.RandomAddress()
	buyer := tests.RandomAddress()
	notary := tests.RandomAddress()
	asset := tests.RandomAddress()
	market := tests.RandomAddress()
	holdingAddress := custody.AccountAddress(asset, seller)

	return &saleState{
		req: &ExecuteSaleRequest{
			Price:       1000000,
			MakerFeeBps: 200,
			TakerFeeBps: 100,
			Payer:       buyer,
			Buyer:       buyer,
			Seller:      seller,
			Notary:      notary,
			Marketplace: market,
			Asset:       asset,
		},
		m: &marketplace.Marketplace{
			Address:        market,
			Notary:         notary,
			MaxMakerFeeBps: 500,
			MaxTakerFeeBps: 500,
		},
		o: &offer.Offer{
			Seller:         seller,
			Marketplace:    market,
			HoldingAccount: holdingAddress,
			Asset:          asset,
			Quantity:       1,
			Price:          1000000,
		},
		b: &bid.Bid{
			Buyer:       buyer,
			Marketplace: market,
			Asset:       asset,
			Quantity:    1,
			Price:       1000000,
		},
		meta: &metadata.Entry{
			Asset:           asset,
			UpdateAuthority: tests.RandomAddress(),
			Creators: []metadata.Creator{
				{Address: tests.RandomAddress(), ShareBps: 500},
			},
		},
		mint: &custody.MintState{
			Asset:    asset,
			Supply:   1,
			Decimals: 0,
		},
		holding: &custody.TokenAccount{
			Address: holdingAddress,
			Asset:   asset,
			Owner:   seller,
			Amount:  1,
		},
		now: time.Unix(2000000000, 0),
	}
}

func (s *saleState) validate() error {
	return validateSale(context.Background(), s.req, s.m, s.o, s.b, s.meta, s.mint,
		s.holding, s.now)
}

func TestValidateSale(t *testing.T) {
	if err := validSaleState().validate(); err != nil {
		t.Fatalf("\t%s\tValid sale rejected : %v", tests.Failed, err)
	}
}

func TestValidateSaleRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*saleState)
		code   RejectCode
	}{
		{
			name:   "payer is neither party",
			mutate: func(s *saleState) { s.req.Payer = tests.RandomAddress() },
			code:   RejectUnauthorized,
		},
		{
			name: "zero price",
			mutate: func(s *saleState) {
				s.req.Price = 0
				s.o.Price = 0
				s.b.Price = 0
			},
			code: RejectValidation,
		},
		{
			name:   "maker fee above bound",
			mutate: func(s *saleState) { s.req.MakerFeeBps = 501 },
			code:   RejectFeePolicy,
		},
		{
			name:   "taker fee above bound",
			mutate: func(s *saleState) { s.req.TakerFeeBps = 501 },
			code:   RejectFeePolicy,
		},
		{
			name:   "rebate exceeds taker fee",
			mutate: func(s *saleState) { s.req.MakerFeeBps = -101 },
			code:   RejectFeePolicy,
		},
		{
			name:   "wrong notary",
			mutate: func(s *saleState) { s.req.Notary = tests.RandomAddress() },
			code:   RejectInvalidNotary,
		},
		{
			name:   "bid for a different asset",
			mutate: func(s *saleState) { s.b.Asset = tests.RandomAddress() },
			code:   RejectValidation,
		},
		{
			name:   "bid price below offer",
			mutate: func(s *saleState) { s.b.Price = 999999 },
			code:   RejectValidation,
		},
		{
			name:   "quantity mismatch",
			mutate: func(s *saleState) { s.b.Quantity = 2 },
			code:   RejectValidation,
		},
		{
			name:   "request price disagrees with offer",
			mutate: func(s *saleState) { s.req.Price = 999999 },
			code:   RejectValidation,
		},
		{
			name:   "offer expired",
			mutate: func(s *saleState) { s.o.Expiry = 1000000 },
			code:   RejectExpired,
		},
		{
			name:   "offer expired with flagged sign",
			mutate: func(s *saleState) { s.o.Expiry = -1000000 },
			code:   RejectExpired,
		},
		{
			name:   "bid expired",
			mutate: func(s *saleState) { s.b.Expiry = 1000000 },
			code:   RejectExpired,
		},
		{
			name:   "supply not unique",
			mutate: func(s *saleState) { s.mint.Supply = 2 },
			code:   RejectValidation,
		},
		{
			name:   "fractional asset",
			mutate: func(s *saleState) { s.mint.Decimals = 2 },
			code:   RejectValidation,
		},
		{
			name:   "seller no longer holds the unit",
			mutate: func(s *saleState) { s.holding.Amount = 0 },
			code:   RejectValidation,
		},
		{
			name:   "metadata for a different asset",
			mutate: func(s *saleState) { s.meta.Asset = tests.RandomAddress() },
			code:   RejectBadMetadata,
		},
		{
			name: "creator shares above denominator",
			mutate: func(s *saleState) {
				s.meta.Creators = []metadata.Creator{
					{Address: tests.RandomAddress(), ShareBps: 6000},
					{Address: tests.RandomAddress(), ShareBps: 6000},
				}
			},
			code: RejectBadMetadata,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			s := validSaleState()
			tt.mutate(s)

			err := s.validate()
			r, ok := IsReject(err)
			if !ok {
				t.Fatalf("\t%s\tExpected rejection, got : %v", tests.Failed, err)
			}
			if r.Code != tt.code {
				t.Errorf("got reject code %d want %d", r.Code, tt.code)
			}
		})
	}
}

func TestValidateSaleExpirySentinels(t *testing.T) {
	// -1, 0 and 1 mean no expiry. The sign is an auxiliary flag and must
	// never flip the result.
	for _, expiry := range []int64{-1, 0, 1} {
		s := validSaleState()
		s.o.Expiry = expiry
		s.b.Expiry = expiry

		if err := s.validate(); err != nil {
			t.Errorf("expiry %d rejected : %v", expiry, err)
		}
	}

	// A real expiry in the future stands.
	s := validSaleState()
	s.o.Expiry = s.now.Unix() + 3600
	s.b.Expiry = -(s.now.Unix() + 3600)
	if err := s.validate(); err != nil {
		t.Errorf("future expiry rejected : %v", err)
	}
}
