package bid

import (
	"time"

	"github.com/magicoss/m2/pkg/address"
)

// Bid is a buyer's standing intent to buy a specific asset at a fixed
// price.
type Bid struct {
	Address     address.Address `json:"address"`
	Buyer       address.Address `json:"buyer"`
	Marketplace address.Address `json:"marketplace"`
	Asset       address.Address `json:"asset"`

	// Referral receives no funds from settlement itself. It is recorded by
	// the bidding flow and carried for off-chain attribution.
	Referral address.Address `json:"referral"`

	Quantity uint64 `json:"quantity"`
	Price    uint64 `json:"price"`

	// Expiry is unix seconds with the same sentinel semantics as the offer
	// expiry: -1, 0 and 1 never expire, the sign is stored verbatim and
	// never interpreted here.
	Expiry int64 `json:"expiry"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBid holds the values for creating a bid.
type NewBid struct {
	Buyer       address.Address `json:"buyer"`
	Marketplace address.Address `json:"marketplace"`
	Asset       address.Address `json:"asset"`
	Referral    address.Address `json:"referral"`
	Price       uint64          `json:"price"`
	Expiry      int64           `json:"expiry"`
	Deposit     uint64          `json:"deposit"`
}
