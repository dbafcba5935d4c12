package offer

import (
	"time"

	"github.com/magicoss/m2/pkg/address"
)

// Offer is a seller's standing intent to sell one unit of a specific asset
// at a fixed price.
type Offer struct {
	Address     address.Address `json:"address"`
	Seller      address.Address `json:"seller"`
	Marketplace address.Address `json:"marketplace"`

	// HoldingAccount is the custody token account, owned by the seller,
	// holding exactly one unit of the asset.
	HoldingAccount address.Address `json:"holding_account"`

	Asset    address.Address `json:"asset"`
	Quantity uint64          `json:"quantity"`
	Price    uint64          `json:"price"`

	// Expiry is unix seconds. Values of -1, 0 and 1 mean no expiry,
	// otherwise the offer expires once current time passes the absolute
	// value. The sign is an auxiliary flag owned by the listing flow. It is
	// stored verbatim and never interpreted here.
	Expiry int64 `json:"expiry"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOffer holds the values for creating an offer.
type NewOffer struct {
	Seller      address.Address `json:"seller"`
	Marketplace address.Address `json:"marketplace"`
	Asset       address.Address `json:"asset"`
	Price       uint64          `json:"price"`
	Expiry      int64           `json:"expiry"`
	Deposit     uint64          `json:"deposit"`
}
