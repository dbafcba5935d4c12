package marketplace

import (
	"time"

	"github.com/magicoss/m2/pkg/address"
)

// Marketplace is the durable configuration for one marketplace deployment.
// It is created once by the setup flow and read-only to settlement.
type Marketplace struct {
	Address  address.Address `json:"address"`
	Creator  address.Address `json:"creator"`
	Notary   address.Address `json:"notary"`
	Treasury address.Address `json:"treasury"`

	// Declared fee bounds. Maker fees are signed so a maker rebate is
	// possible, but a rebate can never exceed the taker charge.
	MaxMakerFeeBps int16  `json:"max_maker_fee_bps"`
	MaxTakerFeeBps uint16 `json:"max_taker_fee_bps"`

	// Fee schedule applied when the notary co-signs a sale. Nil fields leave
	// the caller supplied value standing.
	NotaryMakerFeeBps *int16  `json:"notary_maker_fee_bps,omitempty"`
	NotaryTakerFeeBps *uint16 `json:"notary_taker_fee_bps,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMarketplace holds the values for creating a marketplace.
type NewMarketplace struct {
	Creator           address.Address `json:"creator"`
	Notary            address.Address `json:"notary"`
	MaxMakerFeeBps    int16           `json:"max_maker_fee_bps"`
	MaxTakerFeeBps    uint16          `json:"max_taker_fee_bps"`
	NotaryMakerFeeBps *int16          `json:"notary_maker_fee_bps,omitempty"`
	NotaryTakerFeeBps *uint16         `json:"notary_taker_fee_bps,omitempty"`
}
