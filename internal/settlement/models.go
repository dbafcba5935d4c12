package settlement

import (
	"github.com/magicoss/m2/pkg/address"
)

// ExecuteSaleRequest is one settlement attempt: a standing offer and a
// standing bid for the same asset, crossed at the offer price. The payer is
// whichever party submitted the transaction and must be the buyer or the
// seller.
type ExecuteSaleRequest struct {
	Price       uint64 `json:"price"`
	MakerFeeBps int16  `json:"maker_fee_bps"`
	TakerFeeBps uint16 `json:"taker_fee_bps"`

	Payer       address.Address `json:"payer"`
	Buyer       address.Address `json:"buyer"`
	Seller      address.Address `json:"seller"`
	Notary      address.Address `json:"notary"`
	Marketplace address.Address `json:"marketplace"`
	Asset       address.Address `json:"asset"`

	// NotarySigned is set by the transport when the notary co-signed the
	// request. A co-signing notary's fee schedule overrides the caller
	// supplied fee bps.
	NotarySigned bool `json:"notary_signed"`
}

// Amounts are the computed value movements for one settlement. The maker
// fee is signed: a negative maker fee is a rebate paid to the maker.
type Amounts struct {
	Price         uint64 `json:"price"`
	MakerFee      int64  `json:"maker_fee"`
	TakerFee      uint64 `json:"taker_fee"`
	Royalty       uint64 `json:"royalty"`
	SellerReceipt uint64 `json:"seller_receipt"`
	PlatformFee   uint64 `json:"platform_fee"`
}

// Event is the structured settlement record emitted for off-chain
// observers once a sale settles.
type Event struct {
	MakerFee     int64  `json:"maker_fee"`
	TakerFee     uint64 `json:"taker_fee"`
	Royalty      uint64 `json:"royalty"`
	Price        uint64 `json:"price"`
	SellerExpiry int64  `json:"seller_expiry"`
	BuyerExpiry  int64  `json:"buyer_expiry"`
}
