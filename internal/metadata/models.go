package metadata

import (
	"time"

	"github.com/magicoss/m2/pkg/address"
)

// Creator is one royalty recipient with its share of the sale price in
// basis points.
type Creator struct {
	Address  address.Address `json:"address"`
	ShareBps uint16          `json:"share_bps"`
}

// Entry is the metadata registry record for an asset: the creator list
// royalties are paid to. The registry is an external collaborator, this
// module only ever reads it.
type Entry struct {
	Asset           address.Address `json:"asset"`
	UpdateAuthority address.Address `json:"update_authority"`
	Creators        []Creator       `json:"creators"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
