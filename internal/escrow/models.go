package escrow

import (
	"time"

	"github.com/magicoss/m2/pkg/address"
)

// Account is the buyer's escrow account record. The account has no signing
// key: its address derives from (marketplace, buyer) and only the
// derivation proof moves funds out. The native balance itself lives in the
// funds ledger, this record tracks the account's existence.
type Account struct {
	Address     address.Address `json:"address"`
	Marketplace address.Address `json:"marketplace"`
	Buyer       address.Address `json:"buyer"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
