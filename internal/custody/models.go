package custody

import (
	"time"

	"github.com/magicoss/m2/internal/metadata"
	"github.com/magicoss/m2/pkg/address"
)

// MintState is the custody service's record for one wrapped asset. Supply
// is always 1 and decimals 0 for the unique assets this module settles.
type MintState struct {
	Asset    address.Address `json:"asset"`
	Supply   uint64          `json:"supply"`
	Decimals uint8           `json:"decimals"`

	// Locked is the custody lock. While locked, the unit can't move. Only
	// the lock authority's derivation proof can unlock.
	Locked        bool            `json:"locked"`
	LockAuthority address.Address `json:"lock_authority"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenAccount holds units of one asset for one owner.
type TokenAccount struct {
	Address address.Address `json:"address"`
	Asset   address.Address `json:"asset"`
	Owner   address.Address `json:"owner"`
	Amount  uint64          `json:"amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Policy is the transfer policy attached to a wrapped asset. A configured
// royalty override takes precedence over the metadata registry's creator
// list.
type Policy struct {
	Asset           address.Address    `json:"asset"`
	RoyaltyOverride []metadata.Creator `json:"royalty_override,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
