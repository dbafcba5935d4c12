package metadata

import (
	"github.com/magicoss/m2/pkg/address"

	"github.com/pkg/errors"
)

// ShareDenominator scales creator shares. 10000 basis points = 100%.
const ShareDenominator = 10000

var (
	// ErrNotFound abstracts the standard not found error.
	ErrNotFound = errors.New("Metadata entry not found")

	// ErrMalformed occurs when a metadata entry fails validation.
	ErrMalformed = errors.New("Metadata entry malformed")

	// ErrWrongAsset occurs when a metadata entry doesn't address the asset
	// being sold.
	ErrWrongAsset = errors.New("Metadata entry addresses wrong asset")
)

// Validate confirms the entry is well-formed and addresses the expected
// asset.
func Validate(e *Entry, asset address.Address) error {
	if e.Asset.IsZero() {
		return ErrMalformed
	}
	if !e.Asset.Equal(asset) {
		return ErrWrongAsset
	}

	total := uint32(0)
	for _, creator := range e.Creators {
		if creator.Address.IsZero() {
			return errors.Wrap(ErrMalformed, "creator with zero address")
		}
		total += uint32(creator.ShareBps)
	}
	if total > ShareDenominator {
		return errors.Wrapf(ErrMalformed, "creator shares total %d bps", total)
	}

	return nil
}
