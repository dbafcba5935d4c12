package settlement

import (
	"fmt"

	"github.com/pkg/errors"
)

// RejectCode classifies why a settlement attempt was refused before any
// state changed.
type RejectCode uint8

const (
	// RejectUnauthorized - the payer is neither the buyer nor the seller.
	RejectUnauthorized RejectCode = 1

	// RejectValidation - the offer, bid and request disagree on asset,
	// price or quantity.
	RejectValidation RejectCode = 2

	// RejectExpired - the offer or bid expiry has elapsed.
	RejectExpired RejectCode = 3

	// RejectInvalidNotary - the notary on the request is not the
	// marketplace's notary.
	RejectInvalidNotary RejectCode = 4

	// RejectFeePolicy - fee bps outside the marketplace's declared bounds.
	RejectFeePolicy RejectCode = 5

	// RejectBadMetadata - the metadata registry entry is malformed or
	// addresses the wrong asset.
	RejectBadMetadata RejectCode = 6
)

var rejectCodeText = map[RejectCode]string{
	RejectUnauthorized:  "Sale requires buyer or seller signer",
	RejectValidation:    "Offer and bid do not agree",
	RejectExpired:       "Offer or bid expired",
	RejectInvalidNotary: "Invalid notary",
	RejectFeePolicy:     "Fee bps out of bounds",
	RejectBadMetadata:   "Metadata invalid",
}

var (
	// ErrNumericalOverflow occurs when widened fee or royalty arithmetic
	// overflows. The settlement fails rather than wrap.
	ErrNumericalOverflow = errors.New("Numerical overflow")
)

// RejectError is a business rule rejection. All rejections are fatal to the
// current attempt and happen before any state changes.
type RejectError struct {
	Code RejectCode
	Text string
}

func (err RejectError) Error() string {
	value, exists := rejectCodeText[err.Code]
	if !exists {
		return err.Text
	}
	if len(err.Text) == 0 {
		return value
	}
	return fmt.Sprintf("%s - %s", value, err.Text)
}

func reject(code RejectCode, format string, values ...interface{}) RejectError {
	return RejectError{Code: code, Text: fmt.Sprintf(format, values...)}
}

// IsReject returns the RejectError when an error is a business rejection.
func IsReject(err error) (RejectError, bool) {
	r, ok := errors.Cause(err).(RejectError)
	return r, ok
}
