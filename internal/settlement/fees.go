package settlement

import (
	"math"
	"math/bits"

	"github.com/magicoss/m2/internal/marketplace"
	"github.com/magicoss/m2/pkg/address"
)

// FeeDenominator scales fee basis points. 10000 bps = 100%.
const FeeDenominator = 10000

// ResolveFeeBps returns the effective maker and taker fee bps. When the
// marketplace's notary co-signs the request, the notary's fee schedule
// overrides the caller supplied values. This never fails: out of bounds
// values are rejected by the validator before fees are resolved.
func ResolveFeeBps(m *marketplace.Marketplace, notary address.Address, notarySigned bool,
	makerFeeBps int16, takerFeeBps uint16) (int16, uint16) {

	if !notarySigned || notary.IsZero() || !notary.Equal(m.Notary) {
		return makerFeeBps, takerFeeBps
	}

	if m.NotaryMakerFeeBps != nil {
		makerFeeBps = *m.NotaryMakerFeeBps
	}
	if m.NotaryTakerFeeBps != nil {
		takerFeeBps = *m.NotaryTakerFeeBps
	}

	return makerFeeBps, takerFeeBps
}

// ValidateFeeBps checks the caller supplied fee bps against the
// marketplace's declared bounds. The maker fee may be negative (a rebate)
// but a rebate can never exceed the taker charge.
func ValidateFeeBps(m *marketplace.Marketplace, makerFeeBps int16, takerFeeBps uint16) error {
	if makerFeeBps > m.MaxMakerFeeBps {
		return reject(RejectFeePolicy, "maker fee %d bps above max %d", makerFeeBps, m.MaxMakerFeeBps)
	}
	if int32(makerFeeBps) < -int32(takerFeeBps) {
		return reject(RejectFeePolicy, "maker rebate %d bps exceeds taker fee %d", makerFeeBps, takerFeeBps)
	}
	if takerFeeBps > m.MaxTakerFeeBps {
		return reject(RejectFeePolicy, "taker fee %d bps above max %d", takerFeeBps, m.MaxTakerFeeBps)
	}
	return nil
}

// ComputeAmounts computes every value movement for a sale from the price
// and resolved fee bps.
//
// seller is payer and taker:
//   seller as payer pays (maker_fee + taker_fee) to treasury
//   seller gets (price + maker_fee) from escrow
// buyer is payer and taker:
//   buyer as payer pays (maker_fee + taker_fee) to treasury
//   seller gets (price - maker_fee) from escrow
//
// All intermediate arithmetic is widened and checked: overflow fails the
// settlement instead of wrapping.
func ComputeAmounts(price uint64, makerFeeBps int16, takerFeeBps uint16,
	payerIsSeller bool) (*Amounts, error) {

	makerFee, err := signedFee(price, makerFeeBps)
	if err != nil {
		return nil, err
	}

	takerFee, err := mulDivBps(price, uint64(takerFeeBps))
	if err != nil {
		return nil, err
	}
	if takerFee > math.MaxInt64 {
		return nil, ErrNumericalOverflow
	}

	if price > math.MaxInt64 {
		return nil, ErrNumericalOverflow
	}

	var receipt int64
	if payerIsSeller {
		receipt, err = addInt64(int64(price), makerFee)
	} else {
		receipt, err = addInt64(int64(price), -makerFee)
	}
	if err != nil {
		return nil, err
	}
	if receipt < 0 {
		return nil, ErrNumericalOverflow
	}

	platformFee, err := addInt64(makerFee, int64(takerFee))
	if err != nil {
		return nil, err
	}
	if platformFee < 0 {
		// Bounds checks keep the rebate within the taker charge, so a
		// negative total means the caller skipped validation.
		return nil, ErrNumericalOverflow
	}

	return &Amounts{
		Price:         price,
		MakerFee:      makerFee,
		TakerFee:      takerFee,
		SellerReceipt: uint64(receipt),
		PlatformFee:   uint64(platformFee),
	}, nil
}

// signedFee computes floor(price * bps / 10000) keeping the bps sign.
func signedFee(price uint64, feeBps int16) (int64, error) {
	negative := feeBps < 0
	magnitudeBps := int64(feeBps)
	if negative {
		magnitudeBps = -magnitudeBps
	}

	magnitude, err := mulDivBps(price, uint64(magnitudeBps))
	if err != nil {
		return 0, err
	}
	if magnitude > math.MaxInt64 {
		return 0, ErrNumericalOverflow
	}

	if negative {
		return -int64(magnitude), nil
	}
	return int64(magnitude), nil
}

// mulDivBps computes floor(price * bps / 10000) in a widened 128 bit
// intermediate.
func mulDivBps(price uint64, bps uint64) (uint64, error) {
	hi, lo := bits.Mul64(price, bps)
	if hi >= FeeDenominator {
		// Quotient would not fit in 64 bits.
		return 0, ErrNumericalOverflow
	}
	quo, _ := bits.Div64(hi, lo, FeeDenominator)
	return quo, nil
}

func addInt64(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, ErrNumericalOverflow
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, ErrNumericalOverflow
	}
	return a + b, nil
}
