package address

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

// Size is the length of an address in bytes.
const Size = 20

var (
	// ErrBadAddressString occurs when a string can't be decoded into an address.
	ErrBadAddressString = errors.New("Address string invalid")
)

// Address identifies an account. Addresses are either tied to a user held
// key, or derived deterministically from a set of seeds with no key at all.
type Address [Size]byte

// Derive computes the address for a set of seeds along with the proof that
// reproduces it. Each seed is length prefixed before hashing so that seed
// boundaries can't be shifted to produce the same address.
func Derive(seeds ...[]byte) (Address, Proof) {
	digest := sha256.New()
	for _, seed := range seeds {
		var l [4]byte
		binary.BigEndian.PutUint32(l[:], uint32(len(seed)))
		digest.Write(l[:])
		digest.Write(seed)
	}

	hash160 := ripemd160.New()
	hash160.Write(digest.Sum(nil))

	var result Address
	copy(result[:], hash160.Sum(nil))

	proof := Proof{Seeds: make([][]byte, 0, len(seeds))}
	for _, seed := range seeds {
		s := make([]byte, len(seed))
		copy(s, seed)
		proof.Seeds = append(proof.Seeds, s)
	}

	return result, proof
}

// FromBytes creates an address from raw bytes.
func FromBytes(b []byte) (Address, error) {
	var result Address
	if len(b) != Size {
		return result, errors.Wrapf(ErrBadAddressString, "wrong byte length %d", len(b))
	}
	copy(result[:], b)
	return result, nil
}

// FromString decodes a base58 address string.
func FromString(s string) (Address, error) {
	b := base58.Decode(s)
	if len(b) != Size {
		return Address{}, errors.Wrapf(ErrBadAddressString, "%s", s)
	}
	return FromBytes(b)
}

// Bytes returns the raw address bytes.
func (a Address) Bytes() []byte {
	return a[:]
}

// String returns the base58 representation of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Equal returns true if the other address matches.
func (a Address) Equal(other Address) bool {
	return bytes.Equal(a[:], other[:])
}

// IsZero returns true if the address is unset.
func (a Address) IsZero() bool {
	var zero Address
	return bytes.Equal(a[:], zero[:])
}

// MarshalText implements encoding.TextMarshaler so addresses serialize as
// base58 strings in JSON records.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	decoded, err := FromString(string(text))
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}
