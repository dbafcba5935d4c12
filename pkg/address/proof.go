package address

// Proof is the ordered seed list that reproduces a derived address. It is
// the system held capability standing in for a private key signature:
// whoever can present seeds that re-derive an address is allowed to act as
// that account. Proofs must travel alongside the address any time a derived
// account crosses an interface boundary.
type Proof struct {
	Seeds [][]byte
}

// Address re-derives the address the proof stands for.
func (p Proof) Address() Address {
	result, _ := Derive(p.Seeds...)
	return result
}

// Authorizes returns true if the proof re-derives the given address.
func (p Proof) Authorizes(addr Address) bool {
	if len(p.Seeds) == 0 {
		return false
	}
	return p.Address().Equal(addr)
}
