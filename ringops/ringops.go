// Package ringops is a thin adapter over the lattigo ring engine. It tags
// polynomials with their transform domain and exposes the balanced
// coefficient representation the decoder consumes.
package ringops

import (
	"github.com/tuneinsight/lattigo/v4/ring"
)

// Poly wraps a single-limb lattigo polynomial together with its domain flag.
type Poly struct {
	P     *ring.Poly
	IsNTT bool
}

// NewPoly returns a zeroed polynomial in coefficient form.
func NewPoly(r *ring.Ring) *Poly {
	return &Poly{P: r.NewPoly()}
}

// Clear zeroes all coefficients and returns the element to coefficient form.
func (p *Poly) Clear() {
	for _, lane := range p.P.Coeffs {
		for i := range lane {
			lane[i] = 0
		}
	}
	p.IsNTT = false
}

// Coeffs exposes the level-zero coefficient lane.
func (p *Poly) Coeffs() []uint64 {
	return p.P.Coeffs[0]
}

// CopyNew returns a deep copy of p.
func (p *Poly) CopyNew() *Poly {
	return &Poly{P: p.P.CopyNew(), IsNTT: p.IsNTT}
}

// Equal reports whether p and other hold identical coefficients in the
// same domain.
func (p *Poly) Equal(other *Poly) bool {
	if p.IsNTT != other.IsNTT {
		return false
	}
	a, b := p.Coeffs(), other.Coeffs()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// NTT applies the forward transform in place and marks evaluation form.
func NTT(r *ring.Ring, p *Poly) {
	r.NTT(p.P, p.P)
	p.IsNTT = true
}

// InvNTT applies the inverse transform in place and marks coefficient form.
func InvNTT(r *ring.Ring, p *Poly) {
	r.InvNTT(p.P, p.P)
	p.IsNTT = false
}

// ToBalanced returns the coefficients of p centered in (-Q/2, Q/2] without
// mutating p. Evaluation-form inputs are inverse-transformed on a copy.
func ToBalanced(r *ring.Ring, p *Poly) []int64 {
	tmp := p.P
	if p.IsNTT {
		tmp = p.P.CopyNew()
		r.InvNTT(tmp, tmp)
	}
	q := int64(r.Modulus[0])
	half := q >> 1
	out := make([]int64, len(tmp.Coeffs[0]))
	for i, c := range tmp.Coeffs[0] {
		v := int64(c)
		if v > half {
			v -= q
		}
		out[i] = v
	}
	return out
}
