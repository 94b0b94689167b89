// Package encoder maps vectors of residues mod P to ring elements and back
// using a base-B digit decomposition spread across coefficient slots. The
// deterministic path is exact; the randomized path draws a discrete-Gaussian
// representative of the same decoding coset for hiding.
package encoder

import (
	"errors"
	"fmt"
	"math/big"

	"ring-encoding/csprng"
	"ring-encoding/params"
	"ring-encoding/ringops"
)

// Encoder encodes and decodes message vectors. It owns the coset sampler
// used by the randomized path; the sampler state advances with every
// randomized call, so an Encoder must not be shared across goroutines
// without external synchronization.
type Encoder struct {
	Params  *params.Parameters
	Sampler *csprng.KarneySampler
}

// New creates an encoder with a freshly keyed coset sampler.
func New(par *params.Parameters) (*Encoder, error) {
	if par == nil {
		return nil, errors.New("nil parameters")
	}
	sampler, err := csprng.NewKarneySampler()
	if err != nil {
		return nil, err
	}
	return &Encoder{Params: par, Sampler: sampler}, nil
}

// Encode encodes at most M residues into a fresh ring element in
// evaluation form.
func (e *Encoder) Encode(v []*big.Int) (*ringops.Poly, error) {
	pout := ringops.NewPoly(e.Params.RingQ)
	if err := e.EncodeAssign(v, pout); err != nil {
		return nil, err
	}
	return pout, nil
}

// EncodeAssign writes the base-B digit expansion of v into pout and then
// transforms it to evaluation form. Slot i occupies coefficient positions
// i, i+M, ..., i+(Kap-1)M; the most significant digit is stored uncapped so
// the expansion covers all of [0, P).
func (e *Encoder) EncodeAssign(v []*big.Int, pout *ringops.Poly) error {
	par := e.Params
	if len(v) > par.M {
		return fmt.Errorf("input has %d slots, ring holds %d", len(v), par.M)
	}
	pout.Clear()
	coeffs := pout.Coeffs()
	b := new(big.Int).SetUint64(par.B)
	amod := new(big.Int)
	digit := new(big.Int)
	for i, a := range v {
		amod.Mod(a, par.P)
		for j := 0; j < par.Kap-1; j++ {
			amod.DivMod(amod, b, digit)
			coeffs[i+j*par.M] = digit.Uint64()
		}
		coeffs[i+(par.Kap-1)*par.M] = amod.Uint64()
	}
	pout.IsNTT = false
	ringops.NTT(par.RingQ, pout)
	return nil
}

// EncodeChunkAssign encodes consecutive M-sized slices of v, one slice per
// output element. len(v) must equal len(pout)*M.
func (e *Encoder) EncodeChunkAssign(v []*big.Int, pout []*ringops.Poly) error {
	m := e.Params.M
	if len(v) != len(pout)*m {
		return fmt.Errorf("input length %d is not %d chunks of %d slots", len(v), len(pout), m)
	}
	for i, p := range pout {
		if err := e.EncodeAssign(v[i*m:(i+1)*m], p); err != nil {
			return err
		}
	}
	return nil
}

// Decode returns the length-M vector encoded in p.
func (e *Encoder) Decode(p *ringops.Poly) []*big.Int {
	vout := make([]*big.Int, e.Params.M)
	for i := range vout {
		vout[i] = new(big.Int)
	}
	e.decodeBalanced(ringops.ToBalanced(e.Params.RingQ, p), vout)
	return vout
}

// DecodeAssign decodes p into vout, which must have length exactly M.
func (e *Encoder) DecodeAssign(p *ringops.Poly, vout []*big.Int) error {
	if len(vout) != e.Params.M {
		return fmt.Errorf("output has %d slots, want %d", len(vout), e.Params.M)
	}
	e.decodeBalanced(ringops.ToBalanced(e.Params.RingQ, p), vout)
	return nil
}

// DecodeChunkAssign decodes each element of p into its M-sized slice of
// vout. len(vout) must equal len(p)*M.
func (e *Encoder) DecodeChunkAssign(p []*ringops.Poly, vout []*big.Int) error {
	m := e.Params.M
	if len(vout) != len(p)*m {
		return fmt.Errorf("output length %d is not %d chunks of %d slots", len(vout), len(p), m)
	}
	for i, pi := range p {
		if err := e.DecodeAssign(pi, vout[i*m:(i+1)*m]); err != nil {
			return err
		}
	}
	return nil
}

// decodeBalanced recombines the balanced digit expansion of each slot with a
// Horner pass from the most significant digit down. The accumulator is a
// big.Int: balanced digits can be large and signed, and the base-B scaling
// exceeds 64 bits for Kap > 3. The final Mod is Euclidean, so the result is
// always in [0, P).
func (e *Encoder) decodeBalanced(coeffs []int64, vout []*big.Int) {
	par := e.Params
	b := new(big.Int).SetUint64(par.B)
	acc := new(big.Int)
	c := new(big.Int)
	for i := 0; i < par.M; i++ {
		acc.SetInt64(0)
		for j := par.Kap - 1; j >= 0; j-- {
			acc.Mul(acc, b)
			acc.Add(acc, c.SetInt64(coeffs[i+j*par.M]))
		}
		if vout[i] == nil {
			vout[i] = new(big.Int)
		}
		vout[i].Mod(acc, par.P)
	}
}
