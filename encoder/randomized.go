package encoder

import (
	"fmt"
	"math"
	"math/big"

	"ring-encoding/ringops"
)

// monomialMulAddAssign accumulates c * p * X^d into pout in the negacyclic
// ring R[X]/(X^N + 1): coefficients shifted past degree N wrap around with
// their sign flipped (X^N = -1). d must be in [0, N).
func monomialMulAddAssign(p []float64, c float64, d int, pout []float64) {
	n := len(p)
	for i := 0; i < n-d; i++ {
		pout[i+d] += c * p[i]
	}
	for i := n - d; i < n; i++ {
		pout[i+d-n] -= c * p[i]
	}
}

// EncodeRandomized encodes v into a fresh ring element whose coefficients
// are a Gaussian-sampled representative of the coset decoding to v.
func (e *Encoder) EncodeRandomized(v []*big.Int, sigma float64) (*ringops.Poly, error) {
	pout := ringops.NewPoly(e.Params.RingQ)
	if err := e.EncodeRandomizedAssign(v, sigma, pout); err != nil {
		return nil, err
	}
	return pout, nil
}

// EncodeRandomizedAssign encodes v into pout with discrete-Gaussian noise of
// width sigma. The result decodes to the same vector as EncodeAssign: the
// digit expansion is pulled back through the projection
// P^-1 = -(1/P) * sum_{i=1..Kap} B^(i-1) X^(N-iM), re-sampled coefficient-wise
// from its coset, and pushed forward again through (X^M - B). Exactness of
// the final rounding is the caller's parameter-selection responsibility.
func (e *Encoder) EncodeRandomizedAssign(v []*big.Int, sigma float64, pout *ringops.Poly) error {
	par := e.Params
	if len(v) > par.M {
		return fmt.Errorf("input has %d slots, ring holds %d", len(v), par.M)
	}
	if !(sigma > 0) {
		return fmt.Errorf("sigma must be positive, got %g", sigma)
	}
	pout.Clear()

	buff0 := make([]float64, par.N)
	buff1 := make([]float64, par.N)

	// Same digit expansion as the deterministic path, into floats.
	bf := float64(par.B)
	b := new(big.Int).SetUint64(par.B)
	amod := new(big.Int)
	digit := new(big.Int)
	for i, a := range v {
		amod.Mod(a, par.P)
		for j := 0; j < par.Kap-1; j++ {
			amod.DivMod(amod, b, digit)
			buff0[i+j*par.M] = float64(digit.Uint64())
		}
		buff0[i+(par.Kap-1)*par.M] = float64(amod.Uint64())
	}

	// Apply P^-1 term by term as negacyclic monomial multiplications.
	pf, _ := new(big.Float).SetInt(par.P).Float64()
	pinv := -1.0 / pf
	for i := 1; i <= par.Kap; i++ {
		monomialMulAddAssign(buff0, pinv, par.N-i*par.M, buff1)
		pinv *= bf
	}

	// Replace every coefficient with a Gaussian draw from its coset.
	for i := range buff1 {
		buff1[i] = e.Sampler.SampleCoset(buff1[i], sigma)
	}

	// Push the sampled pre-image forward through (X^M - B).
	for i := 0; i < par.N-par.M; i++ {
		buff0[i+par.M] = buff1[i] - bf*buff1[i+par.M]
	}
	for i := par.N - par.M; i < par.N; i++ {
		buff0[i+par.M-par.N] = -buff1[i] - bf*buff1[i+par.M-par.N]
	}

	// Round to integers and lift negatives into [0, Q).
	coeffs := pout.Coeffs()
	q := int64(par.Q)
	for i, f := range buff0 {
		c := int64(math.Round(f))
		if c < 0 {
			c += q
		}
		coeffs[i] = uint64(c)
	}

	pout.IsNTT = false
	ringops.NTT(par.RingQ, pout)
	return nil
}

// EncodeRandomizedChunkAssign encodes consecutive M-sized slices of v with
// Gaussian noise, one slice per output element, drawing from the encoder's
// single sampler sequentially. len(v) must equal len(pout)*M.
func (e *Encoder) EncodeRandomizedChunkAssign(v []*big.Int, sigma float64, pout []*ringops.Poly) error {
	m := e.Params.M
	if len(v) != len(pout)*m {
		return fmt.Errorf("input length %d is not %d chunks of %d slots", len(v), len(pout), m)
	}
	for i, p := range pout {
		if err := e.EncodeRandomizedAssign(v[i*m:(i+1)*m], sigma, p); err != nil {
			return err
		}
	}
	return nil
}
