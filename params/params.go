package params

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// Parameters holds the dimensions and moduli shared by the encoder and the
// sparse linear-algebra layer, together with the lattigo ring built for (N, Q).
type Parameters struct {
	N   int      // ring degree, power of two, N = Kap*M
	M   int      // message slots per ring element
	Kap int      // base-B digits per slot
	B   uint64   // digit base
	P   *big.Int // plaintext modulus, always B^Kap + 1
	Q   uint64   // NTT-friendly ring modulus
	S1  float64  // default Gaussian width for randomized encoding

	RingQ *ring.Ring
}

// New validates the dimensions, derives P = B^Kap + 1 and builds the ring.
// P is derived rather than accepted so that the 1/P constant used by the
// randomized-encode projection is exact for every parameter set.
func New(n, m, kap int, b uint64, q uint64, s1 float64) (*Parameters, error) {
	if n <= 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("N must be a positive power of two, got %d", n)
	}
	if m <= 0 || kap <= 0 {
		return nil, errors.New("M and Kap must be positive")
	}
	if n != kap*m {
		return nil, fmt.Errorf("N must equal Kap*M: %d != %d*%d", n, kap, m)
	}
	if b < 2 {
		return nil, fmt.Errorf("B must be at least 2, got %d", b)
	}
	if s1 <= 0 {
		return nil, fmt.Errorf("S1 must be positive, got %g", s1)
	}
	ringQ, err := ring.NewRing(n, []uint64{q})
	if err != nil {
		return nil, fmt.Errorf("ring: %w", err)
	}
	p := new(big.Int).Exp(new(big.Int).SetUint64(b), big.NewInt(int64(kap)), nil)
	p.Add(p, big.NewInt(1))
	return &Parameters{N: n, M: m, Kap: kap, B: b, P: p, Q: q, S1: s1, RingQ: ringQ}, nil
}

// Default returns the baseline parameter set (N=1024, Q=1038337, P=65537).
func Default() (*Parameters, error) {
	return New(1024, 64, 16, 2, 1038337, 32.0)
}
