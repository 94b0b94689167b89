// Karney exact discrete-Gaussian sampling (Karney '13, algorithms H, G, P,
// B and D1-D8). Rejection only: no precomputed tables, so any (mean, sigma)
// pair is supported without re-initialization.
package csprng

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/blake2b"
)

// KarneySampler draws discrete-Gaussian samples from a cryptographically
// secure PRNG. State advances with every draw; not safe for concurrent use.
type KarneySampler struct {
	prng utils.PRNG
	buf  [8]byte
}

// NewKarneySampler returns a sampler keyed with fresh system entropy.
func NewKarneySampler() (*KarneySampler, error) {
	prng, err := utils.NewPRNG()
	if err != nil {
		return nil, err
	}
	return &KarneySampler{prng: prng}, nil
}

// NewKeyedKarneySampler returns a deterministic sampler whose PRNG key is
// derived from seed with a domain-separated blake2b hash.
func NewKeyedKarneySampler(seed []byte) (*KarneySampler, error) {
	key := blake2b.Sum256(append([]byte("ring-encoding/gaussian:"), seed...))
	prng, err := utils.NewKeyedPRNG(key[:])
	if err != nil {
		return nil, err
	}
	return &KarneySampler{prng: prng}, nil
}

func (s *KarneySampler) uint64() uint64 {
	if _, err := io.ReadFull(s.prng, s.buf[:]); err != nil {
		panic(fmt.Errorf("csprng: prng read: %w", err))
	}
	return binary.LittleEndian.Uint64(s.buf[:])
}

// float64 returns a uniform draw in [0, 1) with 53 bits of precision.
func (s *KarneySampler) float64() float64 {
	return float64(s.uint64()>>11) * 0x1p-53
}

// intn returns a uniform draw in [0, n) by rejection.
func (s *KarneySampler) intn(n int64) int64 {
	bound := uint64(n)
	threshold := (^uint64(0) / bound) * bound
	for {
		w := s.uint64()
		if w < threshold {
			return int64(w % bound)
		}
	}
}

// algoH is one Bernoulli trial with success probability exp(-1/2).
func (s *KarneySampler) algoH() bool {
	a := s.float64()
	if !(a < 0.5) {
		return true
	}
	for {
		b := s.float64()
		if !(b < a) {
			return false
		}
		a = s.float64()
		if !(a < b) {
			return true
		}
	}
}

// algoG counts consecutive successes of H, giving k ~ exp(-k/2)(1-exp(-1/2)).
func (s *KarneySampler) algoG() int {
	n := 0
	for s.algoH() {
		n++
	}
	return n
}

// algoP accepts with probability exp(-n/2): n independent trials of H.
func (s *KarneySampler) algoP(n int) bool {
	for i := 0; i < n; i++ {
		if !s.algoH() {
			return false
		}
	}
	return true
}

// algoB accepts with probability exp(-x(2k+x)/2) for x in [0, 1).
func (s *KarneySampler) algoB(k int, x float64) bool {
	y := x
	m := 2*k + 2
	n := 0
	for {
		z := s.float64()
		if !(z < y) {
			break
		}
		r := s.float64()
		if !(r < (float64(2*k)+x)/float64(m)) {
			break
		}
		y = z
		n++
	}
	return n%2 == 0
}

// SampleZ draws an exact sample from the discrete Gaussian D_Z(mean, sigma)
// over the integers, following steps D1-D8 of Karney's algorithm. sigma must
// be positive.
func (s *KarneySampler) SampleZ(mean, sigma float64) int64 {
	if !(sigma > 0) {
		panic("csprng: sigma must be positive")
	}
	sigmaCeil := int64(math.Ceil(sigma))
	for {
		k := s.algoG()
		if !s.algoP(k * (k - 1)) {
			continue
		}
		sign := int64(1)
		if s.uint64()&1 == 0 {
			sign = -1
		}
		di0 := sigma*float64(k) + float64(sign)*mean
		i0 := math.Ceil(di0)
		x0 := (i0 - di0) / sigma
		j := s.intn(sigmaCeil)
		x := x0 + float64(j)/sigma
		if !(x < 1) || (x == 0 && sign < 0 && k == 0) {
			continue
		}
		accepted := true
		for t := 0; t <= k; t++ {
			if !s.algoB(k, x) {
				accepted = false
				break
			}
		}
		if !accepted {
			continue
		}
		return sign * (int64(i0) + j)
	}
}

// SampleCoset draws from the discrete Gaussian of width sigma over the coset
// center + Z. The returned value differs from center by an exact integer, so
// the residue class of the center is preserved; the distribution over the
// coset is centered at zero, independent of center.
func (s *KarneySampler) SampleCoset(center, sigma float64) float64 {
	return center + float64(s.SampleZ(-center, sigma))
}
