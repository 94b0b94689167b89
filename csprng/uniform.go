// Package csprng provides the samplers the encoder depends on: a uniform
// sampler over integer ranges and a Karney discrete-Gaussian coset sampler.
// Every sampler draws from a blake2b-keyed PRNG and carries mutable state,
// so instances must not be shared across goroutines without external
// synchronization.
package csprng

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/tuneinsight/lattigo/v4/utils"
	"golang.org/x/crypto/blake2b"
)

// UniformSampler draws uniform integers from a cryptographically secure PRNG.
type UniformSampler struct {
	prng utils.PRNG
	buf  [8]byte
}

// NewUniformSampler returns a sampler keyed with fresh system entropy.
func NewUniformSampler() (*UniformSampler, error) {
	prng, err := utils.NewPRNG()
	if err != nil {
		return nil, err
	}
	return &UniformSampler{prng: prng}, nil
}

// NewKeyedUniformSampler returns a deterministic sampler whose PRNG key is
// derived from seed with a domain-separated blake2b hash.
func NewKeyedUniformSampler(seed []byte) (*UniformSampler, error) {
	key := blake2b.Sum256(append([]byte("ring-encoding/uniform:"), seed...))
	prng, err := utils.NewKeyedPRNG(key[:])
	if err != nil {
		return nil, err
	}
	return &UniformSampler{prng: prng}, nil
}

// SampleUint64 returns a uniform 64-bit word.
func (s *UniformSampler) SampleUint64() uint64 {
	if _, err := io.ReadFull(s.prng, s.buf[:]); err != nil {
		panic(fmt.Errorf("csprng: prng read: %w", err))
	}
	return binary.LittleEndian.Uint64(s.buf[:])
}

// SampleModQ returns a uniform residue in [0, q) by rejection.
func (s *UniformSampler) SampleModQ(q uint64) uint64 {
	if q == 0 {
		panic("csprng: zero modulus")
	}
	threshold := (^uint64(0) / q) * q
	for {
		w := s.SampleUint64()
		if w < threshold {
			return w % q
		}
	}
}

// SampleBigInt returns a uniform integer in [0, bound) by rejection.
func (s *UniformSampler) SampleBigInt(bound *big.Int) *big.Int {
	if bound == nil || bound.Sign() <= 0 {
		panic("csprng: bound must be positive")
	}
	bits := bound.BitLen()
	nbytes := (bits + 7) / 8
	mask := byte(0xFF >> uint(nbytes*8-bits))
	buf := make([]byte, nbytes)
	out := new(big.Int)
	for {
		if _, err := io.ReadFull(s.prng, buf); err != nil {
			panic(fmt.Errorf("csprng: prng read: %w", err))
		}
		buf[0] &= mask
		out.SetBytes(buf)
		if out.Cmp(bound) < 0 {
			return out
		}
	}
}
