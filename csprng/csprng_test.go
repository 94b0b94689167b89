package csprng

import (
	"math"
	"math/big"
	"testing"
)

func TestUniformSamplerRanges(t *testing.T) {
	us, err := NewUniformSampler()
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	const q = 12289
	for i := 0; i < 1000; i++ {
		if w := us.SampleModQ(q); w >= q {
			t.Fatalf("SampleModQ returned %d >= %d", w, q)
		}
	}
	bound := new(big.Int).Lsh(big.NewInt(1), 255)
	for i := 0; i < 100; i++ {
		x := us.SampleBigInt(bound)
		if x.Sign() < 0 || x.Cmp(bound) >= 0 {
			t.Fatalf("SampleBigInt returned %v outside [0, bound)", x)
		}
	}
}

func TestKeyedUniformSamplerDeterministic(t *testing.T) {
	s1, err := NewKeyedUniformSampler([]byte("seed"))
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	s2, err := NewKeyedUniformSampler([]byte("seed"))
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	s3, err := NewKeyedUniformSampler([]byte("other"))
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	same, diff := true, true
	for i := 0; i < 32; i++ {
		a, b, c := s1.SampleUint64(), s2.SampleUint64(), s3.SampleUint64()
		if a != b {
			same = false
		}
		if a != c {
			diff = false
		}
	}
	if !same {
		t.Fatalf("same seed produced different streams")
	}
	if diff {
		t.Fatalf("different seeds produced identical streams")
	}
}

// SampleCoset must return an element of center + Z.
func TestKarneyCosetMembership(t *testing.T) {
	ks, err := NewKeyedKarneySampler([]byte("coset"))
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	us, err := NewKeyedUniformSampler([]byte("coset-centers"))
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	for i := 0; i < 200; i++ {
		center := float64(us.SampleModQ(4096))/256.0 - 8.0
		x := ks.SampleCoset(center, 4.0)
		d := x - center
		if math.Abs(d-math.Round(d)) > 1e-9 {
			t.Fatalf("sample %v not in coset of center %v (offset %v)", x, center, d)
		}
	}
}

// Loose moment checks on the integer Gaussian: mean near 0 and standard
// deviation near sigma. Bounds are wide to keep the test stable.
func TestKarneyMoments(t *testing.T) {
	ks, err := NewKeyedKarneySampler([]byte("moments"))
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	const trials = 4000
	sigma := 10.0
	var sum, sumSq float64
	for i := 0; i < trials; i++ {
		x := float64(ks.SampleZ(0, sigma))
		sum += x
		sumSq += x * x
	}
	mean := sum / trials
	std := math.Sqrt(sumSq/trials - mean*mean)
	if math.Abs(mean) > 1.0 {
		t.Fatalf("mean %v too far from 0", mean)
	}
	if std < 8.0 || std > 12.0 {
		t.Fatalf("std %v too far from sigma %v", std, sigma)
	}
}

func TestKarneyNonzeroMean(t *testing.T) {
	ks, err := NewKeyedKarneySampler([]byte("mean"))
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	const trials = 2000
	mean, sigma := 7.25, 4.0
	var sum float64
	for i := 0; i < trials; i++ {
		sum += float64(ks.SampleZ(mean, sigma))
	}
	got := sum / trials
	if math.Abs(got-mean) > 0.5 {
		t.Fatalf("empirical mean %v too far from %v", got, mean)
	}
}

func TestKeyedKarneyDeterministic(t *testing.T) {
	s1, err := NewKeyedKarneySampler([]byte("seed"))
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	s2, err := NewKeyedKarneySampler([]byte("seed"))
	if err != nil {
		t.Fatalf("sampler: %v", err)
	}
	for i := 0; i < 64; i++ {
		if a, b := s1.SampleZ(0, 8.0), s2.SampleZ(0, 8.0); a != b {
			t.Fatalf("draw %d: %d != %d", i, a, b)
		}
	}
}
