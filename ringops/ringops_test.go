package ringops

import (
	"testing"

	"github.com/tuneinsight/lattigo/v4/ring"
)

func testRing(t *testing.T) *ring.Ring {
	t.Helper()
	r, err := ring.NewRing(32, []uint64{12289})
	if err != nil {
		t.Fatalf("ring: %v", err)
	}
	return r
}

func TestNTTRoundTrip(t *testing.T) {
	r := testRing(t)
	p := NewPoly(r)
	coeffs := p.Coeffs()
	for i := range coeffs {
		coeffs[i] = uint64(i * 37 % 12289)
	}
	orig := p.CopyNew()

	NTT(r, p)
	if !p.IsNTT {
		t.Fatalf("forward transform did not set evaluation flag")
	}
	InvNTT(r, p)
	if p.IsNTT {
		t.Fatalf("inverse transform did not clear evaluation flag")
	}
	if !p.Equal(orig) {
		t.Fatalf("NTT round trip changed coefficients")
	}
}

func TestToBalancedRangeAndNonMutation(t *testing.T) {
	r := testRing(t)
	q := int64(12289)
	p := NewPoly(r)
	coeffs := p.Coeffs()
	coeffs[0] = 0
	coeffs[1] = 1
	coeffs[2] = uint64(q - 1)   // -1 balanced
	coeffs[3] = uint64(q / 2)   // stays positive: (q-1)/2 <= q/2
	coeffs[4] = uint64(q/2 + 1) // wraps negative
	NTT(r, p)

	before := p.CopyNew()
	bal := ToBalanced(r, p)
	if !p.Equal(before) {
		t.Fatalf("ToBalanced mutated its input")
	}
	half := q / 2
	for i, v := range bal {
		if v <= -half-1 || v > half {
			t.Fatalf("coefficient %d = %d outside (-q/2, q/2]", i, v)
		}
	}
	if bal[0] != 0 || bal[1] != 1 || bal[2] != -1 {
		t.Fatalf("unexpected balanced values: %d %d %d", bal[0], bal[1], bal[2])
	}
	if bal[3] != half || bal[4] != half+1-q {
		t.Fatalf("centering wrong near q/2: %d %d", bal[3], bal[4])
	}
}

func TestClear(t *testing.T) {
	r := testRing(t)
	p := NewPoly(r)
	p.Coeffs()[5] = 42
	NTT(r, p)
	p.Clear()
	if p.IsNTT {
		t.Fatalf("clear left evaluation flag set")
	}
	for i, c := range p.Coeffs() {
		if c != 0 {
			t.Fatalf("coefficient %d = %d after clear", i, c)
		}
	}
}
