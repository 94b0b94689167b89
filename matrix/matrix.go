// Package matrix implements a square sparse matrix over residues mod Q in
// compressed-row (CSR) form, with forward and transposed modular
// matrix-vector products. Matrices are populated once (constructor or direct
// field assignment) and are read-only afterward, so concurrent multiplies
// are safe; output vectors must not alias the input vector.
package matrix

import (
	"errors"
	"fmt"
	"math/big"
)

// SparseMatrix is an N x N matrix over Z_Q in CSR form. Values need not be
// pre-reduced mod Q and rows need not be column-sorted.
type SparseMatrix struct {
	N int
	Q *big.Int

	RowPtr []int      // length N+1, monotone, RowPtr[0] = 0, RowPtr[N] = nnz
	ColIdx []int      // length nnz, entries in [0, N)
	Values []*big.Int // length nnz
}

// New returns an empty N x N matrix mod q.
func New(n int, q *big.Int) *SparseMatrix {
	return &SparseMatrix{
		N:      n,
		Q:      new(big.Int).Set(q),
		RowPtr: make([]int, n+1),
		ColIdx: []int{},
		Values: []*big.Int{},
	}
}

// NewIdentity returns the N x N identity matrix mod q.
func NewIdentity(n int, q *big.Int) *SparseMatrix {
	rowPtr := make([]int, n+1)
	colIdx := make([]int, n)
	values := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		rowPtr[i] = i
		colIdx[i] = i
		values[i] = big.NewInt(1)
	}
	rowPtr[n] = n
	return &SparseMatrix{N: n, Q: new(big.Int).Set(q), RowPtr: rowPtr, ColIdx: colIdx, Values: values}
}

// Validate checks CSR consistency: pointer shape and monotonicity, array
// lengths, column bounds and value presence. Every multiply validates before
// touching its output, so malformed matrices fail with an error instead of
// an out-of-range access.
func (m *SparseMatrix) Validate() error {
	if m.N < 0 {
		return fmt.Errorf("negative dimension %d", m.N)
	}
	if m.Q == nil || m.Q.Sign() <= 0 {
		return errors.New("modulus must be positive")
	}
	if len(m.RowPtr) != m.N+1 {
		return fmt.Errorf("row_ptr has length %d, want %d", len(m.RowPtr), m.N+1)
	}
	if m.RowPtr[0] != 0 {
		return fmt.Errorf("row_ptr[0] = %d, want 0", m.RowPtr[0])
	}
	for i := 0; i < m.N; i++ {
		if m.RowPtr[i+1] < m.RowPtr[i] {
			return fmt.Errorf("row_ptr not monotone at row %d", i)
		}
	}
	nnz := m.RowPtr[m.N]
	if len(m.ColIdx) != nnz || len(m.Values) != nnz {
		return fmt.Errorf("nnz %d inconsistent with col_idx length %d and values length %d", nnz, len(m.ColIdx), len(m.Values))
	}
	for j, c := range m.ColIdx {
		if c < 0 || c >= m.N {
			return fmt.Errorf("col_idx[%d] = %d out of range [0, %d)", j, c, m.N)
		}
	}
	for j, val := range m.Values {
		if val == nil {
			return fmt.Errorf("nil value at entry %d", j)
		}
	}
	return nil
}

// ToDense materializes the matrix as an N x N array. O(N^2) memory: intended
// for small matrices and tests.
func (m *SparseMatrix) ToDense() [][]*big.Int {
	dense := make([][]*big.Int, m.N)
	for i := range dense {
		dense[i] = make([]*big.Int, m.N)
		for j := range dense[i] {
			dense[i][j] = new(big.Int)
		}
	}
	for i := 0; i < m.N; i++ {
		for j := m.RowPtr[i]; j < m.RowPtr[i+1]; j++ {
			dense[i][m.ColIdx[j]].Set(m.Values[j])
		}
	}
	return dense
}

// check validates the matrix and the vector operands before any output
// mutation.
func (m *SparseMatrix) check(v, vout []*big.Int) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if len(v) != m.N {
		return fmt.Errorf("input vector has length %d, want %d", len(v), m.N)
	}
	if len(vout) != m.N {
		return fmt.Errorf("output vector has length %d, want %d", len(vout), m.N)
	}
	for i, x := range v {
		if x == nil {
			return fmt.Errorf("nil input entry at index %d", i)
		}
	}
	for i, x := range vout {
		if x == nil {
			return fmt.Errorf("nil output entry at index %d", i)
		}
	}
	return nil
}

func newVec(n int) []*big.Int {
	v := make([]*big.Int, n)
	for i := range v {
		v[i] = new(big.Int)
	}
	return v
}

// MulVec returns M*v mod Q.
func (m *SparseMatrix) MulVec(v []*big.Int) ([]*big.Int, error) {
	vout := newVec(m.N)
	if err := m.MulVecAssign(v, vout); err != nil {
		return nil, err
	}
	return vout, nil
}

// MulVecAssign overwrites vout with M*v mod Q.
func (m *SparseMatrix) MulVecAssign(v, vout []*big.Int) error {
	if err := m.check(v, vout); err != nil {
		return err
	}
	tmp := new(big.Int)
	for i := 0; i < m.N; i++ {
		acc := vout[i].SetInt64(0)
		for j := m.RowPtr[i]; j < m.RowPtr[i+1]; j++ {
			tmp.Mul(m.Values[j], v[m.ColIdx[j]])
			acc.Add(acc, tmp)
			acc.Mod(acc, m.Q)
		}
	}
	return nil
}

// MulVecAddAssign accumulates vout += M*v mod Q.
func (m *SparseMatrix) MulVecAddAssign(v, vout []*big.Int) error {
	if err := m.check(v, vout); err != nil {
		return err
	}
	tmp := new(big.Int)
	for i := 0; i < m.N; i++ {
		for j := m.RowPtr[i]; j < m.RowPtr[i+1]; j++ {
			tmp.Mul(m.Values[j], v[m.ColIdx[j]])
			vout[i].Add(vout[i], tmp)
			vout[i].Mod(vout[i], m.Q)
		}
	}
	return nil
}

// MulVecSubAssign computes vout -= M*v mod Q. The row product is computed
// independently, then subtracted with a Euclidean Mod so the result stays
// in [0, Q).
func (m *SparseMatrix) MulVecSubAssign(v, vout []*big.Int) error {
	if err := m.check(v, vout); err != nil {
		return err
	}
	tmp := new(big.Int)
	rowSum := new(big.Int)
	for i := 0; i < m.N; i++ {
		rowSum.SetInt64(0)
		for j := m.RowPtr[i]; j < m.RowPtr[i+1]; j++ {
			tmp.Mul(m.Values[j], v[m.ColIdx[j]])
			rowSum.Add(rowSum, tmp)
			rowSum.Mod(rowSum, m.Q)
		}
		vout[i].Sub(vout[i], rowSum)
		vout[i].Mod(vout[i], m.Q)
	}
	return nil
}

// TransposeMulVec returns M^T*v mod Q.
func (m *SparseMatrix) TransposeMulVec(v []*big.Int) ([]*big.Int, error) {
	vout := newVec(m.N)
	if err := m.TransposeMulVecAssign(v, vout); err != nil {
		return nil, err
	}
	return vout, nil
}

// TransposeMulVecAssign overwrites vout with M^T*v mod Q by scattering each
// stored entry into its column position.
func (m *SparseMatrix) TransposeMulVecAssign(v, vout []*big.Int) error {
	if err := m.check(v, vout); err != nil {
		return err
	}
	for i := range vout {
		vout[i].SetInt64(0)
	}
	tmp := new(big.Int)
	for i := 0; i < m.N; i++ {
		for j := m.RowPtr[i]; j < m.RowPtr[i+1]; j++ {
			out := vout[m.ColIdx[j]]
			tmp.Mul(m.Values[j], v[i])
			out.Add(out, tmp)
			out.Mod(out, m.Q)
		}
	}
	return nil
}

// TransposeMulVecAddAssign accumulates vout += M^T*v mod Q.
func (m *SparseMatrix) TransposeMulVecAddAssign(v, vout []*big.Int) error {
	if err := m.check(v, vout); err != nil {
		return err
	}
	tmp := new(big.Int)
	for i := 0; i < m.N; i++ {
		for j := m.RowPtr[i]; j < m.RowPtr[i+1]; j++ {
			out := vout[m.ColIdx[j]]
			tmp.Mul(m.Values[j], v[i])
			out.Add(out, tmp)
			out.Mod(out, m.Q)
		}
	}
	return nil
}

// TransposeMulVecSubAssign computes vout -= M^T*v mod Q entry by entry,
// keeping every output residue in [0, Q).
func (m *SparseMatrix) TransposeMulVecSubAssign(v, vout []*big.Int) error {
	if err := m.check(v, vout); err != nil {
		return err
	}
	tmp := new(big.Int)
	for i := 0; i < m.N; i++ {
		for j := m.RowPtr[i]; j < m.RowPtr[i+1]; j++ {
			out := vout[m.ColIdx[j]]
			tmp.Mul(m.Values[j], v[i])
			tmp.Mod(tmp, m.Q)
			out.Sub(out, tmp)
			out.Mod(out, m.Q)
		}
	}
	return nil
}
