// Package linalg provides the 2×2 matrix and plane vector types used by
// matrixquiz, together with the random matrix sampler that drives each round.
package linalg

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrCellOutOfRange is returned when a row or column index is not 0 or 1.
var ErrCellOutOfRange = errors.New("matrix cell out of range")

// Size is the number of rows and columns of a Matrix.
const Size = 2

// Matrix is a 2×2 matrix of real numbers stored row-major, m[r][c].
// It represents a linear map of the plane.
type Matrix [Size][Size]float64

// Vector2 is a point or direction in the plane.
type Vector2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns k·v.
func (v Vector2) Scale(k float64) Vector2 {
	return Vector2{X: k * v.X, Y: k * v.Y}
}

// Zero returns the all-zero matrix.
func Zero() Matrix {
	return Matrix{}
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{{1, 0}, {0, 1}}
}

// UnitSquare returns the corners of the unit square in cyclic order:
// (0,0), (1,0), (1,1), (0,1).
func UnitSquare() [4]Vector2 {
	return [4]Vector2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
}

// Transform applies the linear map to v.
func (m Matrix) Transform(v Vector2) Vector2 {
	return Vector2{
		X: m[0][0]*v.X + m[0][1]*v.Y,
		Y: m[1][0]*v.X + m[1][1]*v.Y,
	}
}

// TransformAll maps every vector in vs through m.
func (m Matrix) TransformAll(vs [4]Vector2) [4]Vector2 {
	var out [4]Vector2
	for i, v := range vs {
		out[i] = m.Transform(v)
	}
	return out
}

// Equal reports whether every cell of m equals the corresponding cell of o.
// The comparison is exact; no tolerance is applied.
func (m Matrix) Equal(o Matrix) bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if m[r][c] != o[r][c] {
				return false
			}
		}
	}
	return true
}

// At returns m[r][c].
func (m Matrix) At(r, c int) (float64, error) {
	if !validCell(r, c) {
		return 0, fmt.Errorf("%w: (%d, %d)", ErrCellOutOfRange, r, c)
	}
	return m[r][c], nil
}

// Set replaces m[r][c] with v.
func (m *Matrix) Set(r, c int, v float64) error {
	if !validCell(r, c) {
		return fmt.Errorf("%w: (%d, %d)", ErrCellOutOfRange, r, c)
	}
	m[r][c] = v
	return nil
}

// Determinant returns m00·m11 − m01·m10, the signed area of the image of
// the unit square.
func (m Matrix) Determinant() float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

// String formats the matrix as [[a b] [c d]].
func (m Matrix) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for r := 0; r < Size; r++ {
		if r > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		b.WriteString(FormatEntry(m[r][0]))
		b.WriteByte(' ')
		b.WriteString(FormatEntry(m[r][1]))
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// FormatEntry formats a single cell value using the shortest representation
// that round-trips, so integers print without a decimal point.
func FormatEntry(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ErrNotFinite is returned by ParseMatrix for NaN or infinite entries.
var ErrNotFinite = errors.New("entry is not a finite number")

// ParseMatrix parses four comma separated values in row-major order,
// e.g. "2,-1,0,3".
func ParseMatrix(s string) (Matrix, error) {
	parts := strings.Split(s, ",")
	if len(parts) != Size*Size {
		return Matrix{}, fmt.Errorf("expected %d comma separated values, got %d", Size*Size, len(parts))
	}
	var m Matrix
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Matrix{}, fmt.Errorf("entry %d: %w", i, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Matrix{}, fmt.Errorf("entry %d: %w: %q", i, ErrNotFinite, strings.TrimSpace(p))
		}
		m[i/Size][i%Size] = v
	}
	return m, nil
}

func validCell(r, c int) bool {
	return r >= 0 && r < Size && c >= 0 && c < Size
}
