package vecmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/physcore/internal/dynamo"
)

// singularEpsilon is the determinant magnitude below which Invert refuses.
const singularEpsilon = 1e-9

// Matrix3 is a 3x3 matrix in row-major order: m[row][col].
type Matrix3 [3][3]float64

// Identity returns the 3x3 identity matrix.
func Identity() Matrix3 {
	return Matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Diagonal returns a matrix with x, y, z on the diagonal, the usual shape of
// a principal-axes inertia tensor.
func Diagonal(x, y, z float64) Matrix3 {
	return Matrix3{{x, 0, 0}, {0, y, 0}, {0, 0, z}}
}

// Mat converts m to mgl64's column-major layout.
func (m Matrix3) Mat() mgl64.Mat3 {
	return mgl64.Mat3FromRows(
		mgl64.Vec3(m[0]),
		mgl64.Vec3(m[1]),
		mgl64.Vec3(m[2]),
	)
}

func fromMat(m mgl64.Mat3) Matrix3 {
	var out Matrix3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

// Determinant returns det(m).
func Determinant(m Matrix3) float64 {
	return m.Mat().Det()
}

// MatVec returns the product m * v.
func MatVec(m Matrix3, v Vector3) Vector3 {
	return m.Mat().Mul3x1(v)
}

// Invert returns the inverse of m via the adjugate over the determinant.
// It fails with dynamo.ErrSingularMatrix when |det(m)| < 1e-9.
func Invert(m Matrix3) (Matrix3, error) {
	mm := m.Mat()
	det := mm.Det()
	if math.IsNaN(det) || math.Abs(det) < singularEpsilon {
		return Matrix3{}, fmt.Errorf("det=%g: %w", det, dynamo.ErrSingularMatrix)
	}
	return fromMat(mm.Inv()), nil
}

// Transpose returns m with rows and columns swapped.
func (m Matrix3) Transpose() Matrix3 {
	return fromMat(m.Mat().Transpose())
}
