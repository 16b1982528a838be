// Package geo provides the 3D vector type shared by every MultilatSensorNet
// component: sensor positions, target position, distance residuals and
// Kalman filter state all reduce to operations over Vector3.
package geo

import (
	"fmt"
	"math"
)

// Vector3 is a point or displacement in 3D Euclidean space.
type Vector3 struct {
	X, Y, Z float64
}

// Sub returns v - other.
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Add returns v + other.
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Scale returns v multiplied by a scalar.
func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Norm returns the Euclidean length of v.
func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Distance returns the Euclidean distance between v and other.
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Norm()
}

// String renders the vector with limited precision for logging.
func (v Vector3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// Infinity is the sentinel position used by TS_ERROR responses (§6 of the
// wire contract): every component is +Inf.
var Infinity = Vector3{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
