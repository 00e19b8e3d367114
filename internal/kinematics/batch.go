package kinematics

import "github.com/san-kum/physcore/internal/dynamo"

// minBatchChunk keeps goroutine overhead below the cost of the arithmetic.
const minBatchChunk = 4096

func (k Kinematics) eval(in []float64, fn func(float64) float64) []float64 {
	out := make([]float64, len(in))
	dynamo.ParallelFor(len(in), minBatchChunk, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = fn(in[i])
		}
	})
	return out
}

// DisplacementBatch evaluates Displacement for every t, in input order.
func (k Kinematics) DisplacementBatch(times []float64) []float64 {
	return k.eval(times, k.Displacement)
}

// VelocityBatch evaluates Velocity for every t, in input order.
func (k Kinematics) VelocityBatch(times []float64) []float64 {
	return k.eval(times, k.Velocity)
}

// SpeedBatch evaluates SpeedAt for every displacement, in input order.
func (k Kinematics) SpeedBatch(displacements []float64) []float64 {
	return k.eval(displacements, k.SpeedAt)
}

// Sample returns n+1 evenly spaced times in [0, duration] with the
// displacement and velocity at each.
func (k Kinematics) Sample(duration float64, n int) (times, positions, velocities []float64) {
	if n < 1 {
		n = 1
	}
	times = make([]float64, n+1)
	for i := range times {
		times[i] = duration * float64(i) / float64(n)
	}
	return times, k.DisplacementBatch(times), k.VelocityBatch(times)
}
