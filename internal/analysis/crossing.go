package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/physcore/internal/kinematics"
	"github.com/san-kum/physcore/internal/storage"
)

// Crossings returns the interpolated times at which col passes through
// level. A run of consecutive samples sitting exactly on level is reported
// once, at the first of them.
func Crossings(traj *storage.Trajectory, col string, level float64) ([]float64, error) {
	vals, err := traj.Column(col)
	if err != nil {
		return nil, err
	}

	var out []float64
	onLevel := false
	for i, v := range vals {
		d := v - level
		switch {
		case !isFinite(d):
			onLevel = false
		case d == 0:
			if !onLevel {
				out = append(out, traj.Times[i])
			}
			onLevel = true
		default:
			if i > 0 && !onLevel {
				prev := vals[i-1] - level
				if isFinite(prev) && (prev < 0) != (d < 0) {
					t0, t1 := traj.Times[i-1], traj.Times[i]
					out = append(out, t0+(t1-t0)*prev/(prev-d))
				}
			}
			onLevel = false
		}
	}
	return out, nil
}

// Deviation summarizes how far a trajectory column strays from a reference.
type Deviation struct {
	MaxAbs  float64
	RMS     float64
	AtTime  float64
	Samples int
}

// CompareKinematics measures col against the closed-form displacement of k,
// with k's clock starting at the first sample.
func CompareKinematics(traj *storage.Trajectory, col string, k kinematics.Kinematics) (Deviation, error) {
	vals, err := traj.Column(col)
	if err != nil {
		return Deviation{}, err
	}
	if len(vals) == 0 {
		return Deviation{}, fmt.Errorf("empty trajectory")
	}

	t0 := traj.Times[0]
	elapsed := make([]float64, len(traj.Times))
	for i, t := range traj.Times {
		elapsed[i] = t - t0
	}
	ref := k.DisplacementBatch(elapsed)

	var d Deviation
	var sumSq float64
	for i, v := range vals {
		diff := math.Abs(v - ref[i])
		if !isFinite(diff) {
			continue
		}
		if diff > d.MaxAbs {
			d.MaxAbs = diff
			d.AtTime = traj.Times[i]
		}
		sumSq += diff * diff
		d.Samples++
	}
	if d.Samples > 0 {
		d.RMS = math.Sqrt(sumSq / float64(d.Samples))
	}
	return d, nil
}
