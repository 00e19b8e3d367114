// Package export renders stored runs into files for use outside the terminal.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/physcore/internal/storage"
	"github.com/san-kum/physcore/internal/viz"
)

var ErrTooFewPoints = errors.New("export: need at least two finite points")

type SVGOptions struct {
	Width, Height int
	Stroke        string
	Background    string
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{Width: 640, Height: 480, Stroke: "#00ff88", Background: "#0a0a0a"}
}

// TrajectorySVG writes the path traced in the (xCol, yCol) plane as a
// single SVG polyline, padded by 10% on each side.
func TrajectorySVG(w io.Writer, traj *storage.Trajectory, xCol, yCol string, opts SVGOptions) error {
	xs, err := traj.Column(xCol)
	if err != nil {
		return err
	}
	ys, err := traj.Column(yCol)
	if err != nil {
		return err
	}

	var px, py []float64
	bounds := viz.Bounds{MinX: math.Inf(1), MaxX: math.Inf(-1), MinY: math.Inf(1), MaxY: math.Inf(-1)}
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		bounds = bounds.Expand(xs[i], ys[i])
		px = append(px, xs[i])
		py = append(py, ys[i])
	}
	if len(px) < 2 {
		return ErrTooFewPoints
	}

	rangeX, rangeY := bounds.MaxX-bounds.MinX, bounds.MaxY-bounds.MinY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX, minY := bounds.MinX-rangeX*0.1, bounds.MinY-rangeY*0.1
	rangeX, rangeY = rangeX*1.2, rangeY*1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		opts.Width, opts.Height, opts.Width, opts.Height, opts.Background, opts.Stroke)

	for i := range px {
		x := (px[i] - minX) / rangeX * float64(opts.Width)
		y := float64(opts.Height) - (py[i]-minY)/rangeY*float64(opts.Height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err = io.WriteString(w, sb.String())
	return err
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
