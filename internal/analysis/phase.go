package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/physcore/internal/storage"
)

type Point struct{ X, Y float64 }

// PhasePortrait holds two trajectory columns paired sample by sample.
type PhasePortrait struct {
	XCol, YCol string
	Points     []Point
}

// NewPhasePortrait pairs xCol and yCol from traj, dropping non-finite samples.
func NewPhasePortrait(traj *storage.Trajectory, xCol, yCol string) (*PhasePortrait, error) {
	xs, err := traj.Column(xCol)
	if err != nil {
		return nil, err
	}
	ys, err := traj.Column(yCol)
	if err != nil {
		return nil, err
	}

	p := &PhasePortrait{XCol: xCol, YCol: yCol, Points: make([]Point, 0, len(xs))}
	for i := range xs {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			p.Points = append(p.Points, Point{X: xs[i], Y: ys[i]})
		}
	}
	if len(p.Points) == 0 {
		return nil, fmt.Errorf("no finite samples for %s/%s", xCol, yCol)
	}
	return p, nil
}

// ASCII draws the portrait with axes where zero is in view.
func (p *PhasePortrait) ASCII(width, height int) string {
	if len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX, rangeY = maxX-minX, maxY-minY

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	colOf := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	rowOf := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	for _, pt := range p.Points {
		row, col := rowOf(pt.Y), colOf(pt.X)
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := colOf(0)
		for row := 0; row < height; row++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := rowOf(0)
		for col := 0; col < width; col++ {
			if grid[row][col] == ' ' {
				grid[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
