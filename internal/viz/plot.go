package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physcore/internal/storage"
)

var columnCaptions = map[string]string{
	"px": "position x", "py": "position y", "pz": "position z",
	"vx": "velocity x", "vy": "velocity y", "vz": "velocity z",
	"wx": "angular velocity x", "wy": "angular velocity y", "wz": "angular velocity z",
	"qw": "orientation w", "qx": "orientation x", "qy": "orientation y", "qz": "orientation z",
}

// PlotSeries renders one series as an ascii chart.
func PlotSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotTrajectory renders the named trajectory columns one chart per column.
func PlotTrajectory(traj *storage.Trajectory, columns []string, width, height int) (string, error) {
	if len(traj.Rows) == 0 {
		return "", fmt.Errorf("no data to plot")
	}

	var b strings.Builder
	for _, col := range columns {
		data, err := traj.Column(col)
		if err != nil {
			return "", err
		}
		caption := columnCaptions[col]
		if caption == "" {
			caption = col
		}
		b.WriteString(PlotSeries(data, caption, width, height))
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
