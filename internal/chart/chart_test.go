package chart

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"bustrack-visualizer/trajectory"
)

func sampleTrajectory() trajectory.Trajectory {
	return trajectory.Build([]trajectory.Sample{
		{BusID: "A", Longitude: 3, Latitude: 1, NumPassenger: 12, Timestamp: 3},
		{BusID: "A", Longitude: 2, Latitude: 2, NumPassenger: 9, Timestamp: 2},
		{BusID: "A", Longitude: 1, Latitude: 1, NumPassenger: 4, Timestamp: 1},
	})["A"]
}

func TestWritePathPNG(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WritePathPNG(&buf, trajectory.Render(sampleTrajectory()), "A", 4*vg.Inch, 3*vg.Inch)
	require.NoError(t, err)
	require.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), buf.Bytes()[:8])
}

func TestWritePathPNGSinglePoint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	path := trajectory.Render(sampleTrajectory()[:1])
	require.NoError(t, WritePathPNG(&buf, path, "A", 4*vg.Inch, 3*vg.Inch))
	assert.NotZero(t, buf.Len())
}

func TestWritePathPNGEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Error(t, WritePathPNG(&buf, trajectory.Path{}, "none", 4*vg.Inch, 3*vg.Inch))
}

func TestArrowBarbsPointAlongSegment(t *testing.T) {
	t.Parallel()

	a := trajectory.ArrowFeature{Angle: 0}
	barbs := arrowBarbs(a, 1)
	require.Len(t, barbs, 3)
	assert.Equal(t, 0.0, barbs[1].X)
	// Eastward arrow: both barbs trail behind the tip.
	assert.Less(t, barbs[0].X, 0.0)
	assert.Less(t, barbs[2].X, 0.0)
	assert.InDelta(t, -barbs[0].Y, barbs[2].Y, 1e-12)
	assert.InDelta(t, 1, math.Hypot(barbs[0].X, barbs[0].Y), 1e-12)
}

func TestWritePassengerChart(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WritePassengerChart(&buf, "A", sampleTrajectory()))
	html := buf.String()
	assert.Contains(t, html, "Passengers A")
	assert.Contains(t, html, "echarts")
}

func TestWritePassengerChartBadLabel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	traj := trajectory.Trajectory{{Label: "many"}}
	assert.Error(t, WritePassengerChart(&buf, "A", traj))
}
