package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bustrack-visualizer/trajectory"
)

func TestCeilSeconds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ceilSeconds(0))
	assert.Equal(t, 1, ceilSeconds(500*time.Millisecond))
	assert.Equal(t, 10, ceilSeconds(10*time.Second))
	assert.Equal(t, 11, ceilSeconds(10*time.Second+time.Millisecond))
}

func TestResolveProjection(t *testing.T) {
	t.Parallel()

	proj, surface, err := resolveProjection(trajectory.ProjectionWebMercator)
	require.NoError(t, err)
	assert.NotNil(t, proj)
	assert.Nil(t, surface.Forward)

	proj, surface, err = resolveProjection(trajectory.ProjectionGeographic)
	require.NoError(t, err)
	assert.Nil(t, proj)
	assert.NotNil(t, surface.Forward)
	assert.NotNil(t, surface.Inverse)

	_, _, err = resolveProjection("EPSG:27700")
	assert.ErrorContains(t, err, "EPSG:27700")
}
