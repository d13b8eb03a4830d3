package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	opts := Options{URL: "http://127.0.0.1:8080/calendar", OutputPath: "out.png"}
	require.NoError(t, opts.normalize())

	assert.Equal(t, defaultWidth, opts.Width)
	assert.Equal(t, defaultHeight, opts.Height)
	assert.Equal(t, defaultTimeout, opts.Timeout)
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	opts := Options{
		URL:        "http://127.0.0.1:8080/calendar",
		OutputPath: "out.png",
		Width:      640,
		Height:     480,
		Timeout:    5 * time.Second,
	}
	require.NoError(t, opts.normalize())

	assert.Equal(t, 640, opts.Width)
	assert.Equal(t, 480, opts.Height)
	assert.Equal(t, 5*time.Second, opts.Timeout)
}

func TestNormalizeRejectsIncompleteOptions(t *testing.T) {
	err := (&Options{OutputPath: "out.png"}).normalize()
	assert.ErrorContains(t, err, "page URL")

	err = (&Options{URL: "http://127.0.0.1:8080/calendar"}).normalize()
	assert.ErrorContains(t, err, "output path")
}
