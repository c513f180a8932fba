package model

import (
	"errors"
	"math"
	"testing"

	"github.com/go-openapi/testify/v2/assert"
	"github.com/go-openapi/testify/v2/require"
)

func TestWithDefaults(t *testing.T) {
	c := Chart{XAxis: []string{"a"}}.WithDefaults()

	assert.InDelta(t, DefaultWidth, c.Width, 1e-9)
	assert.InDelta(t, DefaultHeight, c.Height, 1e-9)
	assert.InDelta(t, DefaultMargin, c.Margin, 1e-9)
	assert.InDelta(t, DefaultFontSize, c.FontSize, 1e-9)
	assert.Equal(t, DefaultLabelColor, c.LabelColor)
	assert.Equal(t, DefaultAxisColor, c.AxisColor)
	assert.Empty(t, c.XUnit)
	assert.Empty(t, c.YUnit)
	assert.InDelta(t, 38.0, c.XAxisOffset(), 1e-9)
}

func TestWithDefaultsClones(t *testing.T) {
	orig := Chart{
		XAxis: []string{"a", "b"},
		Lines: []Series{{Points: []float64{1, 2}}},
	}

	c := orig.WithDefaults()
	c.XAxis[0] = "changed"
	c.Lines[0].Points[0] = 42
	c.Lines[0].Hidden = true

	assert.Equal(t, "a", orig.XAxis[0])
	assert.InDelta(t, 1.0, orig.Lines[0].Points[0], 1e-9)
	assert.False(t, orig.Lines[0].Hidden)
}

func TestSeriesValue(t *testing.T) {
	s := Series{Points: []float64{1, math.NaN(), 3}}

	tests := []struct {
		index  int
		want   float64
		wantOk bool
	}{
		{-1, 0, false},
		{0, 1, true},
		{1, 0, false},
		{2, 3, true},
		{3, 0, false},
	}

	for _, tt := range tests {
		v, ok := s.Value(tt.index)
		assert.Equal(t, tt.wantOk, ok, "Value(%d) ok", tt.index)
		assert.InDelta(t, tt.want, v, 1e-9, "Value(%d)", tt.index)
	}
}

func TestMaxValue(t *testing.T) {
	tests := []struct {
		name  string
		lines []Series
		want  float64
	}{
		{"no series", nil, 1},
		{"all zero", []Series{{Points: []float64{0, 0, 0}}}, 1},
		{"all negative", []Series{{Points: []float64{-3, -1}}}, 1},
		{"hidden series count", []Series{{Points: []float64{1, 2}}, {Hidden: true, Points: []float64{9}}}, 9},
		{"NaN ignored", []Series{{Points: []float64{math.NaN(), 4}}}, 4},
		{"empty points", []Series{{}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Chart{Lines: tt.lines}
			assert.InDelta(t, tt.want, c.MaxValue(), 1e-9)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Chart{XAxis: []string{"a"}}.WithDefaults()

	t.Run("valid without lines", func(t *testing.T) {
		require.NoError(t, valid.Validate(false))
	})

	t.Run("empty x axis", func(t *testing.T) {
		c := valid
		c.XAxis = nil

		err := c.Validate(false)
		require.Error(t, err)
		require.ErrorIs(t, err, ErrConfiguration)

		var cerr *ConfigurationError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, "xAxis", cerr.Field)
	})

	t.Run("lines required with tooltips", func(t *testing.T) {
		err := valid.Validate(true)
		require.ErrorIs(t, err, ErrConfiguration)
		assert.Contains(t, err.Error(), "lines")
	})

	t.Run("non positive size", func(t *testing.T) {
		c := valid
		c.Width = -1

		require.ErrorIs(t, c.Validate(false), ErrConfiguration)
	})
}
