package entity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 18, Y2: 26}
	x, y := b.Center()
	require.Equal(t, 14.0, x)
	require.Equal(t, 23.0, y)
}

func TestBoundingBoxValid(t *testing.T) {
	require.True(t, BoundingBox{X1: 1, Y1: 1, X2: 1, Y2: 1}.Valid())
	require.False(t, BoundingBox{X1: 5, Y1: 0, X2: 4, Y2: 1}.Valid())
	require.False(t, BoundingBox{X1: 0, Y1: 5, X2: 1, Y2: 4}.Valid())
}

func TestNewDefectRecord_DerivedFields(t *testing.T) {
	d := NewDefectRecord(1, "SCRATCH", 0.92, BoundingBox{X1: 10, Y1: 10, X2: 50, Y2: 60})
	require.Equal(t, 40.0, d.Width)
	require.Equal(t, 50.0, d.Height)
	require.Equal(t, 2000.0, d.Area)
	require.Equal(t, 0.8, d.AspectRatio)
}

func TestNewDefectRecord_ZeroHeight(t *testing.T) {
	d := NewDefectRecord(1, "LINE", 0.5, BoundingBox{X1: 0, Y1: 7, X2: 30, Y2: 7})
	require.Equal(t, 0.0, d.Height)
	require.Equal(t, 0.0, d.Area)
	require.Equal(t, 0.0, d.AspectRatio)
}

func TestNewDefectRecord_RandomBoxes(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		x1 := rng.Float64() * 1000
		y1 := rng.Float64() * 1000
		box := BoundingBox{X1: x1, Y1: y1, X2: x1 + rng.Float64()*500, Y2: y1 + rng.Float64()*500}
		if i%10 == 0 {
			box.Y2 = box.Y1
		}

		d := NewDefectRecord(i+1, "X", rng.Float64(), box)

		require.Equal(t, box.X2-box.X1, d.Width)
		require.Equal(t, box.Y2-box.Y1, d.Height)
		require.Equal(t, d.Width*d.Height, d.Area)
		if d.Height > 0 {
			require.Equal(t, d.Width/d.Height, d.AspectRatio)
		} else {
			require.Equal(t, 0.0, d.AspectRatio)
		}
	}
}
