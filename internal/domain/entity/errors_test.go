package entity

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateThreshold(t *testing.T) {
	require.NoError(t, ValidateThreshold(0))
	require.NoError(t, ValidateThreshold(1))
	require.NoError(t, ValidateThreshold(0.35))

	for _, v := range []float64{-0.01, 1.01, math.NaN()} {
		err := ValidateThreshold(v)
		var target *InvalidThresholdError
		require.ErrorAs(t, err, &target)
	}
}

func TestDecodeErrorUnwrap(t *testing.T) {
	err := &DecodeError{Reason: "corrupt png", Err: io.ErrUnexpectedEOF}
	require.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	require.Contains(t, err.Error(), "corrupt png")
}
