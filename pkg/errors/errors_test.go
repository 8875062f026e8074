package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndCode(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("startup: %w", Wrap("knowledge_base_error", "load knowledge base", base))

	require.True(t, IsCode(err, "knowledge_base_error"))
	require.False(t, IsCode(err, "llm_error"))
	require.Equal(t, "knowledge_base_error", CodeOf(err))
	require.ErrorIs(t, err, base)
	require.Equal(t, "startup: load knowledge base: connection refused", err.Error())
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap("weather_error", "weather api key missing", nil)
	require.Equal(t, "weather api key missing", err.Error())
	require.Empty(t, CodeOf(errors.New("plain")))
}
