package lookup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sessionhub/internal/lookup"
)

func TestParse(t *testing.T) {
	t.Run("numeric token is an id", func(t *testing.T) {
		l := lookup.Parse("42")
		require.True(t, l.ByID())
		require.Equal(t, int64(42), l.ID)
	})

	t.Run("alphanumeric token is a code", func(t *testing.T) {
		l := lookup.Parse("x7k2p9qa")
		require.False(t, l.ByID())
		require.Equal(t, "x7k2p9qa", l.Code)
	})

	t.Run("mixed token is a code", func(t *testing.T) {
		l := lookup.Parse("123abc")
		require.False(t, l.ByID())
		require.Equal(t, "123abc", l.Code)
	})

	t.Run("signed number is a code", func(t *testing.T) {
		l := lookup.Parse("-5")
		require.False(t, l.ByID())
	})

	t.Run("empty token is a code", func(t *testing.T) {
		l := lookup.Parse("")
		require.False(t, l.ByID())
	})

	t.Run("digits overflowing int64 are a code", func(t *testing.T) {
		l := lookup.Parse("99999999999999999999999999")
		require.False(t, l.ByID())
	})
}
