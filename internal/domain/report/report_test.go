package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRange(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		period, err := ParseDateRange("2026-03-01", "2026-03-31")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), period.Start)
		assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), period.End)
	})

	t.Run("single day range", func(t *testing.T) {
		_, err := ParseDateRange("2026-03-15", "2026-03-15")
		assert.NoError(t, err)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := ParseDateRange("2026-03-31", "2026-03-01")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("malformed dates", func(t *testing.T) {
		_, err := ParseDateRange("03/01/2026", "2026-03-31")
		assert.ErrorIs(t, err, ErrInvalidDate)

		_, err = ParseDateRange("2026-03-01", "")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}
