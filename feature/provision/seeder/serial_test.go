package seeder

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialFormat(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	s := &Serial{now: func() time.Time { return fixed }}

	assert.Equal(t, "1700000000000000", s.Next())
	assert.Equal(t, "1700000000000001", s.Next())

	v := s.Next()
	_, err := strconv.ParseInt(v, 10, 64)
	require.NoError(t, err, "serials must be purely numeric")
}

func TestSerialDistinctInTightLoop(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	s := &Serial{now: func() time.Time { return fixed }}

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		v := s.Next()
		_, dup := seen[v]
		require.False(t, dup, "duplicate serial %s at iteration %d", v, i)
		seen[v] = struct{}{}
	}
}
