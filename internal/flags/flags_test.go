package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "known flag set to true returns true",
			registry: New(map[string]bool{FlagAutoIndex: true}),
			flag:     FlagAutoIndex,
			expected: true,
		},
		{
			name:     "known flag set to false returns false",
			registry: New(map[string]bool{FlagScanCacheOff: false}),
			flag:     FlagScanCacheOff,
			expected: false,
		},
		{
			name:     "unknown flag returns false",
			registry: New(map[string]bool{FlagAutoIndex: true}),
			flag:     "unknown-flag",
			expected: false,
		},
		{
			name:     "nil registry returns false",
			registry: nil,
			flag:     FlagAutoIndex,
			expected: false,
		},
		{
			name:     "nil flags map returns false",
			registry: New(nil),
			flag:     FlagAutoIndex,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_All_ReturnsDefensiveCopy(t *testing.T) {
	r := New(map[string]bool{FlagAutoIndex: true})

	copied := r.All()
	copied[FlagAutoIndex] = false
	copied[FlagScanCacheOff] = true

	require.True(t, r.Enabled(FlagAutoIndex), "registry should not be affected by copy mutation")
	require.False(t, r.Enabled(FlagScanCacheOff), "registry should not gain flags from copy mutation")
	require.Equal(t, map[string]bool{FlagAutoIndex: true}, r.All())
}

func TestRegistry_All_NilSafe(t *testing.T) {
	var r *Registry
	require.Equal(t, map[string]bool{}, r.All())
	require.Equal(t, map[string]bool{}, New(nil).All())
}
