package vfsconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThroughputUnits(t *testing.T) {
	cases := []struct {
		text string
		want uint64
		ok   bool
	}{
		{"1 KiB/s", 1024, true},
		{"1KB/S", 1024, true},
		{"1", 1024, true},
		{"2m", 2 * 1024 * 1024, true},
		{"2 MB/s", 2 * 1024 * 1024, true},
		{"1.5g", uint64(1.5 * 1024 * 1024 * 1024), true},
		{"0", 0, true},
		{"garbage", 0, false},
		{"1 tb", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseThroughput(c.text)
		assert.Equalf(t, c.ok, ok, "text=%q", c.text)
		if c.ok {
			assert.Equalf(t, c.want, got, "text=%q", c.text)
		}
	}
}

func TestNormalizeRejectsInvalidThroughputSilently(t *testing.T) {
	c := Default()
	c.VirtualSpeedLimit = "1 KiB/s"
	require.NoError(t, c.Normalize())
	require.Equal(t, uint64(1024), c.BytesPerSec())

	c.VirtualSpeedLimit = "not a throughput"
	require.NoError(t, c.Normalize())
	assert.Equal(t, uint64(1024), c.BytesPerSec(), "invalid text must not change the previously accepted limit")
}

func TestNormalizeRangeErrors(t *testing.T) {
	c := Default()
	c.MaxDepth = 99999
	require.Error(t, c.Normalize())
}

func TestChangedTriggersOnlyOnReseedFields(t *testing.T) {
	a := Default()
	b := Default()
	b.LatencyMs = 50
	assert.False(t, a.Changed(b), "latency change must not force a reseed")
	b.Seed = 7
	assert.True(t, a.Changed(b))
}

func TestEffectiveSeedZeroMeansRunUnique(t *testing.T) {
	c := Default()
	c.Seed = 0
	assert.Equal(t, uint64(12345), c.EffectiveSeed(12345))
	c.Seed = 42
	assert.Equal(t, uint64(42), c.EffectiveSeed(12345))
}
