package profiling

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func seed(totals map[string]time.Duration) {
	ResetFrame()
	mu.Lock()
	for k, v := range totals {
		frameTotals[k] = v
	}
	mu.Unlock()
}

func TestTopN(t *testing.T) {
	seed(map[string]time.Duration{
		"render.Frame":    42 * time.Millisecond,
		"render.Row":      3500 * time.Microsecond,
		"physics.Raycast": 300 * time.Microsecond,
	})
	defer ResetFrame()

	require.Equal(t, "render.Frame:42ms, render.Row:3.5ms", TopN(2))
	require.Equal(t, 3, strings.Count(TopN(10), "ms"))
}

func TestSumWithPrefix(t *testing.T) {
	seed(map[string]time.Duration{
		"render.Frame":    10 * time.Millisecond,
		"render.Row":      5 * time.Millisecond,
		"physics.Raycast": time.Millisecond,
	})
	defer ResetFrame()

	require.Equal(t, 15*time.Millisecond, SumWithPrefix("render."))
	require.Equal(t, time.Duration(0), SumWithPrefix("march."))
}

func TestTrackAndReset(t *testing.T) {
	ResetFrame()
	stop := Track("test.Sleep")
	time.Sleep(time.Millisecond)
	stop()

	require.GreaterOrEqual(t, Snapshot()["test.Sleep"], time.Millisecond)
	ResetFrame()
	require.Empty(t, Snapshot())
}

func TestFormatMs(t *testing.T) {
	require.Equal(t, "4.2ms", formatMs(4.25))
	require.Equal(t, "3ms", formatMs(3))
	require.Equal(t, "0ms", formatMs(0))
}
