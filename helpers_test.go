// SPDX-License-Identifier: Apache-2.0

package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// newObservedArena creates an arena whose log output is captured.
func newObservedArena(t testing.TB, opts ...FixedArenaOption) (*FixedArena, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	a, err := New(append([]FixedArenaOption{WithLogger(zap.New(core))}, opts...)...)
	require.NoError(t, err)
	return a, logs
}

// errorCount returns the number of error level entries with the given message.
func errorCount(logs *observer.ObservedLogs, msg string) int {
	return logs.FilterLevelExact(zapcore.ErrorLevel).FilterMessage(msg).Len()
}

// requireInvariants checks the free-region list and descriptor pool:
// regions are sorted, never overlap or touch, stay inside the arena, their
// sizes add up to the free byte count, and every descriptor slot belongs to
// exactly one list.
func requireInvariants(t testing.TB, a *FixedArena) {
	t.Helper()

	regions := a.FreeRegions()
	free := 0
	for i, r := range regions {
		require.Positive(t, r.Size, "region %d is empty", i)
		require.GreaterOrEqual(t, int(r.Off), 0, "region %d starts before the arena", i)
		require.LessOrEqual(t, int(r.End()), a.Cap(), "region %d ends past the arena", i)
		if i > 0 {
			require.Greater(t, r.Off, regions[i-1].End(), "regions %d and %d overlap or touch", i-1, i)
		}
		free += r.Size
	}

	st := a.Stats()
	require.Equal(t, free, st.Free)
	require.Equal(t, a.Cap(), st.Free+st.Len)
	require.Equal(t, len(regions), st.Regions)
	require.Equal(t, st.MaxBlocks, st.Regions+st.SpareBlocks)
}
