// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"go.uber.org/zap"

	arena "github.com/wundergraph/go-fixedarena"
)

const messageSize = 32

type result struct {
	iterations int
	failures   int
}

// runCycle writes a message into a fresh region, duplicates it and frees
// both, n times. Allocation failures are counted and skipped.
func runCycle(a *arena.FixedArena, log *zap.Logger, n int) (result, error) {
	var res result
	for i := 0; i < n; i++ {
		res.iterations++

		off, err := a.Alloc(messageSize)
		if err != nil {
			log.Error("allocation failed", zap.Int("iteration", i))
			res.failures++
			continue
		}

		buf := arena.NewRegionBuffer(a, off, messageSize)
		if err := writeMessage(buf, i); err != nil {
			a.Free(off, messageSize)
			return res, fmt.Errorf("iteration %d: %w", i, err)
		}
		text, err := a.CString(off)
		if err != nil {
			a.Free(off, messageSize)
			return res, err
		}
		log.Debug("allocated string", zap.String("text", text))

		dup, err := a.DupString(text)
		if err != nil {
			res.failures++
			a.Free(off, messageSize)
			continue
		}
		copied, err := a.CString(dup)
		if err != nil {
			a.Free(off, messageSize)
			a.Free(dup, len(text)+1)
			return res, err
		}
		log.Debug("duplicated string", zap.String("text", copied), zap.Int("iteration", i))

		a.Free(off, messageSize)
		if err := a.FreeString(dup); err != nil {
			return res, err
		}
	}
	log.Info("memory cycle completed", zap.Int("iterations", res.iterations), zap.Int("failures", res.failures))
	return res, nil
}

// writeMessage writes the zero-terminated message for iteration i.
func writeMessage(buf *arena.RegionBuffer, i int) error {
	if _, err := fmt.Fprintf(buf, "Message number %d", i); err != nil {
		return err
	}
	return buf.WriteByte(0)
}

// runWorkload stores an integer, formats a line from it, duplicates the
// line into the arena and frees both, n times.
func runWorkload(a *arena.FixedArena, log *zap.Logger, n int) (result, error) {
	var res result
	for i := 0; i < n; i++ {
		res.iterations++

		num, err := a.Alloc(4)
		if err != nil {
			log.Error("failed to allocate int", zap.Int("iteration", i))
			res.failures++
			continue
		}
		if err := a.SetInt32(num, int32(i)); err != nil {
			return res, err
		}
		v, err := a.Int32(num)
		if err != nil {
			return res, err
		}
		if v != int32(i) {
			return res, fmt.Errorf("iteration %d: read back %d", i, v)
		}

		line := fmt.Sprintf("Iteration: %d, Value: %d", i, v)
		copied, err := a.DupString(line)
		if err != nil {
			log.Error("failed to duplicate string", zap.Int("iteration", i))
			res.failures++
			a.Free(num, 4)
			continue
		}

		if square := v * v; square%10 == 0 {
			text, err := a.CString(copied)
			if err != nil {
				return res, err
			}
			log.Info("workload", zap.Int("iteration", i), zap.String("text", text), zap.Int32("square", square))
		}

		if err := a.FreeString(copied); err != nil {
			return res, err
		}
		a.Free(num, 4)
	}
	log.Info("all memory cycles completed", zap.Int("iterations", res.iterations), zap.Int("failures", res.failures))
	return res, nil
}
