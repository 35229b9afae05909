// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// Replay submits every sentence of a recorded log, one per interval. Blank
// lines and lines starting with '#' are skipped. It returns the number of
// submitted lines; a cancelled ctx is not an error.
func Replay(ctx context.Context, r io.Reader, interval time.Duration, submit func(ctx context.Context, line string) error) (int, error) {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return n, nil
			case <-tick:
			}
		}
		if err := submit(ctx, line); err != nil {
			if errors.Is(err, context.Canceled) {
				return n, nil
			}
			return n, err
		}
		n++
	}
	return n, scanner.Err()
}
