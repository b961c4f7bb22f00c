package service

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ProgressFunc receives a completion percentage between 0 and 100.
type ProgressFunc func(percent int)

// ProgressSteps returns 0, step, 2*step, ... up to and including 100.
func ProgressSteps(step int) []int {
	if step <= 0 || step > 100 {
		return []int{0, 100}
	}
	steps := make([]int, 0, 100/step+2)
	for p := 0; p <= 100; p += step {
		steps = append(steps, p)
	}
	if steps[len(steps)-1] != 100 {
		steps = append(steps, 100)
	}
	return steps
}

// playProgress reports each step, waiting tick before every report. It
// stops early when ctx is done.
func playProgress(ctx context.Context, step int, tick time.Duration, report ProgressFunc) {
	if report == nil {
		return
	}
	for _, p := range ProgressSteps(step) {
		if tick > 0 {
			t := time.NewTimer(tick)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
		report(p)
	}
}

const progressBarWidth = 10

// ProgressBar renders a percentage as a fixed width text bar.
func ProgressBar(percent int) string {
	percent = max(0, min(100, percent))
	filled := percent * progressBarWidth / 100
	return strings.Repeat("▓", filled) + strings.Repeat("░", progressBarWidth-filled) + fmt.Sprintf(" %d%%", percent)
}
