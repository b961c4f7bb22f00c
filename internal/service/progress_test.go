package service

import (
	"context"
	"slices"
	"testing"
	"time"
)

func TestProgressSteps(t *testing.T) {
	tests := []struct {
		step int
		want []int
	}{
		{10, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}},
		{20, []int{0, 20, 40, 60, 80, 100}},
		{30, []int{0, 30, 60, 90, 100}},
		{0, []int{0, 100}},
	}
	for _, tt := range tests {
		if got := ProgressSteps(tt.step); !slices.Equal(got, tt.want) {
			t.Errorf("ProgressSteps(%d): got %v, want %v", tt.step, got, tt.want)
		}
	}
}

func TestPlayProgressReportsEveryStep(t *testing.T) {
	var got []int
	playProgress(context.Background(), 20, time.Millisecond, func(p int) { got = append(got, p) })
	if !slices.Equal(got, []int{0, 20, 40, 60, 80, 100}) {
		t.Errorf("got %v", got)
	}
}

func TestPlayProgressStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got []int
	playProgress(ctx, 10, time.Hour, func(p int) { got = append(got, p) })
	if len(got) != 0 {
		t.Errorf("got %v after cancel", got)
	}
}

func TestProgressBar(t *testing.T) {
	tests := map[int]string{
		0:   "░░░░░░░░░░ 0%",
		50:  "▓▓▓▓▓░░░░░ 50%",
		100: "▓▓▓▓▓▓▓▓▓▓ 100%",
		150: "▓▓▓▓▓▓▓▓▓▓ 100%",
	}
	for percent, want := range tests {
		if got := ProgressBar(percent); got != want {
			t.Errorf("ProgressBar(%d): got %q, want %q", percent, got, want)
		}
	}
}
