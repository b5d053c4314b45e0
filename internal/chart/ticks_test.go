package chart_test

import (
	"testing"
	"time"

	"github.com/henne90gen/dfplot/internal/chart"
)

func TestValueTicks_RoundSteps(t *testing.T) {
	t.Parallel()

	s := chart.NewValueScale(
		chart.PixelRange{Start: 0, End: 100},
		chart.Extent{Min: 0, Max: 10},
	)

	ticks := chart.ValueTicks(s, 5)

	wantLabels := []string{"0", "2", "4", "6", "8", "10"}
	if len(ticks) != len(wantLabels) {
		t.Fatalf("got %d ticks, want %d: %+v", len(ticks), len(wantLabels), ticks)
	}
	for i, tick := range ticks {
		if tick.Label != wantLabels[i] {
			t.Errorf("tick %d label = %q, want %q", i, tick.Label, wantLabels[i])
		}
	}
	if !approx(ticks[0].Pixel, 0) || !approx(ticks[len(ticks)-1].Pixel, 100) {
		t.Errorf("tick pixels span [%v, %v], want [0, 100]",
			ticks[0].Pixel, ticks[len(ticks)-1].Pixel)
	}
}

func TestValueTicks_FractionalSteps(t *testing.T) {
	t.Parallel()

	s := chart.NewValueScale(
		chart.PixelRange{Start: 0, End: 100},
		chart.Extent{Min: 0, Max: 1},
	)

	ticks := chart.ValueTicks(s, 5)

	// Step 0.2 needs one decimal in the labels.
	wantLabels := []string{"0.0", "0.2", "0.4", "0.6", "0.8", "1.0"}
	if len(ticks) != len(wantLabels) {
		t.Fatalf("got %d ticks, want %d: %+v", len(ticks), len(wantLabels), ticks)
	}
	for i, tick := range ticks {
		if tick.Label != wantLabels[i] {
			t.Errorf("tick %d label = %q, want %q", i, tick.Label, wantLabels[i])
		}
	}
}

func TestValueTicks_StayWithinExtent(t *testing.T) {
	t.Parallel()

	s := chart.NewValueScale(
		chart.PixelRange{Start: 0, End: 540},
		chart.Extent{Min: -0.03, Max: 2.03},
	)

	for _, tick := range chart.ValueTicks(s, 4) {
		if tick.Pixel < 0 || tick.Pixel > 540 {
			t.Errorf("tick %q at %v lies outside the plot", tick.Label, tick.Pixel)
		}
	}
}

func TestValueTicks_DegenerateExtent(t *testing.T) {
	t.Parallel()

	s := chart.NewValueScale(
		chart.PixelRange{Start: 0, End: 100},
		chart.Extent{Min: 7, Max: 7},
	)

	ticks := chart.ValueTicks(s, 4)
	if len(ticks) != 1 || ticks[0].Label != "7" {
		t.Fatalf("ticks = %+v, want a single tick labeled 7", ticks)
	}
}

func TestTimeTicks_HourlySteps(t *testing.T) {
	t.Parallel()

	min := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	s := chart.NewTimeScale(
		chart.PixelRange{Start: 0, End: 540},
		chart.TimeExtent{Min: min, Max: min.Add(6 * time.Hour)},
	)

	ticks := chart.TimeTicks(s, 6)

	wantLabels := []string{"00:00", "01:00", "02:00", "03:00", "04:00", "05:00", "06:00"}
	if len(ticks) != len(wantLabels) {
		t.Fatalf("got %d ticks, want %d: %+v", len(ticks), len(wantLabels), ticks)
	}
	for i, tick := range ticks {
		if tick.Label != wantLabels[i] {
			t.Errorf("tick %d label = %q, want %q", i, tick.Label, wantLabels[i])
		}
	}
}

func TestTimeTicks_DailySteps(t *testing.T) {
	t.Parallel()

	min := time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC)
	s := chart.NewTimeScale(
		chart.PixelRange{Start: 0, End: 540},
		chart.TimeExtent{Min: min, Max: min.AddDate(0, 0, 6)},
	)

	ticks := chart.TimeTicks(s, 7)

	if len(ticks) != 7 {
		t.Fatalf("got %d ticks, want 7: %+v", len(ticks), ticks)
	}
	if ticks[0].Label != "01.03" || ticks[6].Label != "07.03" {
		t.Errorf("daily labels = %q..%q, want 01.03..07.03",
			ticks[0].Label, ticks[len(ticks)-1].Label)
	}
}

func TestBandTicks_CenteredOnBands(t *testing.T) {
	t.Parallel()

	s := chart.NewBandScale(
		chart.PixelRange{Start: 0, End: 200},
		[]string{"a", "b", "c", "d"},
	)

	ticks := chart.BandTicks(s)

	if len(ticks) != 4 {
		t.Fatalf("got %d ticks, want 4", len(ticks))
	}
	for i, tick := range ticks {
		key := s.Keys()[i]
		if tick.Label != key {
			t.Errorf("tick %d label = %q, want %q", i, tick.Label, key)
		}
		wantCenter := s.Convert(key) + s.Bandwidth()/2
		if !approx(tick.Pixel, wantCenter) {
			t.Errorf("tick %d pixel = %v, want %v", i, tick.Pixel, wantCenter)
		}
	}
}
