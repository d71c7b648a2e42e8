package application

import (
	"testing"
	"time"

	"hostpulse/internal/metrics/domain"
)

func TestProcessTracker_Observe(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	tracker := NewProcessTracker(clock.Now)

	if tracker.Primed() {
		t.Fatal("expected a fresh tracker to be unprimed")
	}

	first := tracker.Observe([]domain.ProcessReading{
		{PID: 1, Name: "init", BusyTime: time.Second},
		{PID: 2, Name: "worker", BusyTime: 2 * time.Second},
	}, 2)
	for _, p := range first {
		if p.CPUPercent != 0 {
			t.Errorf("expected 0%% on first sighting of pid %d, got %v", p.PID, p.CPUPercent)
		}
	}
	if !tracker.Primed() {
		t.Fatal("expected tracker to be primed after first observation")
	}

	clock.now = clock.now.Add(time.Second)
	second := tracker.Observe([]domain.ProcessReading{
		{PID: 1, Name: "init", BusyTime: time.Second + 500*time.Millisecond},
		{PID: 2, Name: "worker", BusyTime: 4 * time.Second},
	}, 2)

	tests := []struct {
		name string
		pid  int32
		want float64
	}{
		{name: "half a core on two cores", pid: 1, want: 25},
		{name: "two cores saturated", pid: 2, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, p := range second {
				if p.PID == tt.pid && p.CPUPercent != tt.want {
					t.Errorf("expected %v, got %v", tt.want, p.CPUPercent)
				}
			}
		})
	}
}

func TestProcessTracker_ShortIntervalKeepsBaseline(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	tracker := NewProcessTracker(clock.Now)

	tracker.Observe([]domain.ProcessReading{{PID: 1, BusyTime: 0}}, 1)

	clock.now = clock.now.Add(100 * time.Millisecond)
	got := tracker.Observe([]domain.ProcessReading{{PID: 1, BusyTime: 50 * time.Millisecond}}, 1)
	if got[0].CPUPercent != 0 {
		t.Errorf("expected 0%% below the minimum interval, got %v", got[0].CPUPercent)
	}

	// the baseline from t0 is still in place, so the delta spans 400ms
	clock.now = clock.now.Add(300 * time.Millisecond)
	got = tracker.Observe([]domain.ProcessReading{{PID: 1, BusyTime: 200 * time.Millisecond}}, 1)
	if got[0].CPUPercent != 50 {
		t.Errorf("expected 50%%, got %v", got[0].CPUPercent)
	}
}

func TestProcessTracker_PIDReuseAndVanish(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	tracker := NewProcessTracker(clock.Now)

	tracker.Observe([]domain.ProcessReading{
		{PID: 1, BusyTime: 10 * time.Second},
		{PID: 2, BusyTime: time.Second},
	}, 1)

	clock.now = clock.now.Add(time.Second)
	got := tracker.Observe([]domain.ProcessReading{{PID: 1, BusyTime: time.Second}}, 1)
	if got[0].CPUPercent != 0 {
		t.Errorf("expected a restarted pid to report 0%%, got %v", got[0].CPUPercent)
	}

	clock.now = clock.now.Add(time.Second)
	got = tracker.Observe([]domain.ProcessReading{{PID: 2, BusyTime: 2 * time.Second}}, 1)
	if got[0].CPUPercent != 0 {
		t.Errorf("expected a pid seen again after vanishing to start fresh, got %v", got[0].CPUPercent)
	}
}

func TestNetworkTracker_Observe(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	tracker := NewNetworkTracker(clock.Now)

	first := tracker.Observe([]domain.NetworkReading{
		{Name: "eth0", Received: 1000, Transmitted: 100},
		{Name: "lo", Received: 500, Transmitted: 500},
	})
	if first.Received != 1500 || first.Transmitted != 600 {
		t.Errorf("expected summed totals, got %+v", first)
	}
	if first.ReceivedRate != 0 || first.TransmittedRate != 0 {
		t.Errorf("expected zero rates on first observation, got %+v", first)
	}

	clock.now = clock.now.Add(2 * time.Second)
	second := tracker.Observe([]domain.NetworkReading{
		{Name: "eth0", Received: 3000, Transmitted: 300},
		{Name: "lo", Received: 500, Transmitted: 500},
	})
	if second.ReceivedRate != 1000 || second.TransmittedRate != 100 {
		t.Errorf("expected 1000/100 B/s, got %+v", second)
	}

	clock.now = clock.now.Add(time.Second)
	third := tracker.Observe([]domain.NetworkReading{{Name: "eth0", Received: 10, Transmitted: 10}})
	if third.ReceivedRate != 0 || third.TransmittedRate != 0 {
		t.Errorf("expected zero rates after counter reset, got %+v", third)
	}
}
