package timectrl

import (
	"sync"
	"time"
)

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime advances according to wall-clock time.
	RealTime Mode = iota
	// Accelerated advances as quickly as the loop can run while
	// still stepping by Tick.
	Accelerated
)

// TimeController drives the host side of the simulation loop. The
// engine itself has no knowledge of its timing source: it only sees
// Tick(deltaMs) calls, so a controller, a render callback, or a test
// harness stepping manually are all interchangeable hosts.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time

	listeners []func(simTime time.Time, delta time.Duration)
}

// NewTimeController constructs a controller.
func NewTimeController(start time.Time, tick time.Duration, mode Mode) *TimeController {
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// AddListener registers a callback invoked on every step with the new
// simulation time and the step delta.
func (tc *TimeController) AddListener(fn func(time.Time, time.Duration)) {
	tc.listeners = append(tc.listeners, fn)
}

// Step advances simulation time by one tick and notifies listeners.
// Hosts that own their own loop (or tests) can call it directly.
func (tc *TimeController) Step() time.Time {
	tc.mu.Lock()
	tc.currentTime = tc.currentTime.Add(tc.Tick)
	simTime := tc.currentTime
	tc.mu.Unlock()

	for _, fn := range tc.listeners {
		fn(simTime, tc.Tick)
	}
	return simTime
}

// Start runs the controller for the specified duration of simulation
// time in a separate goroutine; a zero duration runs forever. The
// returned channel is closed when the controller finishes.
func (tc *TimeController) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		elapsed := time.Duration(0)

		var ticker *time.Ticker
		if tc.Mode == RealTime {
			ticker = time.NewTicker(tc.Tick)
			defer ticker.Stop()
		}

		for {
			if duration > 0 && elapsed >= duration {
				return
			}
			if ticker != nil {
				<-ticker.C
			}
			tc.Step()
			elapsed += tc.Tick
		}
	}()
	return done
}
