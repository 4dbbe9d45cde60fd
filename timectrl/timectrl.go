package timectrl

import (
	"sync"
	"time"
)

// MissionClock is the read-only view of mission time that the trajectory
// loop and the API layer depend on.
type MissionClock interface {
	// Now returns the current simulated mission time.
	Now() time.Time
	// ElapsedDays returns how many simulated days have passed since the
	// mission epoch. This is the value fed to the trajectory model.
	ElapsedDays() float64
}

// TimeController drives mission time and notifies registered listeners. A
// wall-clock tick advances simulated time by Tick*TimeScale, so a countdown
// of years can play out in minutes.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration

	// TimeScale is simulated seconds per wall second. 1 plays in real
	// time; large values compress a multi-year approach into a demo.
	TimeScale float64

	currentTime time.Time

	listeners []func(time.Time)
}

// NewTimeController constructs a controller at the mission epoch.
func NewTimeController(start time.Time, tick time.Duration, timeScale float64) *TimeController {
	if timeScale <= 0 {
		timeScale = 1
	}
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		TimeScale:   timeScale,
		currentTime: start,
	}
}

// Now returns the current mission time. Implements MissionClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// ElapsedDays implements MissionClock.
func (tc *TimeController) ElapsedDays() float64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime.Sub(tc.StartTime).Hours() / 24
}

// SetElapsedDays seeks mission time to the given number of days past the
// epoch and notifies listeners so trajectory state refreshes immediately,
// without waiting for the next tick.
func (tc *TimeController) SetElapsedDays(days float64) {
	tc.mu.Lock()
	tc.currentTime = tc.StartTime.Add(time.Duration(days * 24 * float64(time.Hour)))
	simTime := tc.currentTime
	tc.mu.Unlock()

	for _, fn := range tc.listeners {
		fn(simTime)
	}
}

// AddListener registers a callback invoked with the mission time on every
// tick. Register listeners before Start; the slice is not guarded.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.listeners = append(tc.listeners, fn)
}

// Start runs the controller until wallDuration of wall-clock time has
// passed, or forever when wallDuration is zero. It returns a channel that
// is closed when the controller finishes, and a stop function.
func (tc *TimeController) Start(wallDuration time.Duration) (<-chan struct{}, func()) {
	done := make(chan struct{})
	quit := make(chan struct{})
	var stopOnce sync.Once
	stop := func() { stopOnce.Do(func() { close(quit) }) }

	go func() {
		defer close(done)

		ticker := time.NewTicker(tc.Tick)
		defer ticker.Stop()

		step := time.Duration(float64(tc.Tick) * tc.TimeScale)
		elapsed := time.Duration(0)

		for {
			if wallDuration > 0 && elapsed >= wallDuration {
				return
			}

			select {
			case <-quit:
				return
			case <-ticker.C:
			}
			elapsed += tc.Tick

			tc.mu.Lock()
			tc.currentTime = tc.currentTime.Add(step)
			simTime := tc.currentTime
			tc.mu.Unlock()

			for _, fn := range tc.listeners {
				fn(simTime)
			}
		}
	}()
	return done, stop
}
