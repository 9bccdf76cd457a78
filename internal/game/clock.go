package game

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cadence identifies one of the periodic schedules of the survival clock
type Cadence int

const (
	CadenceTimeOfDay Cadence = iota
	CadenceWeather
	CadenceSurvival
)

func (c Cadence) String() string {
	switch c {
	case CadenceTimeOfDay:
		return "time_of_day"
	case CadenceWeather:
		return "weather"
	case CadenceSurvival:
		return "survival"
	}
	return "unknown"
}

// TickHandler runs on every tick of the cadence it is subscribed to
type TickHandler func()

// Clock issues discrete tick events on three independent cadences. All ticks of a
// clock are delivered from a single goroutine, one at a time.
type Clock struct {
	mu        sync.Mutex
	intervals map[Cadence]time.Duration
	handlers  map[Cadence][]TickHandler
	stopChan  chan struct{}
	doneChan  chan struct{}
	running   bool
	Logger    *zap.Logger
}

// Default periods, used for non-positive intervals
const (
	DefaultTimeOfDayInterval = 45 * time.Second
	DefaultWeatherInterval   = 60 * time.Second
	DefaultSurvivalInterval  = 5 * time.Second
)

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// NewClock creates a stopped clock with the given periods
func NewClock(timeOfDay, weather, survival time.Duration) *Clock {
	return &Clock{
		intervals: map[Cadence]time.Duration{
			CadenceTimeOfDay: orDefault(timeOfDay, DefaultTimeOfDayInterval),
			CadenceWeather:   orDefault(weather, DefaultWeatherInterval),
			CadenceSurvival:  orDefault(survival, DefaultSurvivalInterval),
		},
		handlers: make(map[Cadence][]TickHandler),
		Logger:   zap.NewNop(),
	}
}

// Subscribe registers a handler for a cadence
func (c *Clock) Subscribe(cadence Cadence, h TickHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[cadence] = append(c.handlers[cadence], h)
}

// Running reports whether the clock is armed
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Start arms the clock. Starting a running clock is a no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.stopChan = make(chan struct{})
	c.doneChan = make(chan struct{})

	tod := time.NewTicker(c.intervals[CadenceTimeOfDay])
	weather := time.NewTicker(c.intervals[CadenceWeather])
	survival := time.NewTicker(c.intervals[CadenceSurvival])
	stop := c.stopChan
	done := c.doneChan

	go func() {
		defer close(done)
		defer tod.Stop()
		defer weather.Stop()
		defer survival.Stop()
		for {
			select {
			case <-tod.C:
				c.dispatch(stop, CadenceTimeOfDay)
			case <-weather.C:
				c.dispatch(stop, CadenceWeather)
			case <-survival.C:
				c.dispatch(stop, CadenceSurvival)
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the clock. It never waits for a running handler, so it may be called
// from inside one.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	close(c.stopChan)
	c.running = false
}

// StopAndWait halts the clock and blocks until a tick being delivered has
// returned. Calling it from a tick handler deadlocks.
func (c *Clock) StopAndWait() {
	c.Stop()
	c.mu.Lock()
	done := c.doneChan
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Fire delivers a synthetic tick synchronously
func (c *Clock) Fire(cadence Cadence) {
	for _, h := range c.subscribers(cadence) {
		h()
	}
}

// dispatch delivers a real tick unless the clock was stopped in the meantime
func (c *Clock) dispatch(stop chan struct{}, cadence Cadence) {
	select {
	case <-stop:
		return
	default:
	}
	c.Logger.Debug("Clock tick", zap.Stringer("cadence", cadence))
	c.Fire(cadence)
}

func (c *Clock) subscribers(cadence Cadence) []TickHandler {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]TickHandler(nil), c.handlers[cadence]...)
}
