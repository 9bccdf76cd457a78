package game

import (
	"github.com/user/hsk-life/internal/content"
	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
)

const (
	hungerDecay       = 2
	thirstDecay       = 3
	staminaRegen      = 1
	starvationDamage  = 2
	dehydrationDamage = 3
	sicknessDamage    = 1
	sicknessFatigue   = 5
	hauntingPenalty   = 1
	ghostAgeStep      = 5
)

// advanceTimeOfDay moves the day cycle forward
func (s *Session) advanceTimeOfDay() {
	var next types.TimeOfDay
	err := s.store.Update(func(st *State) error {
		st.TimeOfDay = st.TimeOfDay.Next()
		next = st.TimeOfDay
		return nil
	})
	if err == nil {
		s.Logger.Debug("Time of day advanced", zap.String("time_of_day", string(next)))
	}
}

// rollWeather re-rolls the weather. Only a sunny to rainy transition is announced.
func (s *Session) rollWeather() {
	next := types.WeatherSunny
	if chance(s.dice, s.cfg.RainProbability) {
		next = types.WeatherRainy
	}

	var fx effects
	var changed bool
	err := s.store.Update(func(st *State) error {
		changed = st.Weather != next
		if next == types.WeatherRainy && st.Weather != types.WeatherRainy {
			fx.notify("It started raining! Buy an umbrella!")
			fx.sound(types.SoundRain)
		}
		st.Weather = next
		return nil
	})
	if err != nil {
		return
	}
	if changed {
		s.Logger.Info("Weather changed", zap.String("weather", string(next)))
	}
	s.emit(fx)
}

// survivalTick applies one step of decay and hazards as a single transform
func (s *Session) survivalTick() {
	var fx effects
	var caught bool
	err := s.store.Update(func(st *State) error {
		caught = survive(st, s.dice, s.cfg.SicknessProbability, &fx)
		return nil
	})
	if err != nil {
		return
	}
	if caught {
		s.Logger.Info("Player caught a cold")
	}
	s.emit(fx)
}

// survive mutates st for one survival tick and reports whether the player got sick
func survive(st *State, dice Dice, sicknessProbability float64, fx *effects) bool {
	stats := &st.Stats
	defer ageGhosts(st)

	bump(&stats.Hunger, -hungerDecay)
	bump(&stats.Thirst, -thirstDecay)
	bump(&stats.Stamina, staminaRegen)

	if stats.Hunger == 0 {
		bump(&stats.Health, -starvationDamage)
	}
	if stats.Thirst == 0 {
		bump(&stats.Health, -dehydrationDamage)
	}
	if stats.Health == 0 {
		return false
	}

	caught := false
	if st.Weather == types.WeatherRainy && !hasRainGear(st) &&
		st.Mode == types.ModeExploring && !stats.IsSick {
		if chance(dice, sicknessProbability) {
			stats.IsSick = true
			caught = true
			fx.notify("You caught a cold! Visit Dr. Zhang.")
		}
	}

	if stats.IsSick {
		bump(&stats.Health, -sicknessDamage)
		bump(&stats.Stamina, -sicknessFatigue)
	}
	if stats.Health == 0 {
		return caught
	}

	if len(st.Ghosts) > 0 {
		bump(&stats.Face, -hauntingPenalty)
	}
	return caught
}

func hasRainGear(st *State) bool {
	for _, id := range content.RainGear {
		if st.HasItem(id) {
			return true
		}
	}
	return false
}

func ageGhosts(st *State) {
	for i := range st.Ghosts {
		st.Ghosts[i].Age += ghostAgeStep
	}
}
