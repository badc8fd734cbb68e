package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"timebox/internal/platform/clock"
	"timebox/internal/platform/daytime"
)

const (
	WindowDays    = 7
	maxStreakDays = 365
	infinite      = "infinite"
)

// Ratio is the input/output minutes ratio. With output at zero and input
// above zero it is infinite, which is encoded as the string "infinite".
type Ratio struct {
	Value    float64
	Infinite bool
}

func IORatio(inputMinutes, outputMinutes int) Ratio {
	if outputMinutes == 0 {
		if inputMinutes == 0 {
			return Ratio{Value: 1}
		}
		return Ratio{Infinite: true}
	}
	return Ratio{Value: math.Round(float64(inputMinutes)/float64(outputMinutes)*100) / 100}
}

func (r Ratio) String() string {
	if r.Infinite {
		return "∞"
	}
	return fmt.Sprintf("%.2f", r.Value)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.Infinite {
		return json.Marshal(infinite)
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON also reads null as infinite, which is how infinity ends up
// after a plain JSON round trip.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*r = Ratio{Infinite: true}
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if s == infinite || s == "Infinity" {
			*r = Ratio{Infinite: true}
			return nil
		}
		return fmt.Errorf("invalid io ratio %q", s)
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*r = Ratio{Value: v}
	return nil
}

type Stats struct {
	EffectiveMinutes7d     []int `json:"effectiveMinutes7d"`
	IORatio                Ratio `json:"ioRatio"`
	DiscomfortHandledCount int   `json:"discomfortHandledCount"`
	StreakDays             int   `json:"streakDays"`
	TenMinRuleCount        int   `json:"tenMinRuleCount"`
}

func Defaults() Stats {
	return Stats{EffectiveMinutes7d: make([]int, WindowDays), IORatio: Ratio{Value: 1}}
}

// Normalize pads or trims the minutes window to seven slots.
func Normalize(s Stats) Stats {
	switch {
	case len(s.EffectiveMinutes7d) > WindowDays:
		s.EffectiveMinutes7d = s.EffectiveMinutes7d[len(s.EffectiveMinutes7d)-WindowDays:]
	case len(s.EffectiveMinutes7d) < WindowDays:
		padded := make([]int, WindowDays-len(s.EffectiveMinutes7d), WindowDays)
		s.EffectiveMinutes7d = append(padded, s.EffectiveMinutes7d...)
	}
	return s
}

// RecordEffectiveMinutes drops the oldest slot and appends minutes as today.
func (s *Stats) RecordEffectiveMinutes(minutes int) {
	*s = Normalize(*s)
	s.EffectiveMinutes7d = append(append([]int{}, s.EffectiveMinutes7d[1:]...), minutes)
}

// Sample is the part of a session the aggregator reads.
type Sample struct {
	Completed   bool
	EndEpoch    int64
	DurationSec int
	Input       bool
	UrgeDelays  int
	Discomforts int
}

func roundMinutes(durationSec int) int {
	return int(math.Round(float64(durationSec) / 60))
}

// Recalculate rebuilds every figure from the session log. Calendar days
// are taken in now's location; the window runs oldest to today.
func Recalculate(samples []Sample, now time.Time) Stats {
	loc := now.Location()
	today := daytime.StartOfDay(now)

	perDay := map[string]int{}
	active := map[string]bool{}
	var input, output, urges, discomforts int
	for _, s := range samples {
		if !s.Completed {
			continue
		}
		minutes := roundMinutes(s.DurationSec)
		if s.Input {
			input += minutes
		} else {
			output += minutes
		}
		urges += s.UrgeDelays
		discomforts += s.Discomforts
		if s.EndEpoch == 0 {
			continue
		}
		key := daytime.DateKey(clock.FromEpoch(s.EndEpoch, loc))
		perDay[key] += minutes
		active[key] = true
	}

	window := make([]int, 0, WindowDays)
	for i := WindowDays - 1; i >= 0; i-- {
		window = append(window, perDay[daytime.DateKey(today.AddDate(0, 0, -i))])
	}

	streak := 0
	for i := 0; i < maxStreakDays; i++ {
		if !active[daytime.DateKey(today.AddDate(0, 0, -i))] {
			break
		}
		streak++
	}

	return Stats{
		EffectiveMinutes7d:     window,
		IORatio:                IORatio(input, output),
		DiscomfortHandledCount: discomforts,
		StreakDays:             streak,
		TenMinRuleCount:        urges,
	}
}
