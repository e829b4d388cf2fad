package service

import (
	"math"
	"time"

	"horoscope-api/internal/model"
)

// Synodic month approximation anchored on the new moon of 2000-01-06.
const lunarCycleDays = 29.53058867

var lunarEpoch = time.Date(2000, time.January, 6, 0, 0, 0, 0, time.UTC)

type moonPhaseInfo struct {
	name  string
	emoji string
}

var moonPhases = [8]moonPhaseInfo{
	{"New Moon", "🌑"},
	{"Waxing Crescent", "🌒"},
	{"First Quarter", "🌓"},
	{"Waxing Gibbous", "🌔"},
	{"Full Moon", "🌕"},
	{"Waning Gibbous", "🌖"},
	{"Last Quarter", "🌗"},
	{"Waning Crescent", "🌘"},
}

var moonPhaseMeanings = map[string]string{
	"New Moon":        "A time for new beginnings, setting intentions, and planting seeds for the future. Perfect for starting fresh projects and manifesting desires.",
	"Waxing Crescent": "Energy is building. Take action on your intentions. This is a time for courage, motivation, and moving forward with plans.",
	"First Quarter":   "A time of decision and commitment. You may face challenges that test your resolve. Push through obstacles with determination.",
	"Waxing Gibbous":  "Refine and adjust your approach. Trust the process and stay focused. Success is building momentum.",
	"Full Moon":       "Peak energy and illumination. Emotions run high. A time for celebration, gratitude, and releasing what no longer serves you.",
	"Waning Gibbous":  "Time for gratitude and sharing wisdom. Reflect on lessons learned and give back to others.",
	"Last Quarter":    "Release and let go. Clear out the old to make room for the new. Forgiveness and closure are favored.",
	"Waning Crescent": "Rest, restore, and surrender. Prepare for the next cycle. Meditation and introspection are powerful now.",
}

// MoonService computes moon phases from the synodic cycle. Everything
// here is a pure function of the calendar date.
type MoonService struct{}

func NewMoonService() *MoonService {
	return &MoonService{}
}

func (s *MoonService) Current() model.MoonPhase {
	now := time.Now().UTC()
	return s.phaseFor(now.Year(), now.Month(), now.Day())
}

func (s *MoonService) ForDate(year int, month int, day int) (model.MoonPhase, error) {
	if !validDate(year, month, day) {
		return model.MoonPhase{}, model.ErrInvalidInput
	}
	return s.phaseFor(year, time.Month(month), day), nil
}

func (s *MoonService) Calendar(year int, month int) (model.MoonCalendar, error) {
	if month < 1 || month > 12 || year < 1 {
		return model.MoonCalendar{}, model.ErrInvalidInput
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	phases := make([]model.MoonPhase, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		phases = append(phases, s.phaseFor(year, time.Month(month), day))
	}

	return model.MoonCalendar{
		Year:      year,
		Month:     month,
		MonthName: first.Month().String(),
		Phases:    phases,
	}, nil
}

// Upcoming scans ahead for the next new and full moons.
func (s *MoonService) Upcoming() []model.UpcomingMoonPhase {
	today := time.Now().UTC()
	upcoming := make([]model.UpcomingMoonPhase, 0, 2)
	seen := map[string]bool{}

	for offset := 0; offset < 60; offset++ {
		d := today.AddDate(0, 0, offset)
		phase := s.phaseFor(d.Year(), d.Month(), d.Day())

		if (phase.PhaseName == "New Moon" || phase.PhaseName == "Full Moon") && !seen[phase.PhaseName] {
			seen[phase.PhaseName] = true
			upcoming = append(upcoming, model.UpcomingMoonPhase{
				Date:       phase.Date,
				PhaseName:  phase.PhaseName,
				PhaseEmoji: phase.PhaseEmoji,
				DaysUntil:  offset,
			})
		}
		if len(upcoming) == 2 {
			break
		}
	}
	return upcoming
}

func (s *MoonService) phaseFor(year int, month time.Month, day int) model.MoonPhase {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	daysSince := date.Sub(lunarEpoch).Hours() / 24

	position := math.Mod(daysSince, lunarCycleDays)
	if position < 0 {
		position += lunarCycleDays
	}

	index := int(position/lunarCycleDays*8) % 8
	half := lunarCycleDays / 2

	// Illumination rises linearly to 100% at the full moon, then falls.
	var illumination float64
	if position < half {
		illumination = position / half * 100
	} else {
		illumination = (lunarCycleDays - position) / half * 100
	}

	daysToFull := math.Mod(half-position+lunarCycleDays, lunarCycleDays)
	if daysToFull > half {
		daysToFull = lunarCycleDays - daysToFull
	}

	daysToNew := math.Mod(lunarCycleDays-position, lunarCycleDays)
	if daysToNew == 0 {
		daysToNew = lunarCycleDays
	}

	phase := moonPhases[index]
	return model.MoonPhase{
		Date:          date.Format("2006-01-02"),
		PhaseName:     phase.name,
		PhaseEmoji:    phase.emoji,
		Illumination:  math.Round(illumination*10) / 10,
		DaysUntilFull: int(daysToFull),
		DaysUntilNew:  int(daysToNew),
		Meaning:       moonPhaseMeanings[phase.name],
	}
}

// validDate rejects dates that time.Date would silently normalize,
// like February 30.
func validDate(year int, month int, day int) bool {
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return d.Year() == year && int(d.Month()) == month && d.Day() == day
}
