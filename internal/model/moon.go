package model

// MoonPhase describes the moon on a single calendar day.
type MoonPhase struct {
	Date          string  `json:"date"`
	PhaseName     string  `json:"phase_name"`
	PhaseEmoji    string  `json:"phase_emoji"`
	Illumination  float64 `json:"illumination"`
	DaysUntilFull int     `json:"days_until_full"`
	DaysUntilNew  int     `json:"days_until_new"`
	Meaning       string  `json:"meaning"`
}

type MoonCalendar struct {
	Year      int         `json:"year"`
	Month     int         `json:"month"`
	MonthName string      `json:"month_name"`
	Phases    []MoonPhase `json:"phases"`
}

// UpcomingMoonPhase marks the next new or full moon.
type UpcomingMoonPhase struct {
	Date       string `json:"date"`
	PhaseName  string `json:"phase_name"`
	PhaseEmoji string `json:"phase_emoji"`
	DaysUntil  int    `json:"days_until"`
}
