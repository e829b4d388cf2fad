package model

// LifePathMeaning interprets a life path number. Master numbers 11, 22
// and 33 get their own entries.
type LifePathMeaning struct {
	Title       string   `json:"title"`
	Traits      []string `json:"traits"`
	Description string   `json:"description"`
	Strengths   []string `json:"strengths"`
	Challenges  []string `json:"challenges"`
	LifePurpose string   `json:"life_purpose"`
}

// PersonalDayMeaning interprets a personal day number (1-9).
type PersonalDayMeaning struct {
	Title       string   `json:"title"`
	Energy      string   `json:"energy"`
	Guidance    string   `json:"guidance"`
	Affirmation string   `json:"affirmation"`
	Focus       []string `json:"focus"`
	Avoid       []string `json:"avoid"`
}

// NumerologyReading is the daily reading derived from the user's birth
// date and the current date in their timezone.
type NumerologyReading struct {
	LifePathNumber     int                `json:"life_path_number"`
	LifePathMeaning    LifePathMeaning    `json:"life_path_meaning"`
	PersonalYear       int                `json:"personal_year"`
	PersonalMonth      int                `json:"personal_month"`
	PersonalDay        int                `json:"personal_day"`
	PersonalDayMeaning PersonalDayMeaning `json:"personal_day_meaning"`
	DestinyNumber      int                `json:"destiny_number"`
	SoulNumber         int                `json:"soul_number"`
	PersonalityNumber  int                `json:"personality_number"`
}
