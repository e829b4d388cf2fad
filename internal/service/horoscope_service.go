package service

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"horoscope-api/internal/model"
	"horoscope-api/internal/zodiac"
)

var horoscopeMessages = []string{
	"The stars align in your favor today. Trust your instincts and take bold action.",
	"A period of reflection begins. Take time to assess your goals and realign your path.",
	"New opportunities emerge on the horizon. Stay open to unexpected possibilities.",
	"Your creative energy peaks today. Channel it into your passion projects.",
	"Communication flows smoothly. It's an ideal day for important conversations.",
	"Focus on self-care and inner peace. Your well-being is the foundation of success.",
	"Financial matters require attention. Review your resources and plan wisely.",
	"Love and relationships take center stage. Express your feelings openly.",
	"Your determination will overcome any obstacles. Stay focused on your goals.",
	"A surprise encounter may change your perspective. Embrace new connections.",
}

var moods = []string{"Energetic", "Reflective", "Adventurous", "Creative", "Peaceful", "Ambitious"}

var weeklyThemes = []string{"exciting opportunities", "time for reflection", "new connections", "creative energy"}

var focusAreas = []string{"Love", "Career", "Health", "Finance", "Personal Growth"}

var weeklyChallenges = []string{"Patience", "Communication", "Balance", "Focus", "Trust"}

// elementScores is the base compatibility per element pairing; lookups are
// order-insensitive.
var elementScores = map[[2]string]int{
	{"Fire", "Fire"}:   85,
	{"Fire", "Air"}:    90,
	{"Fire", "Earth"}:  50,
	{"Fire", "Water"}:  60,
	{"Air", "Air"}:     80,
	{"Air", "Earth"}:   55,
	{"Air", "Water"}:   65,
	{"Earth", "Earth"}: 85,
	{"Earth", "Water"}: 90,
	{"Water", "Water"}: 80,
}

// HoroscopeService generates daily, weekly and compatibility readings.
// Content is a pure function of the sign and the date, so repeated requests
// on the same day return the same reading.
type HoroscopeService struct{}

func NewHoroscopeService() *HoroscopeService {
	return &HoroscopeService{}
}

// Daily returns the reading for a sign. day is "yesterday", "today" (default)
// or "tomorrow".
func (s *HoroscopeService) Daily(signID string, day string) (model.DailyHoroscope, error) {
	sign, ok := zodiac.ByID(signID)
	if !ok {
		return model.DailyHoroscope{}, model.ErrUnknownSign
	}

	date := time.Now().UTC()
	switch day {
	case "yesterday":
		date = date.AddDate(0, 0, -1)
	case "tomorrow":
		date = date.AddDate(0, 0, 1)
	case "", "today":
	default:
		return model.DailyHoroscope{}, model.ErrInvalidInput
	}

	rng := seededRand(int64(dayOrdinal(date)) + hashString(signID))

	meridiem := "AM"
	if rng.Float64() >= 0.5 {
		meridiem = "PM"
	}

	return model.DailyHoroscope{
		SignID:      signID,
		Sign:        sign,
		Date:        date.Format("2006-01-02"),
		Content:     horoscopeMessages[rng.Intn(len(horoscopeMessages))],
		Mood:        moods[rng.Intn(len(moods))],
		LuckyTime:   fmt.Sprintf("%d:00 %s", 1+rng.Intn(12), meridiem),
		LuckyNumber: 1 + rng.Intn(99),
		Rating:      3 + rng.Intn(3),
	}, nil
}

// Weekly returns the reading for the current ISO week.
func (s *HoroscopeService) Weekly(signID string) (model.WeeklyHoroscope, error) {
	sign, ok := zodiac.ByID(signID)
	if !ok {
		return model.WeeklyHoroscope{}, model.ErrUnknownSign
	}

	now := time.Now().UTC()
	year, week := now.ISOWeek()
	rng := seededRand(int64(year*100+week) + hashString(signID))

	theme := weeklyThemes[rng.Intn(len(weeklyThemes))]
	content := fmt.Sprintf("This week brings %s for %s. %s",
		theme, sign.Name, horoscopeMessages[rng.Intn(len(horoscopeMessages))])

	return model.WeeklyHoroscope{
		SignID:     signID,
		Sign:       sign,
		Week:       week,
		Year:       year,
		Content:    content,
		FocusAreas: sample(rng, focusAreas, 3),
		Challenges: sample(rng, weeklyChallenges, 2),
	}, nil
}

// Compatibility scores a pairing from the element table with seeded
// variation, clamped to sensible bands.
func (s *HoroscopeService) Compatibility(sign1ID string, sign2ID string) (model.Compatibility, error) {
	sign1, ok := zodiac.ByID(sign1ID)
	if !ok {
		return model.Compatibility{}, model.ErrUnknownSign
	}
	sign2, ok := zodiac.ByID(sign2ID)
	if !ok {
		return model.Compatibility{}, model.ErrUnknownSign
	}

	base := elementScore(sign1.Element, sign2.Element)

	// Seed on the sorted pair so leo/aries scores the same as aries/leo.
	low, high := sign1ID, sign2ID
	if low > high {
		low, high = high, low
	}
	rng := seededRand(hashString(low + "_" + high))

	overall := clamp(base+rng.Intn(21)-10, 40, 98)

	var quality string
	switch {
	case base > 80:
		quality = "share great natural chemistry"
	case base > 60:
		quality = "can create balance with effort"
	default:
		quality = "have an interesting dynamic"
	}

	return model.Compatibility{
		Sign1:              sign1,
		Sign2:              sign2,
		OverallScore:       overall,
		LoveScore:          clamp(overall+rng.Intn(31)-15, 40, 98),
		FriendshipScore:    clamp(overall+rng.Intn(21)-10, 50, 98),
		CommunicationScore: clamp(overall+rng.Intn(25)-12, 45, 98),
		Summary: fmt.Sprintf("%s (%s) and %s (%s) %s.",
			sign1.Name, sign1.Element, sign2.Name, sign2.Element, quality),
	}, nil
}

func elementScore(a string, b string) int {
	if score, ok := elementScores[[2]string{a, b}]; ok {
		return score
	}
	if score, ok := elementScores[[2]string{b, a}]; ok {
		return score
	}
	return 70
}

func seededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func hashString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

func dayOrdinal(t time.Time) int {
	return t.Year()*1000 + t.YearDay()
}

func sample(rng *rand.Rand, options []string, n int) []string {
	shuffled := make([]string, len(options))
	copy(shuffled, options)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

func clamp(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
