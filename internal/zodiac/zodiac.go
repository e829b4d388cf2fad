package zodiac

import "time"

// Sign describes one sign of the zodiac. StartMonth/StartDay and
// EndMonth/EndDay bound the date range; Capricorn wraps the year boundary.
type Sign struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Element    string `json:"element"`
	StartMonth int    `json:"start_month"`
	StartDay   int    `json:"start_day"`
	EndMonth   int    `json:"end_month"`
	EndDay     int    `json:"end_day"`
}

var signs = []Sign{
	{ID: "aries", Name: "Aries", Symbol: "♈", Element: "Fire", StartMonth: 3, StartDay: 21, EndMonth: 4, EndDay: 19},
	{ID: "taurus", Name: "Taurus", Symbol: "♉", Element: "Earth", StartMonth: 4, StartDay: 20, EndMonth: 5, EndDay: 20},
	{ID: "gemini", Name: "Gemini", Symbol: "♊", Element: "Air", StartMonth: 5, StartDay: 21, EndMonth: 6, EndDay: 20},
	{ID: "cancer", Name: "Cancer", Symbol: "♋", Element: "Water", StartMonth: 6, StartDay: 21, EndMonth: 7, EndDay: 22},
	{ID: "leo", Name: "Leo", Symbol: "♌", Element: "Fire", StartMonth: 7, StartDay: 23, EndMonth: 8, EndDay: 22},
	{ID: "virgo", Name: "Virgo", Symbol: "♍", Element: "Earth", StartMonth: 8, StartDay: 23, EndMonth: 9, EndDay: 22},
	{ID: "libra", Name: "Libra", Symbol: "♎", Element: "Air", StartMonth: 9, StartDay: 23, EndMonth: 10, EndDay: 22},
	{ID: "scorpio", Name: "Scorpio", Symbol: "♏", Element: "Water", StartMonth: 10, StartDay: 23, EndMonth: 11, EndDay: 21},
	{ID: "sagittarius", Name: "Sagittarius", Symbol: "♐", Element: "Fire", StartMonth: 11, StartDay: 22, EndMonth: 12, EndDay: 21},
	{ID: "capricorn", Name: "Capricorn", Symbol: "♑", Element: "Earth", StartMonth: 12, StartDay: 22, EndMonth: 1, EndDay: 19},
	{ID: "aquarius", Name: "Aquarius", Symbol: "♒", Element: "Air", StartMonth: 1, StartDay: 20, EndMonth: 2, EndDay: 18},
	{ID: "pisces", Name: "Pisces", Symbol: "♓", Element: "Water", StartMonth: 2, StartDay: 19, EndMonth: 3, EndDay: 20},
}

// All returns every sign in zodiacal order.
func All() []Sign {
	out := make([]Sign, len(signs))
	copy(out, signs)
	return out
}

// ByID looks up a sign by its identifier.
func ByID(id string) (Sign, bool) {
	for _, s := range signs {
		if s.ID == id {
			return s, true
		}
	}
	return Sign{}, false
}

// SignFromDate returns the sign covering the given birth date.
func SignFromDate(birthDate time.Time) Sign {
	month := int(birthDate.Month())
	day := birthDate.Day()

	for _, s := range signs {
		if s.StartMonth > s.EndMonth {
			// Wraps the year boundary (Capricorn).
			if (month == s.StartMonth && day >= s.StartDay) || (month == s.EndMonth && day <= s.EndDay) {
				return s
			}
			continue
		}

		if (month == s.StartMonth && day >= s.StartDay) || (month == s.EndMonth && day <= s.EndDay) {
			return s
		}
	}

	// Unreachable: the ranges cover the whole year.
	return signs[9]
}
