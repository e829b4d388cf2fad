package model

import "horoscope-api/internal/zodiac"

type DailyHoroscope struct {
	SignID      string      `json:"sign_id"`
	Sign        zodiac.Sign `json:"sign"`
	Date        string      `json:"date"`
	Content     string      `json:"content"`
	Mood        string      `json:"mood"`
	LuckyTime   string      `json:"lucky_time"`
	LuckyNumber int         `json:"lucky_number"`
	Rating      int         `json:"rating"`
}

type WeeklyHoroscope struct {
	SignID     string      `json:"sign_id"`
	Sign       zodiac.Sign `json:"sign"`
	Week       int         `json:"week"`
	Year       int         `json:"year"`
	Content    string      `json:"content"`
	FocusAreas []string    `json:"focus_areas"`
	Challenges []string    `json:"challenges"`
}

type Compatibility struct {
	Sign1              zodiac.Sign `json:"sign1"`
	Sign2              zodiac.Sign `json:"sign2"`
	OverallScore       int         `json:"overall_score"`
	LoveScore          int         `json:"love_score"`
	FriendshipScore    int         `json:"friendship_score"`
	CommunicationScore int         `json:"communication_score"`
	Summary            string      `json:"summary"`
}
