package model

import "time"

const (
	TarotPositionSingle  = "single"
	TarotPositionPast    = "past"
	TarotPositionPresent = "present"
	TarotPositionFuture  = "future"
)

const (
	TarotSpreadSingle    = "single"
	TarotSpreadThreeCard = "three_card"
)

// TarotCard is one card of the Major Arcana deck.
type TarotCard struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Number   int    `json:"number"`
	ImageURL string `json:"image_url"`
}

// TarotReading is a persisted draw of a single card.
type TarotReading struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	CardID      string    `json:"card_id"`
	IsReversed  bool      `json:"is_reversed"`
	Position    string    `json:"position"`
	ReadingDate time.Time `json:"reading_date"`
}

// DrawnCard pairs a reading with the card it refers to.
type DrawnCard struct {
	Card       TarotCard `json:"card"`
	IsReversed bool      `json:"is_reversed"`
	Position   string    `json:"position"`
}
