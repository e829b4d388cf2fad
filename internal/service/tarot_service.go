package service

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"horoscope-api/internal/event"
	"horoscope-api/internal/model"
	"horoscope-api/pkg/apierror"
)

const tarotImageBase = "https://www.sacred-texts.com/tarot/pkt/img"

const (
	tarotDefaultLimit = 50
	tarotMaxLimit     = 100
)

// majorArcana is the 22-card deck served by /tarot/cards and drawn from by
// /tarot/draw.
var majorArcana = []model.TarotCard{
	{ID: "fool", Name: "The Fool", Number: 0, ImageURL: tarotImageBase + "/ar00.jpg"},
	{ID: "magician", Name: "The Magician", Number: 1, ImageURL: tarotImageBase + "/ar01.jpg"},
	{ID: "priestess", Name: "The High Priestess", Number: 2, ImageURL: tarotImageBase + "/ar02.jpg"},
	{ID: "empress", Name: "The Empress", Number: 3, ImageURL: tarotImageBase + "/ar03.jpg"},
	{ID: "emperor", Name: "The Emperor", Number: 4, ImageURL: tarotImageBase + "/ar04.jpg"},
	{ID: "hierophant", Name: "The Hierophant", Number: 5, ImageURL: tarotImageBase + "/ar05.jpg"},
	{ID: "lovers", Name: "The Lovers", Number: 6, ImageURL: tarotImageBase + "/ar06.jpg"},
	{ID: "chariot", Name: "The Chariot", Number: 7, ImageURL: tarotImageBase + "/ar07.jpg"},
	{ID: "strength", Name: "Strength", Number: 8, ImageURL: tarotImageBase + "/ar08.jpg"},
	{ID: "hermit", Name: "The Hermit", Number: 9, ImageURL: tarotImageBase + "/ar09.jpg"},
	{ID: "wheel", Name: "Wheel of Fortune", Number: 10, ImageURL: tarotImageBase + "/ar10.jpg"},
	{ID: "justice", Name: "Justice", Number: 11, ImageURL: tarotImageBase + "/ar11.jpg"},
	{ID: "hanged", Name: "The Hanged Man", Number: 12, ImageURL: tarotImageBase + "/ar12.jpg"},
	{ID: "death", Name: "Death", Number: 13, ImageURL: tarotImageBase + "/ar13.jpg"},
	{ID: "temperance", Name: "Temperance", Number: 14, ImageURL: tarotImageBase + "/ar14.jpg"},
	{ID: "devil", Name: "The Devil", Number: 15, ImageURL: tarotImageBase + "/ar15.jpg"},
	{ID: "tower", Name: "The Tower", Number: 16, ImageURL: tarotImageBase + "/ar16.jpg"},
	{ID: "star", Name: "The Star", Number: 17, ImageURL: tarotImageBase + "/ar17.jpg"},
	{ID: "moon", Name: "The Moon", Number: 18, ImageURL: tarotImageBase + "/ar18.jpg"},
	{ID: "sun", Name: "The Sun", Number: 19, ImageURL: tarotImageBase + "/ar19.jpg"},
	{ID: "judgement", Name: "Judgement", Number: 20, ImageURL: tarotImageBase + "/ar20.jpg"},
	{ID: "world", Name: "The World", Number: 21, ImageURL: tarotImageBase + "/ar21.jpg"},
}

// TarotStore persists draw history.
type TarotStore interface {
	Create(ctx context.Context, reading model.TarotReading) error
	ListByUser(ctx context.Context, userID string, offset int, limit int) ([]model.TarotReading, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type TarotService struct {
	history TarotStore
	bus     event.Bus
}

func NewTarotService(history TarotStore, bus event.Bus) *TarotService {
	return &TarotService{history: history, bus: bus}
}

// Cards returns the full deck.
func (s *TarotService) Cards() []model.TarotCard {
	deck := make([]model.TarotCard, len(majorArcana))
	copy(deck, majorArcana)
	return deck
}

// Draw deals a single card or a past/present/future spread without
// replacement and records every dealt card in the caller's history.
func (s *TarotService) Draw(ctx context.Context, userID string, spread string) ([]model.DrawnCard, error) {
	var positions []string
	switch spread {
	case "", model.TarotSpreadSingle:
		positions = []string{model.TarotPositionSingle}
	case model.TarotSpreadThreeCard:
		positions = []string{model.TarotPositionPast, model.TarotPositionPresent, model.TarotPositionFuture}
	default:
		return nil, apierror.New("BAD_REQUEST", "spread must be single or three_card", spread, http.StatusBadRequest)
	}

	// Package-level rand is safe for concurrent request handlers.
	indexes := rand.Perm(len(majorArcana))[:len(positions)]
	now := time.Now().UTC()

	drawn := make([]model.DrawnCard, 0, len(positions))
	for i, position := range positions {
		card := majorArcana[indexes[i]]
		reversed := rand.Float64() < 0.5

		reading := model.TarotReading{
			ID:          uuid.NewString(),
			UserID:      userID,
			CardID:      card.ID,
			IsReversed:  reversed,
			Position:    position,
			ReadingDate: now,
		}
		if err := s.history.Create(ctx, reading); err != nil {
			return nil, err
		}

		drawn = append(drawn, model.DrawnCard{Card: card, IsReversed: reversed, Position: position})
	}

	if s.bus != nil {
		s.bus.Publish(event.Event{
			ID:        uuid.NewString(),
			Type:      event.TypeTarotDrawn,
			Payload:   map[string]any{"spread": spread, "cards": len(drawn)},
			Timestamp: now.Format(time.RFC3339Nano),
			ActorID:   userID,
		})
	}

	return drawn, nil
}

func (s *TarotService) History(ctx context.Context, userID string, offset int, limit int) ([]model.TarotReading, *model.Meta, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = tarotDefaultLimit
	}
	if limit > tarotMaxLimit {
		limit = tarotMaxLimit
	}

	readings, err := s.history.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.history.CountByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return readings, &model.Meta{Offset: offset, Limit: limit, Total: total}, nil
}
