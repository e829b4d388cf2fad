package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"horoscope-api/internal/event"
	"horoscope-api/internal/model"
	"horoscope-api/pkg/apierror"
)

const (
	journalDefaultLimit = 50
	journalMaxLimit     = 100
	journalMaxTextLen   = 1000
)

// JournalStore is the slice of the journal repository the service uses.
type JournalStore interface {
	Create(ctx context.Context, e model.JournalEntry) error
	FindByID(ctx context.Context, userID string, entryID string) (model.JournalEntry, error)
	ListByUser(ctx context.Context, userID string, offset int, limit int) ([]model.JournalEntry, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, e model.JournalEntry) error
	Delete(ctx context.Context, userID string, entryID string) error
}

type JournalService struct {
	entries JournalStore
	bus     event.Bus
}

func NewJournalService(entries JournalStore, bus event.Bus) *JournalService {
	return &JournalService{entries: entries, bus: bus}
}

func (s *JournalService) Create(ctx context.Context, userID string, req model.CreateJournalEntryRequest) (model.JournalEntry, error) {
	intention := strings.TrimSpace(req.Intention)
	if intention == "" {
		return model.JournalEntry{}, apierror.New("BAD_REQUEST", "intention is required", "intention", http.StatusBadRequest)
	}
	if len(intention) > journalMaxTextLen || len(req.Gratitude) > journalMaxTextLen {
		return model.JournalEntry{}, apierror.New("BAD_REQUEST", "entry text too long", "", http.StatusBadRequest)
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = "general"
	}

	now := time.Now().UTC()
	entry := model.JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Intention: intention,
		Gratitude: strings.TrimSpace(req.Gratitude),
		Status:    model.JournalStatusPending,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return model.JournalEntry{}, err
	}
	return entry, nil
}

func (s *JournalService) Get(ctx context.Context, userID string, entryID string) (model.JournalEntry, error) {
	return s.entries.FindByID(ctx, userID, entryID)
}

func (s *JournalService) List(ctx context.Context, userID string, offset int, limit int) ([]model.JournalEntry, *model.Meta, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = journalDefaultLimit
	}
	if limit > journalMaxLimit {
		limit = journalMaxLimit
	}

	entries, err := s.entries.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, nil, err
	}

	total, err := s.entries.CountByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return entries, &model.Meta{Offset: offset, Limit: limit, Total: total}, nil
}

func (s *JournalService) Update(ctx context.Context, userID string, entryID string, req model.UpdateJournalEntryRequest) (model.JournalEntry, error) {
	entry, err := s.entries.FindByID(ctx, userID, entryID)
	if err != nil {
		return model.JournalEntry{}, err
	}

	if req.Intention != nil {
		intention := strings.TrimSpace(*req.Intention)
		if intention == "" {
			return model.JournalEntry{}, apierror.New("BAD_REQUEST", "intention cannot be empty", "intention", http.StatusBadRequest)
		}
		if len(intention) > journalMaxTextLen {
			return model.JournalEntry{}, apierror.New("BAD_REQUEST", "entry text too long", "intention", http.StatusBadRequest)
		}
		entry.Intention = intention
	}
	if req.Gratitude != nil {
		if len(*req.Gratitude) > journalMaxTextLen {
			return model.JournalEntry{}, apierror.New("BAD_REQUEST", "entry text too long", "gratitude", http.StatusBadRequest)
		}
		entry.Gratitude = strings.TrimSpace(*req.Gratitude)
	}
	manifested := false
	if req.Status != nil {
		if !model.ValidJournalStatus(*req.Status) {
			return model.JournalEntry{}, apierror.New("BAD_REQUEST", "invalid status", *req.Status, http.StatusBadRequest)
		}
		manifested = *req.Status == model.JournalStatusManifested && entry.Status != model.JournalStatusManifested
		entry.Status = *req.Status
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			category = "general"
		}
		entry.Category = category
	}

	entry.UpdatedAt = time.Now().UTC()

	if err := s.entries.Update(ctx, entry); err != nil {
		return model.JournalEntry{}, err
	}

	if manifested && s.bus != nil {
		s.bus.Publish(event.Event{
			ID:        uuid.NewString(),
			Type:      event.TypeJournalManifested,
			Payload:   map[string]string{"entry_id": entry.ID, "category": entry.Category},
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			ActorID:   userID,
		})
	}

	return entry, nil
}

// Delete removes the entry permanently. Journal entries are user-owned leaf
// data, so hard delete matches the rest of the CRUD surface.
func (s *JournalService) Delete(ctx context.Context, userID string, entryID string) error {
	return s.entries.Delete(ctx, userID, entryID)
}
