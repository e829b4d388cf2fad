package event

type Type string

const (
	TypeUserRegistered      Type = "user.registered"
	TypeUserLoggedIn        Type = "user.logged_in"
	TypeGoogleLinked        Type = "user.google_linked"
	TypeJournalManifested   Type = "journal.manifested"
	TypeTarotDrawn          Type = "tarot.drawn"
	TypeSubscriptionChanged Type = "subscription.changed"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"` // Who triggered the event
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
