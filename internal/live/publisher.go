package live

import "time"

// Event types emitted by the scoring engine.
const (
	EventTossUpdated         = "TOSS_UPDATED"
	EventBallAdded           = "BALL_ADDED"
	EventBallUndone          = "BALL_UNDONE"
	EventBallUpdated         = "BALL_UPDATED"
	EventOverComplete        = "OVER_COMPLETE"
	EventFinalOver           = "FINAL_OVER"
	EventInningsComplete     = "INNINGS_COMPLETE"
	EventInningsStatusChange = "INNINGS_STATUS_CHANGED"
	EventStatusChanged       = "STATUS_CHANGED"
	EventPlayersUpdated      = "PLAYERS_UPDATED"
)

// Event is a single live-score notification scoped to one match.
type Event struct {
	MatchID   uint      `json:"match_id"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers scoring events to whoever is watching a match.
// Controllers call it after their transaction commits; a failed or slow
// delivery must never affect the scoring write path. DropMatch releases
// whatever the publisher buffered for a match that reached a terminal
// status.
type Publisher interface {
	Publish(matchID uint, eventType string, payload any)
	DropMatch(matchID uint)
}

// NoopPublisher discards every event. Used in tests and when the
// websocket hub is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(matchID uint, eventType string, payload any) {}

func (NoopPublisher) DropMatch(matchID uint) {}
