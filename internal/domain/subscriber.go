package domain

import "time"

const UnknownCarrier = "unknown"

type Subscriber struct {
	Number    string    `db:"number" json:"number"`
	Carrier   string    `db:"carrier" json:"carrier"`
	ReplyFrom string    `db:"reply_from" json:"replyFrom"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type DeliveryStatus string

const (
	DeliveryQueued DeliveryStatus = "queued"
	DeliveryFailed DeliveryStatus = "failed"
)

// BroadcastResult describes one broadcast run. Attempted counts gateway calls
// issued, Queued counts the ones the provider accepted.
type BroadcastResult struct {
	RunID      string    `json:"runId"`
	Content    string    `json:"content,omitempty"`
	Attempted  int       `json:"attempted"`
	Queued     int       `json:"queued"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
