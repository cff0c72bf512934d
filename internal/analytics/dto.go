package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Visit describes the request that opened a phone page.
type Visit struct {
	Path      string
	IPAddress string
	UserAgent string
	Referrer  string
	UserID    *uuid.UUID
}

// PopularQuery is a normalized search term and how often it ran.
type PopularQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// PhoneViewedEvent is the payload of a phone.viewed message.
type PhoneViewedEvent struct {
	PhoneID  uuid.UUID  `json:"phone_id"`
	Path     string     `json:"path"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
	Referrer string     `json:"referrer,omitempty"`
	ViewedAt time.Time  `json:"viewed_at"`
}

// SearchPerformedEvent is the payload of a search.performed message.
type SearchPerformedEvent struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	SearchedAt  time.Time `json:"searched_at"`
}
