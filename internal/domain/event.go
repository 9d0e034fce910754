package domain

import "time"

// MessageEvent is the inbound message-arrival notification delivered by
// the platform bridge. Timestamp is epoch seconds (UTC).
type MessageEvent struct {
	AuthorID  string `json:"author_id"`
	ChannelID string `json:"channel_id"`
	Timestamp int64  `json:"timestamp"`
}

// Time returns the event's timestamp as a UTC time.
func (e MessageEvent) Time() time.Time {
	return time.Unix(e.Timestamp, 0).UTC()
}

// Validation constraints for inbound events.
const (
	MaxAuthorIDLen   = 64
	MaxChannelIDLen  = 64
	DefaultClockSkew = 5 * time.Minute
)
