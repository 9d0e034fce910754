package domain

import "time"

// PointEntry is one (user, channel, month) accumulator row. Exactly one
// row exists per key; Points only ever grows within a month.
type PointEntry struct {
	UserID    string
	ChannelID string
	MonthYear time.Time
	Points    int64
}

// Winner is a user holding the highest accumulated points in a channel
// for a month. Ties produce multiple winners for the same channel.
// Derived, never persisted.
type Winner struct {
	ChannelID string
	UserID    string
	Points    int64
}

// GrantRequest is the outbound role-grant action dispatched to the
// platform bridge. DeliveryID identifies the attempt in logs on both
// sides; the grant itself is fire-and-forget.
type GrantRequest struct {
	DeliveryID  string `json:"delivery_id"`
	CommunityID string `json:"community_id"`
	UserID      string `json:"user_id"`
	RoleName    string `json:"role_name"`
}
