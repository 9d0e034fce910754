package domain

import (
	"fmt"
	"time"
)

// FieldError represents a single field's validation error.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

func (e FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Msg) }

// ValidateMessage performs strict checks on an inbound message event.
// now: reference time (injectable for tests)
// skew: allowable future skew (positive duration)
func ValidateMessage(ev *MessageEvent, now time.Time, skew time.Duration) []FieldError {
	var errs []FieldError

	if ev.AuthorID == "" {
		errs = append(errs, FieldError{"author_id", "required"})
	} else if len(ev.AuthorID) > MaxAuthorIDLen {
		errs = append(errs, FieldError{"author_id", fmt.Sprintf("max length %d", MaxAuthorIDLen)})
	}

	if ev.ChannelID == "" {
		errs = append(errs, FieldError{"channel_id", "required"})
	} else if len(ev.ChannelID) > MaxChannelIDLen {
		errs = append(errs, FieldError{"channel_id", fmt.Sprintf("max length %d", MaxChannelIDLen)})
	}

	// Timestamp: epoch seconds, not in the future (allow small skew)
	if ev.Timestamp <= 0 {
		errs = append(errs, FieldError{"timestamp", "required epoch seconds (UTC)"})
	} else if ev.Time().After(now.Add(skew)) {
		errs = append(errs, FieldError{"timestamp", "must not be in the future (beyond allowed skew)"})
	}

	return errs
}
