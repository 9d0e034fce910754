package domain

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ChannelKind is the closed set of channel semantics the tracker scores.
type ChannelKind int

const (
	// KindPost marks long-form content channels (higher base award).
	KindPost ChannelKind = iota
	// KindQA marks question/answer channels (lower base award).
	KindQA
)

func (k ChannelKind) String() string {
	switch k {
	case KindPost:
		return "post"
	case KindQA:
		return "qa"
	default:
		return fmt.Sprintf("ChannelKind(%d)", int(k))
	}
}

// ParseChannelKind maps the stored channel_type value to its variant.
func ParseChannelKind(s string) (ChannelKind, error) {
	switch s {
	case "post":
		return KindPost, nil
	case "qa":
		return KindQA, nil
	default:
		return 0, fmt.Errorf("unknown channel kind %q", s)
	}
}

// UnmarshalText lets ChannelKind be decoded directly from seed files.
func (k *ChannelKind) UnmarshalText(text []byte) error {
	parsed, err := ParseChannelKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Channel is a registered channel as the registry returns it.
// Immutable once configured; administration happens out of band.
type Channel struct {
	ID       string
	Kind     ChannelKind
	Category string
}

// RoleName derives the recognition role granted to the channel's monthly
// winners, e.g. category "writing" becomes "Writing Master".
func (c Channel) RoleName() string {
	return cases.Title(language.English).String(c.Category) + " Master"
}
