package model

import (
	"strings"
	"time"
)

// PatternRule is one structural-match definition belonging to an institution.
// Expression is a Go regular expression with the named capture groups
// amount, account, date and description. Rules are evaluated in Position
// order; the first rule whose expression matches and whose amount parses
// wins.
type PatternRule struct {
	ID            int64     `json:"-"`
	RuleID        string    `json:"rule_id"`
	InstitutionID string    `json:"institution_id"`
	Kind          string    `json:"kind"`
	Expression    string    `json:"match_expression"`
	DateLayout    string    `json:"date_layout,omitempty"`
	Position      int       `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
}

// Institution is one message-originating entity: a display name, the
// canonical sender identity its notifications arrive from, and its ordered
// extraction rules.
type Institution struct {
	ID             int64         `json:"-"`
	InstitutionID  string        `json:"institution_id"`
	Name           string        `json:"name"`
	SenderIdentity string        `json:"sender_identity"`
	Rules          []PatternRule `json:"rules,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// MatchesSender reports whether the institution's canonical sender identity
// is a case-insensitive substring of the observed sender header. An empty
// canonical identity never matches, so an unconfigured institution cannot
// swallow every message.
func (institution *Institution) MatchesSender(observed string) bool {
	identity := strings.TrimSpace(institution.SenderIdentity)
	if identity == "" {
		return false
	}
	return strings.Contains(strings.ToLower(observed), strings.ToLower(identity))
}
