package services

import (
	"regexp"
	"strings"
)

type RecipientType string

const (
	RecipientEmail  RecipientType = "email"
	RecipientHandle RecipientType = "handle"
)

// Recipient is one parsed entry from the free-text invite input.
type Recipient struct {
	Raw   string
	Type  RecipientType
	Value string
}

// Local part, "@", domain with at least one dot, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParseRecipients splits free-form input on commas and newlines and classifies
// each entry as an email address or a handle (with or without a leading "@").
// Blank entries and repeated separators are dropped.
func ParseRecipients(raw string) []Recipient {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	var out []Recipient
	for _, f := range fields {
		token := strings.TrimSpace(f)
		if token == "" {
			continue
		}
		if emailPattern.MatchString(token) {
			out = append(out, Recipient{
				Raw:   token,
				Type:  RecipientEmail,
				Value: strings.ToLower(token),
			})
			continue
		}
		handle := strings.ToLower(strings.TrimPrefix(token, "@"))
		if handle == "" {
			continue
		}
		out = append(out, Recipient{
			Raw:   token,
			Type:  RecipientHandle,
			Value: handle,
		})
	}
	return out
}
