// Package intake holds the checks applied to the candidate's free-text
// answers during the personal details part of the conversation.
package intake

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Error messages returned to the candidate when an answer is rejected.
const (
	ErrName       = "Please provide both first and last name"
	ErrEmail      = "Please provide a valid email address"
	ErrPhone      = "Please provide a valid phone number (at least 7 digits)"
	ErrLocation   = "Please provide a valid location"
	ErrExperience = "Please enter a valid number of years"
	ErrPosition   = "Please enter a valid position"
	ErrTechStack  = "Please list at least one technology"
)

// Validator pairs a predicate with the message shown when it fails.
type Validator struct {
	Check   func(string) bool
	Message string
}

// Validate trims input and applies the predicate.
func (v Validator) Validate(input string) (string, bool) {
	if v.Check(strings.TrimSpace(input)) {
		return "", true
	}
	return v.Message, false
}

var (
	Name       = Validator{Check: ValidName, Message: ErrName}
	Email      = Validator{Check: ValidEmail, Message: ErrEmail}
	Phone      = Validator{Check: ValidPhone, Message: ErrPhone}
	Location   = Validator{Check: ValidLocation, Message: ErrLocation}
	Experience = Validator{Check: ValidExperience, Message: ErrExperience}
	Position   = Validator{Check: ValidPosition, Message: ErrPosition}
	TechStack  = Validator{Check: ValidTechStack, Message: ErrTechStack}
)

// ValidName requires at least two whitespace separated words.
func ValidName(s string) bool {
	return len(strings.Fields(s)) >= 2
}

// ValidEmail is a shape check, not RFC 5322: an "@", a dot after the last
// "@" and more than five characters.
func ValidEmail(s string) bool {
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(s[at+1:], ".") && utf8.RuneCountInString(s) > 5
}

// ValidPhone accepts digits only, at least seven of them.
func ValidPhone(s string) bool {
	return isDigits(s) && len(s) >= 7
}

func ValidLocation(s string) bool {
	return utf8.RuneCountInString(s) > 3
}

func ValidExperience(s string) bool {
	_, ok := ParseExperience(s)
	return ok
}

func ValidPosition(s string) bool {
	return utf8.RuneCountInString(s) > 2
}

func ValidTechStack(s string) bool {
	return len(ParseTechStack(s)) > 0
}

// ParseExperience converts a digits-only answer into years. Signs, spaces
// and values that overflow int are rejected.
func ParseExperience(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return 0, false
	}
	years, err := strconv.Atoi(s)
	if err != nil || years < 0 {
		return 0, false
	}
	return years, true
}

// ParseTechStack splits a comma separated list into trimmed, lowercased,
// unique names, keeping the order of first appearance.
func ParseTechStack(s string) []string {
	parts := strings.Split(s, ",")
	seen := make(map[string]struct{}, len(parts))
	stack := make([]string, 0, len(parts))

	for _, part := range parts {
		tech := strings.ToLower(strings.TrimSpace(part))
		if tech == "" {
			continue
		}
		if _, ok := seen[tech]; ok {
			continue
		}
		seen[tech] = struct{}{}
		stack = append(stack, tech)
	}

	return stack
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
