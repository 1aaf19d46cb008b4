package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePhone = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	reClock = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	reQuery = regexp.MustCompile(`^[\p{L}\p{N} '&.-]{1,40}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Qty parses a cart quantity. Zero is allowed (it removes the line);
// anything unreadable or negative reads as 0, large values clamp to 99.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	if n > 99 {
		return 99
	} // clamp to avoid abuse
	return n
}

// ID validates a simple resource identifier (product/category/add-on ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// IDs keeps the valid identifiers of a list, dropping duplicates.
func IDs(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		id, ok := ID(raw)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Text trims free text (descriptions, notes, addresses) and caps its length.
func Text(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		// cut on a rune boundary
		for max > 0 && !utf8.RuneStart(s[max]) {
			max--
		}
		s = s[:max]
	}
	return s
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// Price accepts finite, non-negative amounts.
func Price(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clock validates a 24h "HH:MM" time of day.
func Clock(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reClock.MatchString(s)
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	return l >= 6 && l <= 72
}

// Query accepts a short menu search: letters, digits, spaces and a little punctuation.
func Query(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reQuery.MatchString(s)
}
