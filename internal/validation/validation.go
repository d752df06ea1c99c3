// Package validation parses and checks raw form input.
package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	intPattern = regexp.MustCompile(`^[+-]?(0|[1-9][0-9]*)$`)
	validate   = validator.New()

	// ErrUnparseableDate is returned by ParseDateTime for input in no known layout.
	ErrUnparseableDate = errors.New("unparseable date")
)

// dateLayouts are tried in order. Zone-less layouts are read in the local zone.
var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02",
}

// now is replaced in tests.
var now = time.Now

// ValidateInt parses a decimal integer, ignoring surrounding whitespace.
func ValidateInt(value string) (int, bool) {
	v := strings.TrimSpace(value)
	if !intPattern.MatchString(v) {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ValidateEmail reports whether email is syntactically valid.
func ValidateEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// ParseDateTime parses a form or database timestamp.
func ParseDateTime(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrUnparseableDate
}

// ValidateDateTime reports whether value is a usable timestamp after the
// Unix epoch and, unless allowPast is set, not before the current time.
func ValidateDateTime(value string, allowPast bool) bool {
	t, err := ParseDateTime(value)
	if err != nil {
		return false
	}
	if t.Unix() <= 0 {
		return false
	}
	if !allowPast && t.Before(now()) {
		return false
	}
	return true
}

// ValidateDateOrder reports whether arrival is strictly after departure.
func ValidateDateOrder(departure, arrival string) bool {
	dep, err := ParseDateTime(departure)
	if err != nil {
		return false
	}
	arr, err := ParseDateTime(arrival)
	if err != nil {
		return false
	}
	return arr.After(dep)
}

// Required reports whether every value is non-blank.
func Required(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
