package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxNameLength      = 80
	MaxBioLength       = 500
	MaxLocationLength  = 120
	MaxSkillNameLength = 80
	MaxMessageLength   = 1000
	MaxCommentLength   = 1000
	MaxReasonLength    = 255
)

// ValidateMaxLength fails when value has more than max runes.
func ValidateMaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}

// ValidateRequired fails when value is blank and otherwise applies ValidateMaxLength.
func ValidateRequired(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return ValidateMaxLength(field, value, max)
}

// ValidateName checks a first or last name.
func ValidateName(field, name string) error {
	return ValidateRequired(field, name, MaxNameLength)
}

// ValidateSkillName checks a skill name is 1-80 characters after trimming.
func ValidateSkillName(name string) error {
	return ValidateRequired("skill name", strings.TrimSpace(name), MaxSkillNameLength)
}

// ParseClock parses a 24-hour "HH:MM" time of day into minutes after midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 {
		return 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("time %q must be HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateAvailabilitySlot checks a weekly slot: day 0-6 and start strictly before end.
func ValidateAvailabilitySlot(day int, start, end string) error {
	if day < 0 || day > 6 {
		return errors.New("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	}
	from, err := ParseClock(start)
	if err != nil {
		return err
	}
	to, err := ParseClock(end)
	if err != nil {
		return err
	}
	if from >= to {
		return errors.New("start_time must be before end_time")
	}
	return nil
}
