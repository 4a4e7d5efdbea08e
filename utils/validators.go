package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	paceRegex  = regexp.MustCompile(`^(\d{1,2}):([0-5]\d)$`)
)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// NormalizeEmail lowercases and trims so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidPace(pace string) bool {
	return paceRegex.MatchString(pace)
}

// ParsePace converts "m:ss" per km into seconds per km.
func ParsePace(pace string) (int, error) {
	m := paceRegex.FindStringSubmatch(pace)
	if m == nil {
		return 0, fmt.Errorf("invalid pace %q, expected m:ss", pace)
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	return minutes*60 + seconds, nil
}

func FormatPace(secondsPerKm int) string {
	if secondsPerKm < 0 {
		secondsPerKm = 0
	}
	return fmt.Sprintf("%d:%02d", secondsPerKm/60, secondsPerKm%60)
}

// NormalizeDifficulty accepts the display forms ("Very Hard") as well as the stored ones.
func NormalizeDifficulty(value string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "-")
}

// categoryAliases maps the display names one client uses onto stored tip categories.
var categoryAliases = map[string]string{
	"health":     "recovery",
	"motivation": "mindset",
}

// NormalizeCategory lowercases a tip category and resolves its aliases.
func NormalizeCategory(value string) string {
	category := strings.ToLower(strings.TrimSpace(value))
	if alias, ok := categoryAliases[category]; ok {
		return alias
	}
	return category
}
