package dateparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Parse turns free-form date text into a calendar date (midnight UTC).
// Accepted forms: "today"/"yesterday" (and uk/ru variants), "N days ago",
// numeric dates in DD.MM.YYYY, DD/MM/YYYY, DD-MM-YYYY and YYYY-MM-DD order.
// When both leading numbers could be a month, day-first wins, matching how
// users of the conversational interface write dates.
func Parse(text string, now time.Time) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch s {
	case "today", "сьогодні", "сегодня":
		return today, nil
	case "yesterday", "вчора", "вчера":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow", "завтра":
		return today.AddDate(0, 0, 1), nil
	}

	if d, ok := parseRelative(s, today); ok {
		return d, nil
	}

	nums, err := splitNums(s)
	if err != nil || len(nums) != 3 {
		return time.Time{}, invalidDate(text)
	}

	year, month, day, err := orderParts(nums)
	if err != nil {
		return time.Time{}, invalidDate(text)
	}

	if year < 1900 || year > 2100 {
		return time.Time{}, fmt.Errorf("year %d is out of reasonable range", year)
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 30), which would silently
	// accept a bad date; reject instead.
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, invalidDate(text)
	}
	return d, nil
}

var relativeRe = regexp.MustCompile(`^(\d+)\s*(day|days|week|weeks|month|months|днів|дня|день|тиждень|тижнів|місяць|місяців)\s*(ago|тому|назад)$`)

func parseRelative(s string, today time.Time) (time.Time, bool) {
	m := relativeRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	amount, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}

	unit := m[2]
	switch {
	case strings.HasPrefix(unit, "week") || strings.HasPrefix(unit, "тиж"):
		return today.AddDate(0, 0, -7*amount), true
	case strings.HasPrefix(unit, "month") || strings.HasPrefix(unit, "місяц"):
		return today.AddDate(0, 0, -30*amount), true
	default:
		return today.AddDate(0, 0, -amount), true
	}
}

// splitNums splits date text on any of the common separators.
func splitNums(s string) ([]int, error) {
	normalized := strings.NewReplacer(".", "/", "-", "/", ",", "/", " ", "/").Replace(s)
	parts := strings.Split(normalized, "/")

	var nums []int
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// orderParts decides year/month/day order: a 4-digit first number means
// year-first (ISO); otherwise day-first unless only the second number can be
// a day.
func orderParts(nums []int) (year, month, day int, err error) {
	a, b, c := nums[0], nums[1], nums[2]

	if a > 31 {
		// Year first: YYYY/MM/DD.
		return a, b, c, nil
	}
	if c <= 31 {
		return 0, 0, 0, fmt.Errorf("no year component")
	}

	if a > 12 && b <= 12 {
		return c, b, a, nil // day first
	}
	if a <= 12 && b > 12 {
		return c, a, b, nil // month first
	}
	return c, b, a, nil // ambiguous: day first
}

func invalidDate(text string) error {
	return fmt.Errorf("invalid date format: %q (supported: DD.MM.YYYY, YYYY-MM-DD, 'today', 'yesterday', '2 days ago')", text)
}
