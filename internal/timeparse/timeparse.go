// Package timeparse turns the date and time strings users type on the command
// line into absolute timestamps.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rezmoss/letsdo/internal/domain"
)

// ParseError reports a time string that matched none of the accepted forms.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized time %q (use YYYY-MM-DD HH:MM, YYYY-MM-DD, MM-DD [HH:MM] or HH:MM)", e.Input)
}

func (e *ParseError) Unwrap() error { return domain.ErrParse }

type pattern struct {
	re    *regexp.Regexp
	build func(m []int, now time.Time) (time.Time, bool)
}

// Most specific first. Dates use - or /, times use : or .
var patterns = []pattern{
	{
		re: regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})\s+(\d{1,2})[:.](\d{2})$`),
		build: func(m []int, now time.Time) (time.Time, bool) {
			return date(m[0], m[1], m[2], m[3], m[4], now.Location())
		},
	},
	{
		re: regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`),
		build: func(m []int, now time.Time) (time.Time, bool) {
			return date(m[0], m[1], m[2], now.Hour(), now.Minute(), now.Location())
		},
	},
	{
		re: regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})\s+(\d{1,2})[:.](\d{2})$`),
		build: func(m []int, now time.Time) (time.Time, bool) {
			return date(now.Year(), m[0], m[1], m[2], m[3], now.Location())
		},
	},
	{
		re: regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})$`),
		build: func(m []int, now time.Time) (time.Time, bool) {
			return date(now.Year(), m[0], m[1], now.Hour(), now.Minute(), now.Location())
		},
	},
	{
		re: regexp.MustCompile(`^(\d{1,2})[:.](\d{2})$`),
		build: func(m []int, now time.Time) (time.Time, bool) {
			return date(now.Year(), int(now.Month()), now.Day(), m[0], m[1], now.Location())
		},
	},
}

// Parse resolves s against now, filling the components s leaves out from now.
// Seconds are always zero.
func Parse(s string, now time.Time) (time.Time, error) {
	in := strings.TrimSpace(s)
	for _, p := range patterns {
		sub := p.re.FindStringSubmatch(in)
		if sub == nil {
			continue
		}
		nums := make([]int, 0, len(sub)-1)
		for _, v := range sub[1:] {
			n, err := strconv.Atoi(v)
			if err != nil {
				return time.Time{}, &ParseError{Input: s}
			}
			nums = append(nums, n)
		}
		t, ok := p.build(nums, now)
		if !ok {
			return time.Time{}, &ParseError{Input: s}
		}
		return t, nil
	}
	return time.Time{}, &ParseError{Input: s}
}

// date builds a timestamp and rejects components time.Date would normalize,
// such as month 13 or 25:00.
func date(year, month, day, hour, minute int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
