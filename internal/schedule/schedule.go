// Package schedule parses CronJob schedules into tick intervals.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a schedule expression into a tick interval.
//
// Two forms are accepted:
//
//   - the shorthand "every-N-ticks", e.g. "every-3-ticks";
//   - a cron expression, of which only the minute field is honored:
//     "*" fires every tick, "*/N" and a bare integer fire every N ticks.
//
// Anything else is an error. An unparseable schedule must never fall back to
// a default interval: a typo that silently fires every few ticks is worse
// than one that visibly fires never.
func Parse(expr string) (int64, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return 0, fmt.Errorf("empty schedule")
	}

	if rest, ok := strings.CutPrefix(s, "every-"); ok {
		num, ok := strings.CutSuffix(rest, "-ticks")
		if !ok {
			num, ok = strings.CutSuffix(rest, "-tick")
		}
		if !ok {
			return 0, fmt.Errorf("malformed shorthand %q: want every-N-ticks", expr)
		}
		return parseInterval(num, expr)
	}

	// Cron form: use the minute field, ignore the rest.
	minute := strings.Fields(s)[0]
	switch {
	case minute == "*":
		return 1, nil
	case strings.HasPrefix(minute, "*/"):
		return parseInterval(minute[2:], expr)
	default:
		return parseInterval(minute, expr)
	}
}

func parseInterval(num, expr string) (int64, error) {
	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unsupported schedule %q", expr)
	}
	if n <= 0 {
		return 0, fmt.Errorf("schedule %q: interval must be positive", expr)
	}
	return n, nil
}
