package parse

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// IDRange parses the positional range arguments of the download command.
// Accepted forms are none (defaults), "start", "start end" and "start-end".
func IDRange(args []string, defaultStart, defaultEnd int) (int, int, error) {
	var (
		start, end = defaultStart, defaultEnd
		err        error
	)

	switch len(args) {
	case 0:
	case 1:
		if strings.Contains(args[0], "-") {
			rangeParts := strings.Split(args[0], "-")
			if len(rangeParts) != 2 {
				return 0, 0, errors.Errorf("invalid range format: %s", args[0])
			}
			start, end, err = getRange(rangeParts)
			if err != nil {
				return 0, 0, err
			}
		} else {
			if start, err = parseID(args[0]); err != nil {
				return 0, 0, errors.Wrap(err, "invalid start of range")
			}
			// a lone start past the configured end fetches just that book
			if start > end {
				end = start
			}
		}
	case 2:
		start, end, err = getRange(args)
		if err != nil {
			return 0, 0, err
		}
	default:
		return 0, 0, errors.Errorf("expected at most 2 arguments, got %d", len(args))
	}

	if start <= 0 || end <= 0 {
		return 0, 0, errors.Errorf("book ids must be positive: %d-%d", start, end)
	}

	if start > end {
		return 0, 0, errors.Errorf("start of range should not be greater than end: %d-%d", start, end)
	}

	return start, end, nil
}

// getRange parses the start and end of a range
func getRange(rangeParts []string) (int, int, error) {
	start, err := parseID(rangeParts[0])
	if err != nil {
		return 0, 0, errors.Errorf("invalid start of range: %s", rangeParts[0])
	}
	end, err := parseID(rangeParts[1])
	if err != nil {
		return 0, 0, errors.Errorf("invalid end of range: %s", rangeParts[1])
	}

	return start, end, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return id, nil
}
