package decklist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Row is one parsed deck list line.
type Row struct {
	CardName        string
	Count           int
	SetCode         string // lowercased, empty when absent
	CollectorNumber string // empty when absent
}

// Accepted line forms:
//
//	1 Sol Ring
//	1x Sol Ring
//	1 Sol Ring (ltr) 224
//	1x Sol Ring (LTR) 224a
var lineRe = regexp.MustCompile(`(?i)^(\d+)\s*x?\s+(.+?)(?:\s+\(([A-Za-z0-9-]{2,5})\)\s+([\w-]+))?$`)

// ParseList parses a pasted deck list, one card per line. Blank lines are
// skipped. A single malformed line fails the whole import, echoing the
// offending line so the user can fix it.
func ParseList(text string) ([]Row, error) {
	var rows []Row
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf(`bad line: %q (use "1 Card" or "1x Card (set) 123")`, line)
		}

		count, err := strconv.Atoi(m[1])
		if err != nil || count < 1 {
			return nil, fmt.Errorf("bad line: %q (count must be a positive integer)", line)
		}

		rows = append(rows, Row{
			Count:           count,
			CardName:        m[2],
			SetCode:         strings.ToLower(m[3]),
			CollectorNumber: m[4],
		})
	}
	return rows, nil
}
