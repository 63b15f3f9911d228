package metadata

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// setNumberRe matches "N", "N/M" or "N of M" disc/track-number encodings,
// capturing only N. Ported from original_source's parse_set_number regex
// alternatives.
var setNumberRe = regexp.MustCompile(`^\s*(\d+)\s*(?:(?:/|of)\s*\d+\s*)?$`)

func parseOptionalSetNumber(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	m := setNumberRe.FindStringSubmatch(raw)
	if m == nil {
		return nil, errors.Errorf("cannot parse set number %q", raw)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse set number %q", raw)
	}
	return &n, nil
}

// Three date shapes, ported from original_source's parse_date: full ISO
// date, US-style MM-DD-YYYY, or a bare year optionally followed by ";..."
// trailing junk some taggers append.
var (
	dateISORe  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	dateUSRe   = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	dateYearRe = regexp.MustCompile(`^(\d{4})(?:;.*)?$`)
)

func parseOptionalDate(raw string) (*Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if m := dateISORe.FindStringSubmatch(raw); m != nil {
		year := atoi(m[1])
		month := atoi(m[2])
		day := atoi(m[3])
		return &Date{Year: year, Month: &month, Day: &day}, nil
	}
	if m := dateUSRe.FindStringSubmatch(raw); m != nil {
		month := atoi(m[1])
		day := atoi(m[2])
		year := atoi(m[3])
		return &Date{Year: year, Month: &month, Day: &day}, nil
	}
	if m := dateYearRe.FindStringSubmatch(raw); m != nil {
		return &Date{Year: atoi(m[1])}, nil
	}
	return nil, errors.Errorf("cannot parse date %q", raw)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// popularimeterRating maps the legacy "popularimeter" byte encodings (the
// POPM id3 frame, as several taggers write it) to a 0..10 rating scale.
// Ported verbatim from original_source's parse_popularimeter constant
// table: these are third-party-defined legacy encodings, not something
// this repository invents.
var popularimeterRating = map[int]int{
	1:   2,
	13:  1,
	54:  3,
	64:  4,
	118: 5,
	128: 6,
	186: 7,
	196: 8,
	242: 9,
	255: 10,
}

// parseOptionalRating maps a raw rating tag to 1..10; "0" means no rating.
// The popularimeter byte values above are checked first, so "1" maps to 2;
// otherwise a plain 2..10 integer is taken as-is and 20..100 in steps of ten
// is divided by ten. Any other value is an error.
func parseOptionalRating(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse rating %q", raw)
	}

	if n == 0 {
		// 0 means "no rating set", not a rating of zero.
		return nil, nil
	}
	if r, ok := popularimeterRating[n]; ok {
		return &r, nil
	}
	if n >= 1 && n <= 10 {
		return &n, nil
	}
	if n >= 10 && n <= 100 && n%10 == 0 {
		r := n / 10
		return &r, nil
	}
	return nil, errors.Errorf("rating %d is not a recognized 0..10, 0..100, or popularimeter value", n)
}
