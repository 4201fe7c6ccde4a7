package invoice

import (
	"fmt"
	"regexp"
	"strconv"
)

// DateFormat is the layout of every normalized date.
const DateFormat = "2006-01-02"

var dateSep = regexp.MustCompile(`[-/]`)

// NormalizeDate converts "M/D/Y", "D/M/Y" (or with dashes) to "YYYY-MM-DD".
// The first part is read as the month when it is at most 12, otherwise the
// second part is. Two-digit years below 50 land in 2000-2049, the rest in
// 1950-1999.
func NormalizeDate(s string) (string, bool) {
	parts := dateSep.Split(s, -1)
	if len(parts) != 3 {
		return "", false
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}

	var month, day, year int
	switch {
	case nums[0] <= 12:
		month, day, year = nums[0], nums[1], nums[2]
	case nums[1] <= 12:
		day, month, year = nums[0], nums[1], nums[2]
	default:
		return "", false
	}

	if year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
