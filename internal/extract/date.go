package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDateToken normalizes a date-shaped token to an ISO date. A 4-digit
// leading group reads year-first; otherwise day/month/year is assumed, with
// 2-digit years expanded to 20xx.
func parseDateToken(token string) (string, bool) {
	parts := strings.FieldsFunc(token, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(parts) != 3 {
		return "", false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		nums[i] = n
	}

	var year, month, day int
	if len(parts[0]) == 4 {
		year, month, day = nums[0], nums[1], nums[2]
	} else {
		day, month, year = nums[0], nums[1], nums[2]
		if year < 100 {
			year += 2000
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 2000 || year > 2100 {
		return "", false
	}
	// Reject impossible dates like 31/02.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
