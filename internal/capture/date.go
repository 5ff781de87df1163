package capture

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the EXIF DateTimeOriginal format.
const TimestampLayout = "2006:01:02 15:04:05"

// ParseTimestamp parses an EXIF DateTimeOriginal value. Trailing NULs and
// padding spaces written by some firmware are ignored.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.Trim(raw, "\x00 \t\r\n")
	t, err := time.Parse(TimestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse capture time %q: %w", value, err)
	}
	return t, nil
}

// DatePath returns the "<year>/week<week>" directory for t using ISO 8601
// week numbering, so 2023-01-02 gives "2023/week1". Weeks are not zero padded.
//
// The year is the ISO week-numbering year, not the calendar year: 2024-12-30
// falls in 2025/week1 and 2021-01-01 in 2020/week53. Trees produced by tools
// that pair the calendar year with the ISO week file those days differently.
func DatePath(t time.Time) string {
	year, week := t.ISOWeek()
	return filepath.Join(strconv.Itoa(year), "week"+strconv.Itoa(week))
}
