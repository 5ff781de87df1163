package capture

import (
	"errors"
	"path/filepath"
	"strings"
)

const corridorMarker = "CORRIDOR"

// ErrNoCorridor reports camera metadata without a CORRIDOR identifier.
var ErrNoCorridor = errors.New("no CORRIDOR identifier in camera metadata")

// Corridor is a camera placement split into its sector and corridor folders.
// Sector is empty when the identifier carries no separator.
type Corridor struct {
	Sector string
	ID     string
}

// Path joins the corridor into a relative directory, e.g. "NORTH/CORRIDOR-03".
func (c Corridor) Path() string {
	return filepath.Join(c.Sector, c.ID)
}

// String returns the identifier as it appeared in the metadata.
func (c Corridor) String() string {
	if c.Sector == "" {
		return c.ID
	}
	return c.Sector + "-" + c.ID
}

// ExtractCorridor finds the corridor identifier in raw MakerNote text. The
// identifier is the token holding the first "CORRIDOR": it begins at the
// start of that token and runs to the next backslash or non-printable byte.
// It returns "" when the marker is absent.
func ExtractCorridor(text string) string {
	start := strings.Index(text, corridorMarker)
	if start < 0 {
		return ""
	}
	for start > 0 && isTokenByte(text[start-1]) {
		start--
	}
	end := start
	for end < len(text) && text[end] != '\\' && isPrintable(text[end]) {
		end++
	}
	return strings.TrimSpace(text[start:end])
}

// SplitCorridor turns an identifier into two folder levels. When a sector
// prefix precedes the marker ("SECTOR_A-CORRIDOR-07") the split happens just
// before the marker, giving SECTOR_A / CORRIDOR-07. Otherwise it splits on
// the last hyphen ("CORRIDOR-07" gives CORRIDOR / 07).
func SplitCorridor(id string) (Corridor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Corridor{}, ErrNoCorridor
	}
	var c Corridor
	if i := strings.Index(id, corridorMarker); i > 1 && id[i-1] == '-' {
		c = Corridor{Sector: id[:i-1], ID: id[i:]}
	} else if i := strings.LastIndex(id, "-"); i >= 0 {
		c = Corridor{Sector: id[:i], ID: id[i+1:]}
	} else {
		c = Corridor{ID: id}
	}
	c.Sector = CleanSegment(c.Sector)
	c.ID = CleanSegment(c.ID)
	if c.ID == "" {
		c.ID, c.Sector = c.Sector, ""
	}
	if c.ID == "" {
		return Corridor{}, ErrNoCorridor
	}
	return c, nil
}

// CleanSegment makes s safe to use as a single directory name: separators
// become underscores and the relative names "." and ".." are replaced.
func CleanSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("/", "_", `\`, "_").Replace(s)
	if s == "." || s == ".." {
		return strings.Repeat("_", len(s))
	}
	return s
}

func isTokenByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == '-':
		return true
	}
	return false
}

func isPrintable(b byte) bool {
	return b >= 0x20 && b < 0x7f
}
