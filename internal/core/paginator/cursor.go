package paginator

import (
	"strconv"
	"strings"

	perr "eventscope/internal/platform/errors"
)

// Cursor is the "value:offset:is_prev" token carried in Link headers
// value is unused by offset pagination and always 0
type Cursor struct {
	Value   int64
	Offset  int
	IsPrev  bool
	Results bool // whether following the cursor yields rows
}

// ParseCursor reads a cursor; empty input is the first page
func ParseCursor(s string) (Cursor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Cursor{}, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Cursor{}, perr.InvalidParamsf("Invalid cursor parameter.")
	}
	v, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Cursor{}, perr.InvalidParamsf("Invalid cursor parameter.")
	}
	off, err := strconv.Atoi(parts[1])
	if err != nil || off < 0 {
		return Cursor{}, perr.InvalidParamsf("Invalid cursor parameter.")
	}
	var prev bool
	switch parts[2] {
	case "0":
	case "1":
		prev = true
	default:
		return Cursor{}, perr.InvalidParamsf("Invalid cursor parameter.")
	}
	return Cursor{Value: v, Offset: off, IsPrev: prev}, nil
}

func (c Cursor) String() string {
	prev := "0"
	if c.IsPrev {
		prev = "1"
	}
	return strconv.FormatInt(c.Value, 10) + ":" + strconv.Itoa(c.Offset) + ":" + prev
}
