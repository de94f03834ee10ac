package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Int64List stores an ordered list of identifiers as a comma-joined string,
// matching the legacy reserved_from_batch_ids column format.
type Int64List []int64

func (l *Int64List) Scan(src any) error {
	if src == nil {
		*l = Int64List{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return l.parseFromString(v)
	case []byte:
		return l.parseFromString(string(v))
	default:
		return fmt.Errorf("Int64List: unsupported Scan type %T", src)
	}
}

func (l Int64List) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(l))
	for _, id := range l {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ","), nil
}

func (l *Int64List) parseFromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*l = Int64List{}
		return nil
	}

	raw := strings.Split(s, ",")
	out := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(r), 10, 64)
		if err != nil {
			return fmt.Errorf("Int64List: parse %q: %w", r, err)
		}
		out = append(out, id)
	}
	*l = Int64List(out)
	return nil
}
