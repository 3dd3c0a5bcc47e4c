package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ImageList holds the ordered image URLs attached to an ad record.
//
// Legacy rows stored the column either as a Postgres text array literal or as
// a JSON-encoded array inside a text column, so Scan accepts both shapes (and
// a bare URL, which some very old rows carried).
type ImageList []string

func (l *ImageList) Scan(src any) error {
	if src == nil {
		*l = ImageList{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return l.parseFromString(v)
	case []byte:
		return l.parseFromString(string(v))
	default:
		return fmt.Errorf("ImageList: unsupported Scan type %T", src)
	}
}

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	encoded, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("ImageList: marshal: %w", err)
	}
	return string(encoded), nil
}

func (l *ImageList) parseFromString(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		*l = ImageList{}
		return nil
	}

	switch {
	case strings.HasPrefix(trimmed, "["):
		var urls []string
		if err := json.Unmarshal([]byte(trimmed), &urls); err != nil {
			return fmt.Errorf("ImageList: decode json: %w", err)
		}
		*l = ImageList(urls)
		return nil
	case strings.HasPrefix(trimmed, "{"):
		return l.parseFromArrayLiteral(trimmed)
	default:
		*l = ImageList{trimmed}
		return nil
	}
}

func (l *ImageList) parseFromArrayLiteral(s string) error {
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	if strings.TrimSpace(s) == "" {
		*l = ImageList{}
		return nil
	}

	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(strings.Trim(strings.TrimSpace(r), `"`))
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	*l = ImageList(out)
	return nil
}
