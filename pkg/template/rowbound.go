package template

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// lastLiteral is the sentinel accepted for a row bound that resolves to the
// page's last row.
const lastLiteral = "LAST"

// RowBound is a tagged row index: either a fixed zero-based row or the
// literal last row of a page. The Last variant cannot be resolved at
// template-load time because a page's occupied-row count is only known
// after allocation; the filler inserter resolves it per page.
type RowBound struct {
	Last bool `json:"-" toml:"-" bson:"last"`
	Row  int  `json:"-" toml:"-" bson:"row"`
}

// FixedRow returns a bound at the given zero-based row.
func FixedRow(n int) RowBound {
	return RowBound{Row: n}
}

// LastRow returns the bound that resolves to a page's last row.
func LastRow() RowBound {
	return RowBound{Last: true}
}

// Resolve returns the concrete row index for a page whose last row is
// lastRow.
func (b RowBound) Resolve(lastRow int) int {
	if b.Last {
		return lastRow
	}
	return b.Row
}

// String returns either the fixed row number or the LAST literal.
func (b RowBound) String() string {
	if b.Last {
		return lastLiteral
	}
	return fmt.Sprintf("%d", b.Row)
}

// MarshalJSON encodes a fixed bound as a number and the last-row bound as
// the string "LAST".
func (b RowBound) MarshalJSON() ([]byte, error) {
	if b.Last {
		return json.Marshal(lastLiteral)
	}
	return json.Marshal(b.Row)
}

// UnmarshalJSON accepts either a number or the string "LAST"
// (case-insensitive).
func (b *RowBound) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return b.fromString(s)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("row bound must be a row number or %q: %w", lastLiteral, err)
	}
	*b = RowBound{Row: n}
	return nil
}

// UnmarshalTOML accepts either an integer or the string "LAST"
// (case-insensitive). It implements toml.Unmarshaler.
func (b *RowBound) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case int64:
		*b = RowBound{Row: int(val)}
		return nil
	case string:
		return b.fromString(val)
	default:
		return fmt.Errorf("row bound must be a row number or %q, got %T", lastLiteral, v)
	}
}

func (b *RowBound) fromString(s string) error {
	if !strings.EqualFold(s, lastLiteral) {
		return fmt.Errorf("invalid row bound %q (only %q is accepted as a string)", s, lastLiteral)
	}
	*b = RowBound{Last: true}
	return nil
}
