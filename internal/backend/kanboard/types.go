package kanboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// taskRecord is the explicit wire schema for a Kanboard task. Only the
// fields the pipeline needs are decoded; anything unparseable fails the
// run rather than passing through half-decoded.
type taskRecord struct {
	ID          flexInt `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ColumnName  string  `json:"column_name"`
	DateDue     flexInt `json:"date_due"`
}

// flexInt decodes an integer that Kanboard may serialize as either a
// JSON number or a numeric string ("16"). Empty strings decode to 0.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("numeric string expected, got %q", s)
		}
		*f = flexInt(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}
