package records

import (
	"encoding/json"
	"fmt"
	"time"
)

// StoredTimeLayout is how record timestamps are written to the store
const StoredTimeLayout = time.RFC3339Nano

// Accepted textual forms on read. Offset-less values are taken as UTC.
var readLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp is a record creation time.
// Values read back from the store that were not stored as text are kept
// verbatim and serialised unchanged.
type Timestamp struct {
	Time time.Time

	raw         any
	passthrough bool
}

// NewTimestamp wraps t in UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// MarshalJSON writes the parsed time, or the stored value for pass-through timestamps
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.passthrough {
		return json.Marshal(ts.raw)
	}
	return json.Marshal(ts.Time)
}

// UnmarshalJSON accepts the same textual forms as stored documents
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*ts = Timestamp{raw: raw, passthrough: true}
		return nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = NewTimestamp(t)
	return nil
}

// String formats the timestamp for display
func (ts Timestamp) String() string {
	if ts.passthrough {
		return fmt.Sprint(ts.raw)
	}
	return ts.Time.Format(StoredTimeLayout)
}

// storedValue is the document form of the timestamp
func (ts Timestamp) storedValue() any {
	if ts.passthrough {
		return ts.raw
	}
	return ts.Time.UTC().Format(StoredTimeLayout)
}

// ParseTimestamp parses an ISO-8601 timestamp and returns it in UTC
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range readLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// timestampFromDocument normalises a stored timestamp value
func timestampFromDocument(v any) (Timestamp, error) {
	s, ok := v.(string)
	if !ok {
		return Timestamp{raw: v, passthrough: true}, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return Timestamp{}, err
	}
	return NewTimestamp(t), nil
}
