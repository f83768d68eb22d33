package shared

import (
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is the wire format of every timestamp in API responses.
// It carries second precision and no zone; values are rendered in UTC.
const TimestampLayout = "2006-01-02T15:04:05"

// Timestamp is a time.Time that marshals using TimestampLayout.
type Timestamp time.Time

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Time returns the underlying time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Time(ts)
}

// String formats the timestamp using TimestampLayout.
func (ts Timestamp) String() string {
	return time.Time(ts).UTC().Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(ts.String())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp must be a JSON string: %w", err)
	}

	t, err := time.ParseInLocation(TimestampLayout, raw, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp %q does not match layout %s: %w", raw, TimestampLayout, err)
	}

	*ts = Timestamp(t)
	return nil
}
