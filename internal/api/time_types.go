package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/domain"
)

// FlexTime is a time type that can unmarshal from any of:
//   - RFC3339 string: "2025-01-15T10:30:00Z"
//   - calendar date: "2025-01-15" (midnight UTC)
//   - epoch milliseconds, as a number or a string: 1736937000000
//
// It always marshals to RFC3339 format for consistency.
type FlexTime struct {
	time.Time
}

// UnmarshalJSON handles flexible time parsing from JSON.
func (ft *FlexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t, err := parseFlexTime(s)
		if err != nil {
			return err
		}
		ft.Time = t
		return nil
	}

	var ms float64
	if err := json.Unmarshal(data, &ms); err == nil {
		ft.Time = time.UnixMilli(int64(ms)).UTC()
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into a date", string(data))
}

func parseFlexTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q: use RFC3339, YYYY-MM-DD, or epoch milliseconds", s)
}

// MarshalJSON outputs time in RFC3339 format.
func (ft FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(ft.Format(time.RFC3339))
}

// Schema accepts a string or a number so epoch milliseconds reach UnmarshalJSON.
func (FlexTime) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		AnyOf:       flexTimeTypes(false),
		Description: "RFC3339 timestamp, YYYY-MM-DD date, or epoch milliseconds",
	}
}

func flexTimeTypes(nullable bool) []*huma.Schema {
	return []*huma.Schema{
		{Type: huma.TypeString, Nullable: nullable},
		{Type: huma.TypeNumber, Nullable: nullable},
	}
}

// Ptr returns the wrapped time as a pointer, nil for a nil receiver.
func (ft *FlexTime) Ptr() *time.Time {
	if ft == nil {
		return nil
	}
	t := ft.Time
	return &t
}

// NullableTime is a patch field that tells an absent date apart from an
// explicit null (clear) and from a value.
type NullableTime struct {
	set   bool
	null  bool
	value time.Time
}

// UnmarshalJSON is only called when the key is present.
func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.null = true
		return nil
	}
	var ft FlexTime
	if err := ft.UnmarshalJSON(data); err != nil {
		return err
	}
	n.value = ft.Time
	return nil
}

// Schema describes NullableTime as a FlexTime that may also be null.
func (NullableTime) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		AnyOf:       flexTimeTypes(true),
		Nullable:    true,
		Description: "RFC3339 timestamp, YYYY-MM-DD date, or epoch milliseconds; null clears the date",
	}
}

// Optional converts to the domain patch representation.
func (n NullableTime) Optional() domain.Optional[time.Time] {
	switch {
	case !n.set:
		return domain.Optional[time.Time]{}
	case n.null:
		return domain.Null[time.Time]()
	default:
		return domain.Some(n.value)
	}
}
