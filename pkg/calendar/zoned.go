package calendar

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone ids must resolve on hosts without a zoneinfo database
)

// ParseZoned parses an ISO-8601 timestamp with an offset, optionally followed by an IANA zone id
// in brackets like "2025-10-23T09:30:00+03:00[Europe/Kyiv]". The returned time carries the
// bracketed zone if given and a fixed offset zone otherwise. The instant is always the one
// described by the offset.
func ParseZoned(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var zoneID string
	if strings.HasSuffix(value, "]") {
		open := strings.LastIndexByte(value, '[')
		if open < 0 {
			return time.Time{}, fmt.Errorf("invalid zoned timestamp %q: unbalanced zone id", value)
		}
		zoneID = value[open+1 : len(value)-1]
		value = value[:open]
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid zoned timestamp %q: %v", value, err)
	}

	if zoneID == "" {
		return t, nil
	}

	location, err := time.LoadLocation(zoneID)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid zone id %q: %v", zoneID, err)
	}
	return t.In(location), nil
}

// FormatZoned is the inverse of ParseZoned. The zone id is only appended for named locations.
func FormatZoned(t time.Time) string {
	formatted := t.Format(time.RFC3339Nano)
	name := t.Location().String()
	if name == "" || name == "UTC" || name == "Local" || strings.HasPrefix(name, "+") || strings.HasPrefix(name, "-") {
		return formatted
	}
	return formatted + "[" + name + "]"
}

// ZonedTime is a time.Time that keeps the zone it was given in when decoded from JSON.
type ZonedTime struct {
	time.Time
}

func (z ZonedTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatZoned(z.Time))
}

func (z *ZonedTime) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("zoned timestamp must be a string: %v", err)
	}

	t, err := ParseZoned(value)
	if err != nil {
		return err
	}

	z.Time = t
	return nil
}

// Ptr returns a pointer to the underlying time or nil if z is nil.
func (z *ZonedTime) Ptr() *time.Time {
	if z == nil {
		return nil
	}
	return &z.Time
}
