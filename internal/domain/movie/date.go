package movie

import (
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar day. It decodes from "2006-01-02" or an RFC 3339
// timestamp and always encodes as "2006-01-02".
type Date struct {
	time.Time
}

type DateError struct {
	Value string
}

func (e *DateError) Error() string {
	return "invalid date " + strconv.Quote(e.Value) + ": want YYYY-MM-DD"
}

func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, &DateError{Value: s}
	}

	return NewDate(t.UTC()), nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if raw == "null" {
		return nil
	}

	s, err := strconv.Unquote(raw)
	if err != nil {
		return &DateError{Value: raw}
	}

	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
