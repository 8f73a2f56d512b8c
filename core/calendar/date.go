package calendar

import (
	"encoding/json"
	"time"
)

// Date is a record date as stored in snapshots.
// It unmarshals leniently: malformed or missing values become Epoch instead of failing the whole snapshot.
type Date struct {
	day Day
}

func NewDate(t time.Time) Date {
	return Date{day: DayOf(t)}
}

func MustDate(s string) Date {
	return Date{day: ParseDay(s)}
}

func (d Date) Day() Day {
	if d.day == "" {
		return Epoch
	}
	return d.day
}

func (d Date) IsZero() bool {
	return d.Day() == Epoch
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		d.day = Epoch
		return nil
	}
	d.day = ParseDay(s)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d.Day()))
}
