package factor

import "fmt"

// Group identifies one instrument on one trading date. Every transform
// resets at group boundaries.
type Group struct {
	Instrument string
	Date       int
}

func (g Group) String() string { return fmt.Sprintf("%s@%d", g.Instrument, g.Date) }

// Key addresses one second of one group. Date is YYYYMMDD and Second counts
// seconds since midnight.
type Key struct {
	Instrument string
	Date       int
	Second     int
}

// Group returns the (instrument, date) part of the key.
func (k Key) Group() Group { return Group{Instrument: k.Instrument, Date: k.Date} }

func (k Key) String() string {
	return fmt.Sprintf("%s@%d %02d:%02d:%02d", k.Instrument, k.Date, k.Second/3600, k.Second%3600/60, k.Second%60)
}

// keyLess orders keys by instrument, date and second.
func keyLess(a, b Key) bool {
	if a.Instrument != b.Instrument {
		return a.Instrument < b.Instrument
	}
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.Second < b.Second
}
