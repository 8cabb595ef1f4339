package ingestion

import (
	"fmt"
	"sort"
	"time"

	"github.com/guttosm/hffactors/internal/factor"
)

// Session is a continuous trading interval [Open, Close] in seconds since
// midnight. Both ends are grid rows.
type Session struct {
	Open  int
	Close int
}

// DefaultSessions are the morning and afternoon continuous sessions.
var DefaultSessions = []Session{
	{Open: 9*3600 + 15*60, Close: 11*3600 + 30*60},
	{Open: 13 * 3600, Close: 15 * 3600},
}

// ParseSession parses "09:15-11:30".
func ParseSession(s string) (Session, error) {
	var oh, om, ch, cm int
	if _, err := fmt.Sscanf(s, "%d:%d-%d:%d", &oh, &om, &ch, &cm); err != nil {
		return Session{}, fmt.Errorf("invalid session %q: %w", s, err)
	}
	out := Session{Open: oh*3600 + om*60, Close: ch*3600 + cm*60}
	if out.Open >= out.Close || out.Close > 24*3600 {
		return Session{}, fmt.Errorf("invalid session %q", s)
	}
	return out, nil
}

// IsTradingDay reports whether the YYYYMMDD date falls on a weekday.
func IsTradingDay(date int) bool {
	d := time.Date(date/10000, time.Month(date/100%100), date%100, 0, 0, 0, 0, time.UTC)
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// BuildGrid synthesizes a canonical grid with one row per second of every
// session for each (instrument, date) pair. Instruments are sorted so the
// grid does not depend on input order.
func BuildGrid(instruments []string, dates []int, sessions []Session) (*factor.Grid, error) {
	if len(sessions) == 0 {
		sessions = DefaultSessions
	}
	ss := append([]Session(nil), sessions...)
	sort.Slice(ss, func(i, j int) bool { return ss[i].Open < ss[j].Open })
	for i := 1; i < len(ss); i++ {
		if ss[i].Open <= ss[i-1].Close {
			return nil, fmt.Errorf("sessions overlap: %v and %v", ss[i-1], ss[i])
		}
	}

	insts := uniqueSorted(instruments)
	ds := append([]int(nil), dates...)
	sort.Ints(ds)

	var keys []factor.Key
	for _, inst := range insts {
		for i, d := range ds {
			if i > 0 && d == ds[i-1] {
				continue
			}
			for _, s := range ss {
				for sec := s.Open; sec <= s.Close; sec++ {
					keys = append(keys, factor.Key{Instrument: inst, Date: d, Second: sec})
				}
			}
		}
	}
	return factor.NewGrid(keys)
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
