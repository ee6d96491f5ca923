package notify

import (
	"math/rand/v2"
	"time"
)

// DateLayout renders interview dates as "Monday, January 02, 2006".
const DateLayout = "Monday, January 02, 2006"

var DefaultSlots = []string{"10:00 AM", "2:00 PM", "4:00 PM"}

const (
	DefaultMinDays = 2
	DefaultMaxDays = 7
)

// Slot is a proposed interview date and time.
type Slot struct {
	Date string
	Time string
}

// Scheduler picks a day between MinDays and MaxDays from now and one of the time slots.
type Scheduler struct {
	now     func() time.Time
	rnd     *rand.Rand
	minDays int
	maxDays int
	slots   []string
}

func NewScheduler(now func() time.Time, rnd *rand.Rand, minDays, maxDays int, slots []string) *Scheduler {
	if now == nil {
		now = time.Now
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if minDays <= 0 {
		minDays = DefaultMinDays
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	if maxDays < minDays {
		maxDays = minDays
	}
	if len(slots) == 0 {
		slots = DefaultSlots
	}
	return &Scheduler{now: now, rnd: rnd, minDays: minDays, maxDays: maxDays, slots: slots}
}

// Next draws a new slot. Both bounds are inclusive.
func (s *Scheduler) Next() Slot {
	days := s.minDays + s.rnd.IntN(s.maxDays-s.minDays+1)
	return Slot{
		Date: s.now().AddDate(0, 0, days).Format(DateLayout),
		Time: s.slots[s.rnd.IntN(len(s.slots))],
	}
}
