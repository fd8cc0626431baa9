package services

import (
	"time"
	_ "time/tzdata"

	"github.com/coder/quartz"
)

// Calendar gom việc lấy "bây giờ" và mốc 00:00 của ngày theo một múi giờ cố định
type Calendar struct {
	clock quartz.Clock
	loc   *time.Location
}

func NewCalendar(clock quartz.Clock, loc *time.Location) *Calendar {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{clock: clock, loc: loc}
}

func (c *Calendar) Now() time.Time {
	return c.clock.Now().In(c.loc)
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// StartOfDay trả về 00:00 của ngày chứa t
func (c *Calendar) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

func (c *Calendar) Today() time.Time {
	return c.StartOfDay(c.Now())
}
