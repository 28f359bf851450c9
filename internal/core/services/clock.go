package services

import (
	"time"

	"github.com/comitanigiacomo/kanso-habits/internal/core/domain"
)

// Clock reports the current calendar day. Services take one so tests can pin "today".
type Clock func() domain.Date

func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() domain.Date {
		return domain.DateOf(time.Now().In(loc))
	}
}

func FixedClock(day domain.Date) Clock {
	return func() domain.Date { return day }
}
