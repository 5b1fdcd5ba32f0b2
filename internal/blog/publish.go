package blog

import (
	"fmt"
	"time"
)

const PublishIntervalDays = 7

// PublishLockedError is returned when a post was already published within the interval.
type PublishLockedError struct {
	DaysRemaining int
}

func (e *PublishLockedError) Error() string {
	return fmt.Sprintf("posting is locked, next post allowed in %d day(s)", e.DaysRemaining)
}

// PublishRule allows at most one post per rolling window of IntervalDays calendar days,
// counted from the publish date of the latest post.
type PublishRule struct {
	IntervalDays int
}

func NewPublishRule() PublishRule {
	return PublishRule{IntervalDays: PublishIntervalDays}
}

// Check returns nil when a new post may be published today, given the latest post (nil if none).
func (r PublishRule) Check(today time.Time, latest *Post) error {
	if latest == nil {
		return nil
	}

	interval := r.IntervalDays
	if interval <= 0 {
		interval = PublishIntervalDays
	}

	daysSince := DaysBetween(latest.PublishDate, today)
	if daysSince < interval {
		return &PublishLockedError{DaysRemaining: interval - daysSince}
	}

	return nil
}
