package score

import (
	"time"

	"github.com/elonfeng/newsprio/pkg/article"
)

// RecencyWindowDays is the age at which recency reaches zero.
const RecencyWindowDays = 7

// EngagementScale divides raw likes+shares.
const EngagementScale = 1000

// Recency scores freshness as a linear decay from 1 (published on now's date)
// to 0 at RecencyWindowDays, clamped to [0, 1]. Only calendar dates count.
func Recency(published, now time.Time) float64 {
	days := daysBetween(now, published)
	return clamp(1-float64(days)/RecencyWindowDays, 0, 1)
}

// RecencyOf parses a YYYY-MM-DD timestamp and scores it.
func RecencyOf(timestamp string, now time.Time) (float64, error) {
	d, err := article.ParseDate(timestamp)
	if err != nil {
		return 0, err
	}
	return Recency(d, now), nil
}

// Engagement normalizes interaction counts. The result is not clamped.
func Engagement(likes, shares int) float64 {
	return float64(likes+shares) / EngagementScale
}

// daysBetween counts whole calendar days from d to now. Negative for future dates.
func daysBetween(now, d time.Time) int {
	ny, nm, nd := now.Date()
	dy, dm, dd := d.Date()
	a := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	b := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return int(a.Sub(b).Hours() / 24)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
