package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DateRange is an inclusive calendar-day interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the number of calendar days the range spans, inclusive.
// Both endpoints are normalized to UTC midnight first, so uneven civil
// days (DST shifts, mixed zone offsets) cannot skew the count.
func (r DateRange) Days() int {
	start := dateUTC(r.Start)
	end := dateUTC(r.End)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func dateUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfDay truncates a timestamp to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports calendar-day equality regardless of clock time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// AccessClaims are the JWT claims attached to authenticated requests.
// Tokens are issued by the identity provider in front of this API; the
// service only validates them.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
