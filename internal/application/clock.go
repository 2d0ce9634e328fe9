package application

import "time"

// Clock interface supaya durasi panggilan AI gampang ditest
type Clock interface {
	Now() time.Time
}

// SystemClock implementasi default, pakai time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Since is time.Since measured against c.
func Since(c Clock, start time.Time) time.Duration {
	return c.Now().Sub(start)
}
