package apod

import (
	"time"

	"apod/pkg/consts"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Record is one day of APOD content as returned by the upstream service.
type Record struct {
	Date           string    `json:"date"`
	Title          string    `json:"title"`
	Explanation    string    `json:"explanation"`
	MediaType      MediaType `json:"media_type"`
	URL            string    `json:"url"`
	HDURL          string    `json:"hdurl,omitempty"`
	ThumbURL       string    `json:"thumbnail_url,omitempty"`
	Copyright      string    `json:"copyright,omitempty"`
	ServiceVersion string    `json:"service_version"`
}

// HDImage returns the high resolution locator, only for image records.
func (r *Record) HDImage() string {
	if r == nil || r.MediaType != MediaImage {
		return ""
	}
	return r.HDURL
}

// FirstDate is the day the archive starts.
func FirstDate() time.Time {
	t, _ := time.Parse(consts.TimeFormat, consts.FirstDate)
	return t
}

// ValidDate reports whether t falls inside [FirstDate, today].
func ValidDate(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}

	day := truncateDay(t)
	return !day.Before(FirstDate()) && !day.After(truncateDay(now))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
