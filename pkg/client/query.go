package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"apod/pkg/consts"
)

// Query holds the optional upstream parameters. Zero fields are left out
// of the request.
type Query struct {
	Date      string
	StartDate string
	EndDate   string
	Count     int
	Thumbs    bool
}

func (q Query) apply(values url.Values) {
	if date := strings.TrimSpace(q.Date); date != "" {
		values.Set(consts.ParamDate, date)
	}
	if start := strings.TrimSpace(q.StartDate); start != "" {
		values.Set(consts.ParamStartDate, start)
	}
	if end := strings.TrimSpace(q.EndDate); end != "" {
		values.Set(consts.ParamEndDate, end)
	}
	if q.Count > 0 {
		values.Set(consts.ParamCount, strconv.Itoa(q.Count))
	}
	if q.Thumbs {
		values.Set(consts.ParamThumbs, consts.True)
	}
}

// makeRequest builds the request URL on top of base, keeping any query the
// base already carries.
func makeRequest(base *url.URL, apiKey string, q Query) string {
	u := *base
	values := u.Query()
	values.Set(consts.ParamAPIKey, apiKey)
	q.apply(values)

	u.RawQuery = values.Encode()
	return u.String()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = consts.BaseURL
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse apod url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apod url %q must be absolute", raw)
	}

	u.Fragment = ""
	return u, nil
}
