package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"apod"
)

func TestGetTimeParam(t *testing.T) {

	loc, err := time.LoadLocation("UTC")
	require.NoError(t, err)
	require.NotNil(t, loc)

	tests := []struct {
		name     string
		payload  string
		param    string
		nilReq   bool
		expected time.Time
	}{
		{
			name:     "Get valid date",
			payload:  "https://hehe.org/hehe?date=2013-09-30",
			param:    "date",
			expected: time.Date(2013, 9, 30, 0, 0, 0, 0, loc),
		}, {
			name:     "Get not valid date",
			payload:  "https://hehe.org/hehe?date=2013-09-300",
			param:    "date",
			expected: time.Date(1, 1, 1, 0, 0, 0, 0, loc),
		}, {
			name:     "Get empty date",
			payload:  "https://hehe.org/hehe?date=",
			param:    "date",
			expected: time.Date(1, 1, 1, 0, 0, 0, 0, loc),
		}, {
			name:     "Get date in another month/day format",
			payload:  "https://hehe.org/hehe?date=2010-9-3",
			param:    "date",
			expected: time.Date(1, 1, 1, 0, 0, 0, 0, loc),
		}, {
			name:     "Nil req",
			payload:  "https://hehe.org/hehe?date=2010-09-03",
			param:    "date",
			nilReq:   true,
			expected: time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			req, err := http.NewRequest(http.MethodGet, tt.payload, nil)
			require.NoError(t, err)

			if tt.nilReq {
				req = nil
			}

			actual := getTimeParam(req, tt.param)
			require.True(t, tt.expected.Equal(actual), "expected %v, got %v", tt.expected, actual)
		})
	}
}

func TestGetStringParam(t *testing.T) {

	tests := []struct {
		name     string
		payload  string
		param    string
		nilReq   bool
		expected string
	}{
		{
			name:     "Get valid value",
			payload:  "https://hehe.org/hehe?date=2013-09-30",
			param:    "date",
			expected: "2013-09-30",
		}, {
			name:     "Get empty string",
			payload:  "https://hehe.org/hehe?date=",
			param:    "date",
			expected: "",
		}, {
			name:     "Nil req",
			payload:  "https://hehe.org/hehe?date=2013-09-30",
			param:    "date",
			nilReq:   true,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			req, err := http.NewRequest(http.MethodGet, tt.payload, nil)
			require.NoError(t, err)

			if tt.nilReq {
				req = nil
			}

			actual := getStringParam(req, tt.param)
			require.Equal(t, tt.expected, actual)
		})
	}
}

func TestGetIntParam(t *testing.T) {

	tests := []struct {
		name     string
		payload  string
		expected int
		ok       bool
	}{
		{name: "absent uses default", payload: "https://hehe.org/hehe", expected: 7, ok: true},
		{name: "number", payload: "https://hehe.org/hehe?days=3", expected: 3, ok: true},
		{name: "negative number", payload: "https://hehe.org/hehe?days=-3", expected: -3, ok: true},
		{name: "garbage", payload: "https://hehe.org/hehe?days=week", expected: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			req, err := http.NewRequest(http.MethodGet, tt.payload, nil)
			require.NoError(t, err)

			actual, ok := getIntParam(req, "days", 7)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.expected, actual)
		})
	}
}

func TestChooseURL(t *testing.T) {

	tests := []struct {
		name          string
		model         apod.Record
		hd            bool
		expectedUrl   string
		expectedError error
	}{
		{
			name: "IMAGE, HD_URL",
			model: apod.Record{
				Date:      "2009-03-29",
				HDURL:     "https://apod.nasa.gov/apod/image/0903/sn94d_highz_big.jpg",
				MediaType: apod.MediaImage,
				URL:       "https://apod.nasa.gov/apod/image/0903/sn94d_highz.jpg",
			},
			hd:          true,
			expectedUrl: "https://apod.nasa.gov/apod/image/0903/sn94d_highz_big.jpg",
		}, {
			name: "IMAGE, HD_URL, card size",
			model: apod.Record{
				Date:      "2009-03-29",
				HDURL:     "https://apod.nasa.gov/apod/image/0903/sn94d_highz_big.jpg",
				MediaType: apod.MediaImage,
				URL:       "https://apod.nasa.gov/apod/image/0903/sn94d_highz.jpg",
			},
			expectedUrl: "https://apod.nasa.gov/apod/image/0903/sn94d_highz.jpg",
		}, {
			name: "IMAGE, URL",
			model: apod.Record{
				Date:      "2009-03-29",
				MediaType: apod.MediaImage,
				URL:       "https://apod.nasa.gov/apod/image/0903/sn94d_highz.jpg",
			},
			hd:          true,
			expectedUrl: "https://apod.nasa.gov/apod/image/0903/sn94d_highz.jpg",
		}, {
			name: "IMAGE, HD_URL ONLY",
			model: apod.Record{
				Date:      "2009-03-29",
				MediaType: apod.MediaImage,
				HDURL:     "https://apod.nasa.gov/apod/image/0903/sn94d_highz_big.jpg",
			},
			expectedUrl: "https://apod.nasa.gov/apod/image/0903/sn94d_highz_big.jpg",
		}, {
			name: "VIDEO, THUMBNAIL",
			model: apod.Record{
				Date:      "2017-07-31",
				MediaType: apod.MediaVideo,
				ThumbURL:  "https://img.youtube.com/vi/rJzKDbnXyH0/0.jpg",
				URL:       "https://www.youtube.com/embed/rJzKDbnXyH0?rel=0",
			},
			expectedUrl: "https://img.youtube.com/vi/rJzKDbnXyH0/0.jpg",
		}, {
			name: "VIDEO, EMBED FOR HERO",
			model: apod.Record{
				Date:      "2017-07-31",
				MediaType: apod.MediaVideo,
				ThumbURL:  "https://img.youtube.com/vi/rJzKDbnXyH0/0.jpg",
				URL:       "https://www.youtube.com/embed/rJzKDbnXyH0?rel=0",
			},
			hd:          true,
			expectedUrl: "https://www.youtube.com/embed/rJzKDbnXyH0?rel=0",
		}, {
			name: "VIDEO, HD_URL NEVER USED",
			model: apod.Record{
				Date:      "2017-07-31",
				MediaType: apod.MediaVideo,
				HDURL:     "https://apod.nasa.gov/apod/image/1707/bogus.jpg",
				URL:       "https://www.youtube.com/embed/rJzKDbnXyH0?rel=0",
			},
			hd:          true,
			expectedUrl: "https://www.youtube.com/embed/rJzKDbnXyH0?rel=0",
		}, {
			name: "ERR, NOTHING TO SHOW",
			model: apod.Record{
				Date:      "2017-07-31",
				MediaType: apod.MediaVideo,
			},
			expectedUrl:   "",
			expectedError: errors.New("invalid url"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			actual, err := chooseURL(&tt.model, tt.hd)

			if tt.expectedError == nil {
				require.NoError(t, err)
			} else {
				require.Equal(t, tt.expectedError.Error(), err.Error())
			}

			require.Equal(t, tt.expectedUrl, actual)
		})
	}
}

func TestSendResponse(t *testing.T) {

	tests := []struct {
		name     string
		status   int
		Message  string
		data     interface{}
		expected []byte
	}{
		{
			name:     "200",
			status:   http.StatusOK,
			Message:  "ok",
			data:     []string{"hehe1", "hehe2", "hehe3"},
			expected: []byte(`{"message":"ok","data":["hehe1","hehe2","hehe3"]}` + "\n"),
		}, {
			name:     "400",
			status:   http.StatusBadRequest,
			Message:  "some custom error",
			data:     nil,
			expected: []byte(`{"message":"some custom error"}` + "\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			sendResponse(w, tt.status, tt.Message, tt.data)

			body, err := io.ReadAll(w.Result().Body)
			require.NoError(t, err)
			require.Equal(t, string(tt.expected), string(body))

			require.Equal(t, tt.status, w.Code)
			require.Equal(t, "application/json", w.Result().Header.Get("Content-Type"))
		})
	}
}
