package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"apod"
	"apod/pkg/consts"
	srvc "apod/pkg/service"
)

const invalidDateMessage = "invalid date, APOD dates range from " + consts.FirstDate + " to today in format " + consts.TimeFormat

func getTimeParam(r *http.Request, name string) time.Time {

	if r == nil {
		return time.Time{}
	}

	t, err := time.Parse(consts.TimeFormat, r.URL.Query().Get(name))
	if err != nil {
		return time.Time{}
	}

	return t
}

func getStringParam(r *http.Request, name string) string {

	if r == nil {
		return ""
	}

	return r.URL.Query().Get(name)
}

// getIntParam returns def when the parameter is absent, false when it is not a number.
func getIntParam(r *http.Request, name string, def int) (int, bool) {

	raw := getStringParam(r, name)
	if raw == "" {
		return def, true
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return n, true
}

// chooseURL picks the locator to display. hd prefers the HD image and, for
// videos, the embeddable url over the thumbnail.
func chooseURL(m *apod.Record, hd bool) (string, error) {

	switch {
	case m.MediaType == apod.MediaImage && hd && m.HDImage() != "":
		return m.HDImage(), nil
	case m.MediaType == apod.MediaImage && m.URL != "":
		return m.URL, nil
	case m.MediaType == apod.MediaImage && m.HDImage() != "":
		return m.HDImage(), nil
	case m.MediaType == apod.MediaVideo && hd && m.URL != "":
		return m.URL, nil
	case m.MediaType == apod.MediaVideo && m.ThumbURL != "":
		return m.ThumbURL, nil
	case m.MediaType == apod.MediaVideo && m.URL != "":
		return m.URL, nil
	}

	logrus.Warnf("Unexpected case: object: %v, ", m)
	return "", errors.New("invalid url")
}

type card struct {
	apod.Record
	DisplayURL string `json:"display_url"`
}

func newCard(rec *apod.Record, hd bool) card {
	u, _ := chooseURL(rec, hd)
	return card{Record: *rec, DisplayURL: u}
}

func newCards(recs []apod.Record, hd bool) []card {
	cards := make([]card, 0, len(recs))
	for i := range recs {
		cards = append(cards, newCard(&recs[i], hd))
	}
	return cards
}

type pictureView struct {
	Data  *card  `json:"data"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type galleryView struct {
	Data  []card `json:"data"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type homeView struct {
	Today  pictureView `json:"today"`
	Recent galleryView `json:"recent"`
	Random galleryView `json:"random"`
}

func newPictureView(s srvc.PictureState) pictureView {
	v := pictureView{Error: s.Error, Kind: s.Kind}
	if s.Data != nil {
		c := newCard(s.Data, true)
		v.Data = &c
	}
	return v
}

func newGalleryView(s srvc.GalleryState) galleryView {
	return galleryView{Data: newCards(s.Data, false), Error: s.Error, Kind: s.Kind}
}

func newHomeView(h srvc.Home) homeView {
	return homeView{
		Today:  newPictureView(h.Today),
		Recent: newGalleryView(h.Recent),
		Random: newGalleryView(h.Random),
	}
}

// Response is the envelope of every answer.
type Response struct {
	Message string      `json:"message"`
	Kind    string      `json:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func sendResponse(w http.ResponseWriter, status int, msg string, data interface{}) {
	writeResponse(w, status, Response{Message: msg, Data: data})
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.Errorf("error while sending response %q", err)
	}
}
