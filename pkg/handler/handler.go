package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/jub0bs/cors"
	"github.com/sirupsen/logrus"

	"apod"
	"apod/pkg/client"
	"apod/pkg/consts"
	srvc "apod/pkg/service"
)

type Options struct {
	Sizes          srvc.Sizes
	AllowedOrigins []string
	Logger         logrus.FieldLogger
	Now            func() time.Time
}

type Handler struct {
	services *srvc.Service
	sizes    srvc.Sizes
	cors     *cors.Middleware
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewHandler(services *srvc.Service, opts Options) (*Handler, error) {
	origins := make([]string, 0, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsMw, err := cors.NewMiddleware(cors.Config{
		Origins:         origins,
		Methods:         []string{http.MethodGet, http.MethodHead},
		RequestHeaders:  []string{"Accept", "Content-Type", "X-Requested-With"},
		ResponseHeaders: []string{consts.HeaderRequestID},
		MaxAgeInSeconds: 86400,
	})
	if err != nil {
		return nil, fmt.Errorf("create cors middleware: %w", err)
	}

	h := &Handler{
		services: services,
		sizes:    opts.Sizes,
		cors:     corsMw,
		log:      opts.Logger,
		now:      opts.Now,
	}
	if h.log == nil {
		h.log = logrus.StandardLogger()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h, nil
}

func (h *Handler) InitRoutes() *mux.Router {

	router := mux.NewRouter()
	router.Use(h.requestLogger, securityHeaders, h.cors.Wrap)

	// OPTIONS is listed so preflight requests reach the cors middleware
	router.HandleFunc("/health", h.Health).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/v1/home", h.Home).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/v1/apod", h.Picture).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/v1/apod/range", h.Range).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/v1/apod/recent", h.Recent).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc("/v1/apod/random", h.Random).Methods(http.MethodGet, http.MethodOptions)

	return router
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendResponse(w, http.StatusOK, "ok", nil)
}

// Picture returns the record of ?date=, today when absent.
func (h *Handler) Picture(w http.ResponseWriter, r *http.Request) {

	date, ok := h.dateParam(w, r, consts.ParamDate)
	if !ok {
		return
	}

	rec, err := h.services.ByDate(r.Context(), date)
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	c := newCard(rec, true)
	sendResponse(w, http.StatusOK, "ok", &c)
}

func (h *Handler) Range(w http.ResponseWriter, r *http.Request) {

	start, end := getTimeParam(r, consts.ParamStartDate), getTimeParam(r, consts.ParamEndDate)
	if start.IsZero() || end.IsZero() {
		sendResponse(w, http.StatusBadRequest, "start_date and end_date are required, format "+consts.TimeFormat, nil)
		return
	}
	if !apod.ValidDate(start, h.now()) || !apod.ValidDate(end, h.now()) {
		sendResponse(w, http.StatusBadRequest, invalidDateMessage, nil)
		return
	}
	if start.After(end) {
		sendResponse(w, http.StatusBadRequest, "start_date must not be after end_date", nil)
		return
	}

	recs, err := h.services.Range(r.Context(), start.Format(consts.TimeFormat), end.Format(consts.TimeFormat))
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	sendResponse(w, http.StatusOK, "ok", newCards(recs, false))
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {

	days, ok := getIntParam(r, consts.ParamDays, h.sizes.RecentDays)
	if !ok || days < 0 {
		sendResponse(w, http.StatusBadRequest, "days must be a non-negative integer", nil)
		return
	}

	state := h.services.Recent(r.Context(), days)
	sendResponse(w, http.StatusOK, "ok", newGalleryView(state))
}

func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {

	count, ok := getIntParam(r, consts.ParamCount, h.sizes.RandomCount)
	if !ok || count < 1 {
		sendResponse(w, http.StatusBadRequest, "count must be a positive integer", nil)
		return
	}

	state := h.services.Random(r.Context(), count)
	if state.Error != "" {
		h.entry(r).WithField("kind", state.Kind).Warnf("random gallery degraded: %s", state.Error)
	}
	sendResponse(w, http.StatusOK, "ok", newGalleryView(state))
}

// Home returns every section of the landing page in one payload.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {

	date, ok := h.dateParam(w, r, consts.ParamDate)
	if !ok {
		return
	}

	home := h.services.Home(r.Context(), date)
	if home.Today.Error != "" {
		h.entry(r).WithField("kind", home.Today.Kind).Errorf("hero unavailable: %s", home.Today.Error)
	}

	sendResponse(w, http.StatusOK, "ok", newHomeView(home))
}

// dateParam validates an optional date parameter, answering 400 itself
// when it is malformed or outside the archive.
func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	if getStringParam(r, name) == "" {
		return "", true
	}

	t := getTimeParam(r, name)
	if !apod.ValidDate(t, h.now()) {
		sendResponse(w, http.StatusBadRequest, invalidDateMessage, nil)
		return "", false
	}
	return t.Format(consts.TimeFormat), true
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	kind := client.KindOf(err)
	status := statusFor(kind)

	h.entry(r).WithFields(logrus.Fields{"kind": kind, "status": status}).Errorf("apod request failed: %s", err)
	writeResponse(w, status, Response{Message: client.UserMessage(err), Kind: kind.String()})
}

func (h *Handler) entry(r *http.Request) logrus.FieldLogger {
	return h.log.WithField("request_id", requestIDFrom(r.Context()))
}

func statusFor(kind client.Kind) int {
	switch kind {
	case client.KindInvalidRequest:
		return http.StatusBadRequest
	case client.KindRequiresPersonalKey:
		return http.StatusForbidden
	case client.KindRateLimited:
		return http.StatusTooManyRequests
	case client.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
