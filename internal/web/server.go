package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"unical/internal/config"
	"unical/internal/filter"
	"unical/internal/ics"
	appLog "unical/internal/log"
	"unical/internal/model"
	"unical/internal/render"
)

// Server exposes the calendar page, the filter API and the raw data
// files. It is also the rendering collaborator: it implements
// render.Renderer, and the displayed event set is mutated only through
// InitialRender/Refresh.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux
	loc *time.Location

	ctrl    *filter.Controller
	adapter *render.Adapter

	// Displayed state, owned by the renderer side. Replaced wholesale on
	// every InitialRender/Refresh call.
	viewMu      sync.RWMutex
	initialized bool
	initOpts    render.InitOptions
	visible     []model.Event

	meta     model.Meta
	rng      model.RangeInfo
	hasRange bool
}

// NewServer constructs a Server. Bind must be called before the handler
// serves requests that reach the filter controller.
func NewServer(cfg *config.Config) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		appLog.Warn("web: bad timezone, using local", "timezone", cfg.Timezone)
		loc = time.Local
	}
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
		loc: loc,
	}
	s.registerRoutes()
	return s
}

// Bind wires the filter controller and render adapter. The adapter is
// only used for its pure per-event translations (tooltip, click link).
// Scheduled reloads rebind a live server, so the swap happens under the
// same lock the handlers read through.
func (s *Server) Bind(ctrl *filter.Controller, adapter *render.Adapter) {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	s.ctrl = ctrl
	s.adapter = adapter
}

// controller returns the currently bound filter controller, or nil
// before the first Bind.
func (s *Server) controller() *filter.Controller {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	return s.ctrl
}

// SetSummary records the session metadata and the derived range,
// computed once at load time.
func (s *Server) SetSummary(meta model.Meta, rng model.RangeInfo, hasRange bool) {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	s.meta = meta
	s.rng = rng
	s.hasRange = hasRange
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// InitialRender implements render.Renderer: it stores the init options
// and the first visible event set.
func (s *Server) InitialRender(opts render.InitOptions, events []model.Event) error {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	s.initOpts = opts
	s.visible = events
	s.initialized = true
	return nil
}

// Refresh implements render.Renderer: it replaces the full displayed set.
func (s *Server) Refresh(events []model.Event) error {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	s.visible = events
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/filter", s.handleFilter)
	s.mux.HandleFunc("/api/reset", s.handleReset)
	s.mux.HandleFunc("/calendar.ics", s.handleICS)
	s.mux.HandleFunc("/data/events.json", s.handleDataFile(func() string { return s.cfg.EventsPath() }))
	s.mux.HandleFunc("/data/meta.json", s.handleDataFile(func() string { return s.cfg.MetaPath() }))
	s.mux.HandleFunc("/preview.png", s.handlePreview)
	s.mux.HandleFunc("/", s.handlePage)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// eventDTO decorates an event with its precomputed tooltip and click
// link; the page script only relays them.
type eventDTO struct {
	model.Event
	Tooltip    string `json:"tooltip,omitempty"`
	LinkTarget string `json:"linkTarget,omitempty"`
	LinkRel    string `json:"linkRel,omitempty"`
}

// summaryDTO is the displayed summary line data: localized update
// timestamp, the four counts, and the localized range bounds when a
// range exists.
type summaryDTO struct {
	UpdatedAt          string `json:"updated_at"`
	RowsParsed         int    `json:"rows_parsed"`
	EventsGenerated    int    `json:"events_generated"`
	PhaseLookaheadDays int    `json:"phase_lookahead_days"`
	HasRange           bool   `json:"has_range"`
	RangeMin           string `json:"range_min,omitempty"`
	RangeMax           string `json:"range_max,omitempty"`
}

// eventsResponse is the JSON shape for /api/events.
type eventsResponse struct {
	Events     []eventDTO         `json:"events"`
	Options    render.InitOptions `json:"options"`
	Summary    summaryDTO         `json:"summary"`
	Query      string             `json:"query"`
	OnlyAllDay bool               `json:"only_all_day"`
}

const displayTimeLayout = "02.01.2006 15:04"

func (s *Server) summary() summaryDTO {
	out := summaryDTO{
		UpdatedAt:          s.meta.UpdatedAt.In(s.loc).Format(displayTimeLayout),
		RowsParsed:         s.meta.RowsParsed,
		EventsGenerated:    s.meta.EventsGenerated,
		PhaseLookaheadDays: s.meta.PhaseLookaheadDays,
		HasRange:           s.hasRange,
	}
	if s.hasRange {
		out.RangeMin = s.rng.Min.In(s.loc).Format(displayTimeLayout)
		out.RangeMax = s.rng.Max.In(s.loc).Format(displayTimeLayout)
	}
	return out
}

func (s *Server) currentResponse() (eventsResponse, bool) {
	s.viewMu.RLock()
	defer s.viewMu.RUnlock()
	if !s.initialized || s.ctrl == nil {
		return eventsResponse{}, false
	}

	state := s.ctrl.State()
	resp := eventsResponse{
		Events:     make([]eventDTO, 0, len(s.visible)),
		Options:    s.initOpts,
		Summary:    s.summary(),
		Query:      state.Query,
		OnlyAllDay: state.OnlyAllDay,
	}
	for _, ev := range s.visible {
		dto := eventDTO{Event: ev, Tooltip: s.adapter.Tooltip(ev)}
		if link, ok := s.adapter.ClickAction(ev); ok {
			dto.LinkTarget = link.Target
			dto.LinkRel = link.Rel
		}
		resp.Events = append(resp.Events, dto)
	}
	return resp, true
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	resp, ok := s.currentResponse()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "calendar not initialized")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// filterRequest is the POST body for /api/filter. Pointer fields so a
// request may change one control without clobbering the other.
type filterRequest struct {
	Query      *string `json:"query,omitempty"`
	OnlyAllDay *bool   `json:"only_all_day,omitempty"`
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	ctrl := s.controller()
	if ctrl == nil {
		writeError(w, http.StatusServiceUnavailable, "calendar not initialized")
		return
	}

	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// Each mutator recomputes and pushes synchronously; by the time we
	// respond the displayed state already reflects the change.
	if req.Query != nil {
		ctrl.SetQuery(*req.Query)
	}
	if req.OnlyAllDay != nil {
		ctrl.SetOnlyAllDay(*req.OnlyAllDay)
	}

	resp, ok := s.currentResponse()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "calendar not initialized")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	ctrl := s.controller()
	if ctrl == nil {
		writeError(w, http.StatusServiceUnavailable, "calendar not initialized")
		return
	}

	ctrl.Reset()

	resp, ok := s.currentResponse()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "calendar not initialized")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleICS serves the full (unfiltered) event set as an iCalendar feed.
func (s *Server) handleICS(w http.ResponseWriter, _ *http.Request) {
	s.viewMu.RLock()
	meta := s.meta
	ctrl := s.ctrl
	s.viewMu.RUnlock()
	if ctrl == nil {
		writeError(w, http.StatusServiceUnavailable, "calendar not initialized")
		return
	}

	// The feed exposes everything, not the filtered view; subscribers
	// want the whole programme.
	body := ics.Export(ctrl.AllEvents(), meta.UpdatedAt)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="unisport.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// handleDataFile serves one of the generated JSON files with cache
// bypass headers so clients always see the latest generation run.
func (s *Server) handleDataFile(path func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.ServeFile(w, r, path())
	}
}

// handlePreview serves the last rendered page snapshot from disk.
// ServeFile maps a missing file to 404 for us.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, s.cfg.SnapshotPath)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("web: failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
