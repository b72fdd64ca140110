package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/internal/brief"
	"github.com/selivandex/pulsebrief/internal/portfolio"
	"github.com/selivandex/pulsebrief/internal/pulse"
	"github.com/selivandex/pulsebrief/internal/session"
	"github.com/selivandex/pulsebrief/pkg/daykey"
	"github.com/selivandex/pulsebrief/pkg/logger"
)

const maxBodyBytes = 1 << 16

// BriefView is a stored brief as sent to clients. Date is in nanoseconds.
type BriefView struct {
	ID     int64  `json:"id"`
	Date   int64  `json:"date"`
	DayKey string `json:"dayKey"`
	brief.Content
}

// TodayView is today's brief with the comparison against yesterday
type TodayView struct {
	Brief      BriefView          `json:"brief"`
	Yesterday  *BriefView         `json:"yesterday,omitempty"`
	Comparison []brief.ScoreDelta `json:"comparison,omitempty"`
}

// PulseView is a stored pulse update. Sections is nil for text that does
// not parse. Timestamp is in nanoseconds.
type PulseView struct {
	ID         int64          `json:"id"`
	UpdateText string         `json:"updateText"`
	Timestamp  int64          `json:"timestamp"`
	Sections   *pulse.Content `json:"sections,omitempty"`
}

// PulseList is the pulse feed. Demo is set when the viewer is signed out.
type PulseList struct {
	Demo    bool        `json:"demo"`
	Updates []PulseView `json:"updates"`
}

// SessionView is the session as sent to clients
type SessionView struct {
	SignedIn bool   `json:"signedIn"`
	Email    string `json:"email,omitempty"`
	TimeZone string `json:"timeZone"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) briefView(rec brief.Record) BriefView {
	return BriefView{
		ID:      rec.ID,
		Date:    rec.Date.UnixNano(),
		DayKey:  daykey.DayKey(rec.Date.In(s.deps.Session.Location())),
		Content: rec.Content,
	}
}

// NewPulseView converts a stored update for clients
func NewPulseView(rec pulse.Record) PulseView {
	view := PulseView{
		ID:         rec.ID,
		UpdateText: rec.UpdateText,
		Timestamp:  rec.Timestamp.UnixNano(),
	}
	if c, ok := pulse.Parse(rec.UpdateText); ok {
		view.Sections = &c
	}
	return view
}

func (s *Server) handleListBriefs(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.Briefs.ListDailyBriefs(r.Context())
	if err != nil {
		s.internalError(w, "failed to list daily briefs", err)
		return
	}
	brief.SortNewestFirst(records)

	views := make([]BriefView, 0, len(records))
	for _, rec := range records {
		views = append(views, s.briefView(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleTodayBrief(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.Briefs.ListDailyBriefs(r.Context())
	if err != nil {
		s.internalError(w, "failed to list daily briefs", err)
		return
	}

	loc := s.deps.Session.Location()
	now := s.now().In(loc)
	today := brief.FindByDay(records, daykey.DayKey(now), loc)
	if today == nil {
		writeError(w, http.StatusNotFound, brief.ErrNotFound.Error())
		return
	}

	view := TodayView{Brief: s.briefView(*today)}
	if yesterday := brief.FindByDay(records, daykey.DayKey(daykey.Previous(now)), loc); yesterday != nil {
		y := s.briefView(*yesterday)
		view.Yesterday = &y
		view.Comparison = brief.Compare(today.Content, yesterday.Content)
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleListPulse(w http.ResponseWriter, r *http.Request) {
	if !s.deps.Session.IsSignedIn() {
		demo := pulse.DemoUpdates(s.now())
		views := make([]PulseView, 0, len(demo))
		for _, rec := range demo {
			views = append(views, NewPulseView(rec))
		}
		writeJSON(w, http.StatusOK, PulseList{Demo: true, Updates: views})
		return
	}

	records, err := s.deps.Pulses.ListMarketPulseUpdates(r.Context())
	if err != nil {
		s.internalError(w, "failed to list market pulse updates", err)
		return
	}
	pulse.SortNewestFirst(records)

	views := make([]PulseView, 0, len(records))
	for _, rec := range records {
		views = append(views, NewPulseView(rec))
	}
	writeJSON(w, http.StatusOK, PulseList{Updates: views})
}

func (s *Server) handleLatestPulse(w http.ResponseWriter, r *http.Request) {
	records, err := s.deps.Pulses.ListMarketPulseUpdates(r.Context())
	if err != nil {
		s.internalError(w, "failed to list market pulse updates", err)
		return
	}

	latest := pulse.Latest(records)
	if latest == nil {
		writeError(w, http.StatusNotFound, pulse.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, NewPulseView(*latest))
}

func (s *Server) handleAnalyzePortfolio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Assets []portfolio.Asset `json:"assets"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	assets := portfolio.Normalize(req.Assets)
	if err := portfolio.Validate(assets); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, portfolio.Analyze(assets))
}

func (s *Server) sessionView() SessionView {
	st := s.deps.Session.State()
	return SessionView{
		SignedIn: st.SignedIn(),
		Email:    st.Email,
		TimeZone: s.deps.Session.Location().String(),
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.deps.Session.SignIn(r.Context(), req.Email); err != nil {
		if errors.Is(err, session.ErrInvalidEmail) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, "failed to sign in", err)
		return
	}

	logger.Info("viewer signed in")
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Session.SignOut(r.Context()); err != nil {
		s.internalError(w, "failed to sign out", err)
		return
	}

	logger.Info("viewer signed out")
	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleSetTimeZone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TimeZone string `json:"timeZone"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.deps.Session.SetTimeZone(r.Context(), req.TimeZone); err != nil {
		if errors.Is(err, session.ErrInvalidTimeZone) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, "failed to set time zone", err)
		return
	}

	writeJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
