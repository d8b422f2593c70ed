package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"mmr-history/internal/config"
	"mmr-history/internal/constants"
	"mmr-history/internal/derive"
	"mmr-history/internal/domain"
	"mmr-history/internal/render"
	"mmr-history/internal/selection"
	"mmr-history/internal/view"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

type HistoryServer struct {
	source       view.Source
	roster       domain.Roster
	format       derive.DateFormat
	sessions     *sessionStore
	fetchTimeout time.Duration
	logger       zerolog.Logger
}

func NewHistoryServer(cfg *config.Config, source view.Source, logger zerolog.Logger) (*HistoryServer, error) {
	sessions, err := newSessionStore(constants.MaxSessions, logger)
	if err != nil {
		return nil, err
	}
	return &HistoryServer{
		source:       source,
		roster:       cfg.Roster,
		format:       derive.NewDateFormat(cfg.Locale, cfg.Location()),
		sessions:     sessions,
		fetchTimeout: constants.RequestTimeout,
		logger:       logger,
	}, nil
}

// Handler returns the connect routes of mmr.v1.HistoryService.
func (s *HistoryServer) Handler() (string, http.Handler) {
	codec := connect.WithCodec(jsonCodec{})
	mux := http.NewServeMux()
	mux.Handle(CreateSessionProcedure, connect.NewUnaryHandler(CreateSessionProcedure, s.CreateSession, codec))
	mux.Handle(SelectPrimaryProcedure, connect.NewUnaryHandler(SelectPrimaryProcedure, s.SelectPrimary, codec))
	mux.Handle(ToggleComparisonProcedure, connect.NewUnaryHandler(ToggleComparisonProcedure, s.ToggleComparison, codec))
	mux.Handle(GetViewProcedure, connect.NewUnaryHandler(GetViewProcedure, s.GetView, codec))
	return HistoryServicePath, mux
}

func (s *HistoryServer) CreateSession(ctx context.Context, req *connect.Request[CreateSessionRequest]) (*connect.Response[ViewResponse], error) {
	c := view.NewController(s.source, s.roster, s.format, s.logger)
	id := s.sessions.add(c)

	s.logger.Info().Str("session_id", id).Msg("session created")
	if err := s.run(ctx, c, selection.Refresh{}); err != nil {
		s.sessions.remove(id)
		return nil, err
	}
	return connect.NewResponse(s.toView(id, c)), nil
}

func (s *HistoryServer) SelectPrimary(ctx context.Context, req *connect.Request[SelectPrimaryRequest]) (*connect.Response[ViewResponse], error) {
	c, err := s.session(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}

	player, err := domain.ParsePlayerKey(req.Msg.Player)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.run(ctx, c, selection.SelectPrimary{Player: player}); err != nil {
		return nil, err
	}
	return connect.NewResponse(s.toView(req.Msg.SessionID, c)), nil
}

func (s *HistoryServer) ToggleComparison(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[ViewResponse], error) {
	c, err := s.session(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}

	if err := s.run(ctx, c, selection.ToggleComparison{}); err != nil {
		return nil, err
	}
	return connect.NewResponse(s.toView(req.Msg.SessionID, c)), nil
}

func (s *HistoryServer) GetView(ctx context.Context, req *connect.Request[SessionRequest]) (*connect.Response[ViewResponse], error) {
	c, err := s.session(req.Msg.SessionID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(s.toView(req.Msg.SessionID, c)), nil
}

// ChartsPage serves GET /sessions/{id}/charts.
func (s *HistoryServer) ChartsPage(w http.ResponseWriter, r *http.Request) {
	c, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := render.WritePage(&buf, c.Charts()); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to render charts page")
		http.Error(w, "failed to render charts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Export serves GET /sessions/{id}/export.xlsx.
func (s *HistoryServer) Export(w http.ResponseWriter, r *http.Request) {
	c, err := s.sessions.get(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := render.WriteWorkbook(&buf, c.Charts()); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to export charts")
		http.Error(w, "failed to export charts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="match-history.xlsx"`)
	w.Write(buf.Bytes())
}

// run applies action and waits for its fetches. Fetches are detached from the
// caller so a dropped request still lands its data in the session.
func (s *HistoryServer) run(ctx context.Context, c *view.Controller, action selection.Action) error {
	plan, err := c.Dispatch(action)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownPlayer) {
			return connect.NewError(connect.CodeInvalidArgument, err)
		}
		return connect.NewError(connect.CodeInternal, err)
	}

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
	defer cancel()

	if err := c.Execute(fetchCtx, plan); err != nil {
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	return nil
}

func (s *HistoryServer) session(id string) (*view.Controller, error) {
	c, err := s.sessions.get(id)
	if err != nil {
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	return c, nil
}

func (s *HistoryServer) toView(id string, c *view.Controller) *ViewResponse {
	state := c.State()
	resp := &ViewResponse{
		SessionID:         id,
		Primary:           string(state.Primary()),
		ComparisonEnabled: state.ComparisonEnabled(),
		Charts:            c.Charts(),
	}
	if other, ok := state.Comparison(); ok {
		resp.ComparisonPlayer = string(other)
	}
	return resp
}
