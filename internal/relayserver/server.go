package relayserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"cardlink/internal/crypto"
	"cardlink/internal/domain"
)

// Request bodies are tiny; anything larger is refused.
const maxBodyBytes = 64 << 10

// Repository is the storage the server needs beyond domain.SessionRepository.
type Repository interface {
	domain.SessionRepository
	Ping(ctx context.Context) error
}

// Server serves the relay API.
type Server struct {
	repo     Repository
	sealer   *crypto.Sealer
	log      zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics
	router   chi.Router
}

// New builds a server over repo. Payloads are sealed with sealer.
func New(repo Repository, sealer *crypto.Sealer, log zerolog.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		repo:     repo,
		sealer:   sealer,
		log:      log.With().Str("component", "relayserver").Logger(),
		registry: reg,
		metrics:  newMetrics(reg),
	}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(accessLog(s.log, s.metrics))
	r.Use(recovery(s.log))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/session", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Post("/link", s.linkSession)
		r.Post("/relay", s.relayPayload)
		r.Get("/{id}", s.getSession)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.repo.Ping(ctx); err != nil {
		s.log.Error().Err(err).Msg("store ping")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// createSession handles POST /session.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(uuid.NewString())
	if _, err := s.repo.CreateSession(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.sessions.WithLabelValues("created").Inc()
	s.log.Info().Str("session_id", id.String()).Msg("session created")
	writeJSON(w, http.StatusCreated, domain.CreateSessionResponse{SessionID: id})
}

// linkSession handles POST /session/link.
func (s *Server) linkSession(w http.ResponseWriter, r *http.Request) {
	var req domain.LinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.SessionID = domain.SessionID(strings.TrimSpace(req.SessionID.String()))
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	}
	if err := s.repo.MarkLinked(r.Context(), req.SessionID, req.AppIdentifier); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.sessions.WithLabelValues("linked").Inc()
	s.log.Info().
		Str("session_id", req.SessionID.String()).
		Str("app_identifier", req.AppIdentifier).
		Msg("session linked")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// relayPayload handles POST /session/relay.
func (s *Server) relayPayload(w http.ResponseWriter, r *http.Request) {
	var req domain.RelayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch {
	case req.SessionID == "":
		writeError(w, http.StatusBadRequest, "sessionId is required")
		return
	case req.Type != domain.PayloadKindCardData:
		writeError(w, http.StatusBadRequest, "unsupported payload type")
		return
	case req.Payload.Empty():
		writeError(w, http.StatusBadRequest, "payload is empty")
		return
	}

	raw, err := json.Marshal(req.Payload)
	if err != nil {
		s.fail(w, r, errors.Wrap(err, "encode payload"))
		return
	}
	fp := crypto.Fingerprint(raw)
	sealed, err := s.sealer.Seal(raw, []byte(req.SessionID))
	crypto.Wipe(raw)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.repo.SaveRelay(r.Context(), req.SessionID, req.Type, sealed); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.sessions.WithLabelValues("relayed").Inc()
	s.log.Info().
		Str("session_id", req.SessionID.String()).
		Str("type", req.Type.String()).
		Str("payload_fp", fp).
		Msg("payload relayed")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// getSession handles GET /session/{id}.
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := domain.SessionID(chi.URLParam(r, "id"))
	rec, err := s.repo.GetSession(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view := domain.SessionView{
		SessionID:     rec.ID,
		Status:        rec.Status,
		AppIdentifier: rec.AppIdentifier,
		Type:          rec.Type,
		CreatedUTC:    rec.CreatedUTC,
		UpdatedUTC:    rec.UpdatedUTC,
	}
	if len(rec.SealedPayload) > 0 {
		raw, err := s.sealer.Open(rec.SealedPayload, []byte(rec.ID))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		err = json.Unmarshal(raw, &view.Payload)
		crypto.Wipe(raw)
		if err != nil {
			s.fail(w, r, errors.Wrap(err, "decode payload"))
			return
		}
	}
	writeJSON(w, http.StatusOK, view)
}

// fail maps store errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, ErrSessionNotFound.Error())
	case errors.Is(err, ErrAlreadyLinked):
		writeError(w, http.StatusConflict, ErrAlreadyLinked.Error())
	case errors.Is(err, ErrNotLinked):
		writeError(w, http.StatusConflict, ErrNotLinked.Error())
	case errors.Is(err, ErrSessionExists):
		writeError(w, http.StatusConflict, ErrSessionExists.Error())
	default:
		s.log.Error().Err(err).Str("request_id", GetRequestID(r)).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, domain.ErrorResponse{Error: msg})
}
