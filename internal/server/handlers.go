package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/wideint/internal/calc"
	apperrors "github.com/agbru/wideint/internal/errors"
	"github.com/agbru/wideint/internal/logging"
)

// EvalResponse is the body of a successful evaluation.
type EvalResponse struct {
	Request    string `json:"request"`
	Op         string `json:"op"`
	Signed     bool   `json:"signed"`
	Value      string `json:"value"`
	Hex        string `json:"hex,omitempty"`
	DurationNs int64  `json:"duration_ns"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// OpInfo describes one operation in the /v1/ops listing.
type OpInfo struct {
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases,omitempty"`
	Arity      int      `json:"arity"`
	SignedOnly bool     `json:"signed_only,omitempty"`
	Usage      string   `json:"usage"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Features string `json:"cpu_features"`
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	var req calc.Request
	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
				return
			}
			s.writeError(w, http.StatusBadRequest, "invalid", apperrors.ValidationError{Field: "body", Message: "malformed JSON: " + err.Error()})
			return
		}
	case http.MethodGet:
		q := r.URL.Query()
		req.Op = q.Get("op")
		req.Args = q["arg"]
		if v := q.Get("signed"); v != "" {
			signed, err := strconv.ParseBool(v)
			if err != nil {
				s.writeError(w, http.StatusBadRequest, "invalid", apperrors.ValidationError{Field: "signed", Message: "not a boolean: " + strconv.Quote(v)})
				return
			}
			req.Signed = signed
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		s.writeError(w, http.StatusMethodNotAllowed, "method", errors.New("method not allowed"))
		return
	}
	if req.Op == "" {
		s.writeError(w, http.StatusBadRequest, "invalid", apperrors.ValidationError{Field: "op", Message: "missing operation"})
		return
	}

	res := s.eval(r, req)
	if res.Err != nil {
		var domainErr apperrors.DomainError
		if errors.As(res.Err, &domainErr) {
			s.writeError(w, http.StatusUnprocessableEntity, "domain", res.Err)
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid", res.Err)
		return
	}
	s.writeJSON(w, http.StatusOK, EvalResponse{
		Request:    res.Request.String(),
		Op:         res.Request.Op,
		Signed:     res.Request.Signed,
		Value:      res.Value,
		Hex:        res.Hex,
		DurationNs: res.Duration.Nanoseconds(),
	})
}

// eval runs req inside an "eval" span and records its outcome.
func (s *Server) eval(r *http.Request, req calc.Request) calc.Result {
	opLabel := "unknown"
	if op, err := s.registry.Lookup(req.Op); err == nil {
		opLabel = op.Name
	}

	_, span := s.tracer.Start(r.Context(), "eval", trace.WithAttributes(
		attribute.String("wideint.op", opLabel),
		attribute.Bool("wideint.signed", req.Signed),
		attribute.Int("wideint.args", len(req.Args)),
	))
	defer span.End()

	res := calc.Eval(s.registry, req)
	outcome := outcomeOf(res.Err)
	s.metrics.ObserveEval(opLabel, req.Kind(), outcome, res.Duration)
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, outcome)
		s.logger.Debug("evaluation failed", logging.String("request", req.String()), logging.Err(res.Err))
		return res
	}
	span.SetAttributes(attribute.Int64("wideint.duration_ns", res.Duration.Nanoseconds()))
	return res
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var domainErr apperrors.DomainError
	if errors.As(err, &domainErr) {
		return "domain"
	}
	return "invalid"
}

func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.writeError(w, http.StatusMethodNotAllowed, "method", errors.New("method not allowed"))
		return
	}
	ops := s.registry.Ops()
	infos := make([]OpInfo, len(ops))
	for i, op := range ops {
		infos[i] = OpInfo{Name: op.Name, Aliases: op.Aliases, Arity: op.Arity, SignedOnly: op.SignedOnly, Usage: op.Usage}
	}
	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.writeError(w, http.StatusMethodNotAllowed, "method", errors.New("method not allowed"))
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.version, Features: s.features.String()})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, kind string, err error) {
	s.writeJSON(w, code, ErrorResponse{Error: err.Error(), Kind: kind})
}
