package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fwojciec/agrocostos"
	"github.com/gorilla/mux"
)

// DefaultRequestTimeout bounds every API request.
const DefaultRequestTimeout = 10 * time.Minute

// maxBodySize caps request bodies; every route takes a small JSON object.
const maxBodySize = 1 << 20

// Server exposes the scraper over HTTP under /api.
type Server struct {
	deps    *Dependencies
	router  *mux.Router
	timeout time.Duration
}

// NewServer returns a Server serving deps.
func NewServer(deps *Dependencies) *Server {
	s := &Server{
		deps:    deps,
		router:  mux.NewRouter(),
		timeout: DefaultRequestTimeout,
	}
	if deps.Config != nil && deps.Config.RequestTimeout > 0 {
		s.timeout = deps.Config.RequestTimeout
	}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/seasons", s.handleSeasons).Methods(http.MethodGet)
	api.HandleFunc("/pdfs/{folderDocId}", s.handleSeasonPDFs).Methods(http.MethodGet)
	api.HandleFunc("/pdfs-direct", s.handleDirectPDFs).Methods(http.MethodGet)
	api.HandleFunc("/pdfs-all", s.handleAllPDFs).Methods(http.MethodGet)
	api.HandleFunc("/documents", s.handleDocuments(agrocostos.TierPublic)).Methods(http.MethodPost)
	api.HandleFunc("/documents-complete", s.handleDocuments(agrocostos.TierInternal)).Methods(http.MethodPost)
	api.HandleFunc("/fira-documents", s.handleFiraDocuments).Methods(http.MethodPost)
	api.HandleFunc("/fira-documents/report", s.handleFiraReport).Methods(http.MethodPost)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	s.router.ServeHTTP(w, r.WithContext(ctx))
}

func (s *Server) handleSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := s.deps.Seasons.FindSeasons(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, seasons)
}

func (s *Server) handleSeasonPDFs(w http.ResponseWriter, r *http.Request) {
	links, err := seasonPDFs(r.Context(), s.deps, mux.Vars(r)["folderDocId"])
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, links)
}

func (s *Server) handleDirectPDFs(w http.ResponseWriter, r *http.Request) {
	links, err := s.deps.PDFs.FindDirectPDFs(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, links)
}

func (s *Server) handleAllPDFs(w http.ResponseWriter, r *http.Request) {
	res, err := allPDFs(r.Context(), s.deps)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, res)
}

func (s *Server) handleDocuments(tier agrocostos.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q agrocostos.DocumentQuery
		if err := decodeBody(w, r, &q); err != nil {
			s.respondError(w, r, err)
			return
		}
		// Season lookup by name is the fira-documents route.
		q.Season = ""
		q.Tier = tier

		res, err := s.deps.Documents.QueryDocuments(r.Context(), &q)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		s.respond(w, http.StatusOK, res)
	}
}

// firaRequest is the body of the season-by-name routes.
type firaRequest struct {
	Season   string `json:"season"`
	CropType string `json:"cropType"`
	Region   string `json:"region,omitempty"`
}

func (req *firaRequest) query() (*agrocostos.DocumentQuery, error) {
	var missing []string
	if req.Season == "" {
		missing = append(missing, "season")
	}
	if req.CropType == "" {
		missing = append(missing, "cropType")
	}
	if len(missing) > 0 {
		return nil, &agrocostos.ValidationError{Fields: missing}
	}
	// Filtering by crop needs the whole listing, so these routes use the
	// internal page cap.
	return &agrocostos.DocumentQuery{
		Season:   req.Season,
		CropType: req.CropType,
		Region:   req.Region,
		Tier:     agrocostos.TierInternal,
	}, nil
}

func (s *Server) handleFiraDocuments(w http.ResponseWriter, r *http.Request) {
	var req firaRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	q, err := req.query()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.deps.Documents.QueryDocuments(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, res)
}

func (s *Server) handleFiraReport(w http.ResponseWriter, r *http.Request) {
	var req firaRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	q, err := req.query()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.deps.Documents.Report(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, res)
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := agrocostos.ErrorCode(err)
	status := errorStatus(code)
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError && s.deps.Logger != nil {
		s.deps.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
	s.respond(w, status, errorResponse{
		Kind:    code,
		Message: agrocostos.ErrorMessage(err),
		Field:   agrocostos.ErrorField(err),
	})
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps an application error code to an HTTP status.
func errorStatus(code string) int {
	switch code {
	case agrocostos.EINVALID, agrocostos.EPATTERN:
		return http.StatusBadRequest
	case agrocostos.ENOTFOUND:
		return http.StatusNotFound
	case agrocostos.EEXTRACT:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return &agrocostos.ValidationError{Fields: []string{"body"}, Reason: "malformed JSON body"}
	}
	return nil
}
