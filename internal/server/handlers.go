package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/linkdrift/pkg/buildinfo"
	"github.com/matzehuels/linkdrift/pkg/errors"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/observability"
	"github.com/matzehuels/linkdrift/pkg/pipeline"
	"github.com/matzehuels/linkdrift/pkg/scene"
)

// layoutRequest is a scene plus optional per-request knobs.
type layoutRequest struct {
	scene.Scene
	Options *requestOptions `json:"options,omitempty"`
}

// requestOptions are the pipeline knobs a client may set.
type requestOptions struct {
	Policy   string          `json:"policy,omitempty"`
	Salt     uint64          `json:"salt,omitempty"`
	RailSeed uint64          `json:"rail_seed,omitempty"`
	Resizes  []geometry.Size `json:"resizes,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type statsResponse struct {
	observability.Snapshot
	Sessions int `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Snapshot: s.counters.Snapshot(),
		Sessions: s.sessions.Len(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sc, opts, err := s.decode(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	layout, _, err := s.runner.Layout(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	sc, opts, err := s.decode(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{format}
	if opts.TextCols, err = queryInt(r, "cols"); err != nil {
		s.writeError(w, err)
		return
	}
	if opts.TextRows, err = queryInt(r, "rows"); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), sc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// decode reads the scene and merges request options over the config.
func (s *Server) decode(r *http.Request) (*scene.Scene, pipeline.Options, error) {
	opts := pipeline.OptionsFromConfig(s.cfg)
	if sess := sessionFrom(r.Context()); sess != nil {
		opts.SessionID = sess.ID
		opts.SeedTTL = sess.Remaining()
	}

	var req layoutRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, opts, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, opts, errors.Wrap(errors.ErrCodeInvalidScene, err, "parse scene")
	}
	if err := req.Scene.Validate(); err != nil {
		return nil, opts, err
	}

	if o := req.Options; o != nil {
		if o.Policy != "" {
			opts.Policy = o.Policy
		}
		if o.Salt != 0 {
			opts.Salt = o.Salt
		}
		if o.RailSeed != 0 {
			opts.RailSeed = o.RailSeed
		}
		opts.Resizes = o.Resizes
	}
	opts.Logger = s.logger
	return &req.Scene, opts, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", key, v)
	}
	return n, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
