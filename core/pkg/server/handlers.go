package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/madcok-co/editorkit/core/pkg/contracts"
	"github.com/madcok-co/editorkit/core/pkg/editor"
	"github.com/madcok-co/editorkit/core/pkg/profile"
	"github.com/madcok-co/editorkit/core/pkg/registry"
	"github.com/madcok-co/editorkit/core/pkg/render"
)

// checkParam is the query parameter selecting checked creation
const checkParam = "check"

// HTTPError represents a structured HTTP error
type HTTPError struct {
	StatusCode int
	Message    string
	Internal   error // Internal error, not exposed to client
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// renderResponse is returned by the render endpoint
type renderResponse struct {
	Editor   string           `json:"editor"`
	Check    bool             `json:"check"`
	Fragment *render.Fragment `json:"fragment"`
	HTML     string           `json:"html"`
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handle(s.health))
	mux.HandleFunc("GET /editors", s.handle(s.listEditors))
	mux.HandleFunc("GET /editors/{name}", s.handle(s.getEditor))
	mux.HandleFunc("POST /editors/{name}/render", s.handle(s.renderEditor))
	mux.HandleFunc("GET /editors/{name}/preview", s.handle(s.previewEditor))
	mux.HandleFunc("GET /profiles", s.handle(s.listProfiles))
	mux.HandleFunc("GET /profiles/{name}/preview", s.handle(s.previewProfile))
}

// handle adapts a handlerFunc, turning returned errors into JSON responses
func (s *Server) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.MaxBodySize > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodySize)
		}
		if err := fn(w, r); err != nil {
			s.writeError(w, r, err)
		}
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listEditors(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, s.svc.Registry().Describe())
}

func (s *Server) getEditor(w http.ResponseWriter, r *http.Request) error {
	d, err := s.svc.Registry().Lookup(r.PathValue("name"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, d)
}

func (s *Server) renderEditor(w http.ResponseWriter, r *http.Request) error {
	name := r.PathValue("name")
	check, err := checkFlag(r)
	if err != nil {
		return err
	}

	var cfg contracts.EditorConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: "request body must be a JSON object", Internal: err}
	}

	fragment, err := s.svc.Render(r.Context(), name, cfg, check)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, renderResponse{
		Editor:   name,
		Check:    check,
		Fragment: fragment,
		HTML:     fragment.HTML(),
	})
}

func (s *Server) previewEditor(w http.ResponseWriter, r *http.Request) error {
	name := r.PathValue("name")
	check, err := checkFlag(r)
	if err != nil {
		return err
	}

	fragment, err := s.svc.Render(r.Context(), name, queryConfig(r), check)
	if err != nil {
		return err
	}
	return writePage(w, name+" preview", fragment)
}

func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) error {
	profiles, err := s.svc.Profiles(r.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) previewProfile(w http.ResponseWriter, r *http.Request) error {
	name := r.PathValue("name")
	fragment, err := s.svc.RenderProfile(r.Context(), name)
	if err != nil {
		return err
	}
	return writePage(w, name+" profile preview", fragment)
}

// checkFlag parses ?check=, defaulting to false
func checkFlag(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get(checkParam)
	if raw == "" {
		return false, nil
	}
	check, err := strconv.ParseBool(raw)
	if err != nil {
		return false, NewHTTPError(http.StatusBadRequest, "check must be a boolean")
	}
	return check, nil
}

// queryConfig turns query parameters into an editor config. Repeated
// parameters become string lists.
func queryConfig(r *http.Request) contracts.EditorConfig {
	cfg := make(contracts.EditorConfig)
	for k, vs := range r.URL.Query() {
		if k == checkParam || len(vs) == 0 {
			continue
		}
		if len(vs) == 1 {
			cfg[k] = vs[0]
		} else {
			cfg[k] = vs
		}
	}
	return cfg
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

func writePage(w http.ResponseWriter, title string, fragment *render.Fragment) error {
	page, err := render.Page(title, fragment)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err = io.WriteString(w, page)
	return err
}

// writeError maps domain errors to status codes without exposing internal details
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		httpErr      *HTTPError
		incompatible *contracts.IncompatibleEditorError
		maxBytes     *http.MaxBytesError
	)

	switch {
	case errors.As(err, &maxBytes):
		_ = writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
	case errors.As(err, &httpErr):
		_ = writeJSON(w, httpErr.StatusCode, map[string]string{"error": httpErr.Message})
	case errors.As(err, &incompatible):
		_ = writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":  incompatible.Error(),
			"editor": incompatible.Editor,
			"reason": incompatible.Reason,
		})
	case errors.Is(err, registry.ErrFactoryNotFound), errors.Is(err, profile.ErrNotFound):
		_ = writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, editor.ErrInvalidConfig):
		_ = writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.logger.WithError(err).Error("request failed", "method", r.Method, "path", r.URL.Path)
		_ = writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
