package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/tagextract/internal/outline"
	"github.com/dgallion1/tagextract/internal/parser"
	"github.com/dgallion1/tagextract/internal/report"
)

type extractRequest struct {
	Text     string `json:"text"`
	Tag      string `json:"tag"`
	Dialect  string `json:"dialect,omitempty"`
	Strategy string `json:"strategy,omitempty"`
	TabWidth int    `json:"tab_width,omitempty"`
}

type extractResponse struct {
	Tag         string `json:"tag"`
	Text        string `json:"text"`
	Summary     string `json:"summary"`
	Lines       []int  `json:"lines"`
	Occurrences int    `json:"occurrences"`
}

type tagsResponse struct {
	Tags []outline.TagSummary `json:"tags"`
}

// options is a request's settings after applying server defaults.
type options struct {
	dialect  outline.Dialect
	strategy outline.Strategy
	tabWidth int
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Tag) == "" {
		jsonError(w, "tag is required", http.StatusBadRequest)
		return
	}
	opts, err := s.resolve(req.Dialect, req.Strategy, req.TabWidth)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.extract(w, req.Text, req.Tag, opts)
}

// handleExtractFile extracts from an uploaded file, converting html, docx
// and pdf inputs to outline text first. Form fields: file, tag, and the
// optional dialect, strategy and tab_width.
func (s *Server) handleExtractFile(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	tag := r.FormValue("tag")
	if strings.TrimSpace(tag) == "" {
		jsonError(w, "tag is required", http.StatusBadRequest)
		return
	}
	tabWidth := 0
	if v := r.FormValue("tab_width"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, "invalid tab_width: "+v, http.StatusBadRequest)
			return
		}
		tabWidth = n
	}
	opts, err := s.resolve(r.FormValue("dialect"), r.FormValue("strategy"), tabWidth)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.Server.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.Server.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.Server.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	filename := sanitizeFilename(header.Filename)
	text, err := parser.ForFile(filename, opts.dialect).Load(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, fmt.Sprintf("convert %s: %s", filepath.Ext(filename), err), http.StatusUnprocessableEntity)
		return
	}
	s.extract(w, text, tag, opts)
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts, err := s.resolve(req.Dialect, req.Strategy, req.TabWidth)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, idx := s.cache.Get(req.Text, opts.dialect, opts.tabWidth)
	writeJSON(w, http.StatusOK, tagsResponse{Tags: idx.Summaries()})
}

func (s *Server) extract(w http.ResponseWriter, text, tag string, opts options) {
	doc, idx := s.cache.Get(text, opts.dialect, opts.tabWidth)

	start := time.Now()
	res, err := outline.NewExtractor(opts.strategy).ExtractIndexed(doc, idx, outline.NormalizeTag(tag))
	var nf *outline.TagNotFoundError
	if errors.As(err, &nf) {
		s.stats.RecordMiss()
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":     "tag not found",
			"tag":       nf.Tag,
			"available": nf.Available,
		})
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.stats.Record(time.Since(start))

	writeJSON(w, http.StatusOK, extractResponse{
		Tag:         res.Tag,
		Text:        res.Text,
		Summary:     report.Summary(opts.dialect, tag, res.Text),
		Lines:       res.Lines,
		Occurrences: len(res.Occurrences),
	})
}

// resolve fills empty request settings from the server configuration.
func (s *Server) resolve(dialect, strategy string, tabWidth int) (options, error) {
	if dialect == "" {
		dialect = s.cfg.Dialect
	}
	if dialect == "" {
		dialect = outline.Markdown.Name()
	}
	d, err := outline.DialectByName(dialect)
	if err != nil {
		return options{}, err
	}

	if strategy == "" {
		strategy = s.cfg.Strategy
	}
	st, err := outline.StrategyByName(strategy)
	if err != nil {
		return options{}, err
	}

	if tabWidth < 0 {
		return options{}, fmt.Errorf("tab_width must be positive, got %d", tabWidth)
	}
	if tabWidth == 0 {
		tabWidth = s.cfg.TabWidth
	}
	return options{dialect: d, strategy: st, tabWidth: tabWidth}, nil
}

// decode reads a size-limited JSON body, writing the error response itself.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.Server.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
