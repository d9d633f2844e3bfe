package web

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/autochart/internal/core"
	"github.com/JonMunkholm/autochart/internal/render"
	"github.com/JonMunkholm/autochart/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

// maxFormMemory is how much of a multipart form is held in memory before
// spilling to temp files.
const maxFormMemory = 32 << 20

// multipartOverhead is allowed on top of the file size limit for
// boundaries and the theme fields.
const multipartOverhead = 64 << 10

// maxHistoryLimit caps the page size of /api/history.
const maxHistoryLimit = 500

var errNoFile = errors.New("no file provided")

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	renderComponent(w, r, http.StatusOK, s.uploadPage(r, nil))
}

// handleUpload runs one pass and renders the preview and chart.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	sess := core.NewSession(r.FormValue("categorical_theme"), r.FormValue("continuous_theme"))
	res, err := s.service.Analyze(WithRequestMetadata(r.Context(), r), sess, up)
	if res == nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	view, err := s.passView(res)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	result := templates.PassResult(view)
	if isHTMX(r) {
		renderComponent(w, r, http.StatusOK, result)
		return
	}
	renderComponent(w, r, http.StatusOK, s.uploadPage(r, result))
}

// ColumnInfo describes one ingested column.
type ColumnInfo struct {
	Name string          `json:"name"`
	Kind core.ColumnKind `json:"kind"`
}

// AnalyzeResponse is the JSON body of /api/analyze.
type AnalyzeResponse struct {
	*core.PassResult
	Rows    int            `json:"rows"`
	Columns []ColumnInfo   `json:"columns"`
	Warning *ErrorResponse `json:"warning,omitempty"`
	Image   string         `json:"image,omitempty"` // data: URI when ?render= is set
}

// handleAnalyze runs one pass and returns the classification and chart
// spec as JSON. ?render=png or ?render=svg also inlines the chart image.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var format render.Format
	if q := r.URL.Query().Get("render"); q != "" {
		f, err := render.ParseFormat(q)
		if err != nil {
			s.respondError(w, r, err, http.StatusBadRequest)
			return
		}
		format = f
	}

	up, err := s.readUpload(w, r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	sess := core.NewSession(r.FormValue("categorical_theme"), r.FormValue("continuous_theme"))
	res, err := s.service.Analyze(WithRequestMetadata(r.Context(), r), sess, up)
	if res == nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	resp := AnalyzeResponse{
		PassResult: res,
		Rows:       res.Dataset.NumRows(),
		Columns:    make([]ColumnInfo, 0, res.Dataset.NumColumns()),
	}
	for _, c := range res.Dataset.Columns {
		resp.Columns = append(resp.Columns, ColumnInfo{Name: c.Name, Kind: c.Kind})
	}
	if err != nil {
		msg := core.MapError(err)
		resp.Warning = &ErrorResponse{Error: msg.Message, Message: msg.Message, Action: msg.Action, Code: msg.Code}
	}
	if format != "" && res.HasChart {
		img, err := s.chartDataURI(res, format)
		if err != nil && !errors.Is(err, render.ErrNoData) {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		resp.Image = img
	}

	writeJSON(w, http.StatusOK, resp)
}

// themeJSON is one entry of /api/themes.
type themeJSON struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

// handleThemes lists both theme enumerations with their colors.
func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	categorical := make([]themeJSON, 0)
	for _, name := range core.CategoricalThemes() {
		categorical = append(categorical, themeJSON{Name: name, Colors: core.CategoricalColors(name)})
	}
	continuous := make([]themeJSON, 0)
	for _, name := range core.ContinuousThemes() {
		continuous = append(continuous, themeJSON{Name: name, Colors: core.ContinuousColors(name)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"categorical": categorical,
		"continuous":  continuous,
		"defaults": map[string]string{
			"categorical": core.ResolveCategoricalTheme(s.cfg.Theme.Categorical),
			"continuous":  core.ResolveContinuousTheme(s.cfg.Theme.Continuous),
		},
	})
}

// formatJSON is one entry of /api/formats.
type formatJSON struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Extensions []string `json:"extensions"`
}

// handleFormats lists the accepted upload formats.
func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	defs := core.Formats()
	out := make([]formatJSON, len(defs))
	for i, d := range defs {
		out[i] = formatJSON{Key: d.Key, Label: d.Label, Extensions: d.Extensions}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"formats":       out,
		"max_file_size": s.cfg.Upload.MaxFileSize,
	})
}

// handleHistory returns recent passes, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", s.cfg.History.RecentLimit)
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	passes, err := s.service.RecentPasses(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("list pass history: %w", err), http.StatusInternalServerError)
		return
	}
	if passes == nil {
		passes = []core.PassRecord{}
	}

	_, noop := s.service.History().(core.NoopHistory)
	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": !noop,
		"passes":  passes,
	})
}

// handleHealth reports liveness and pass slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"passes": s.service.LimiterStatus(),
	})
}

// readUpload reads the "file" form field, bounded by the upload limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (core.Upload, error) {
	maxSize := int64(s.cfg.Upload.MaxFileSize)
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return core.Upload{}, fmt.Errorf("%w: upload exceeds the %s limit", core.ErrFileTooLarge, humanize.Bytes(uint64(maxSize)))
		}
		return core.Upload{}, fmt.Errorf("%w: %v", errNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return core.Upload{}, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return core.Upload{}, fmt.Errorf("read upload: %w", err)
	}
	return core.Upload{FileName: header.Filename, Data: data}, nil
}

// passView builds the template view of a finished pass, rendering the
// chart when one was selected.
func (s *Server) passView(res *core.PassResult) (templates.PassView, error) {
	view := templates.PassView{
		FileName: res.FileName,
		Preview:  s.preview(res.Dataset),
		Empty:    res.Empty,
		Elapsed:  res.Duration.Round(time.Millisecond).String(),
	}
	if res.HasChart {
		img, err := s.chartDataURI(res, render.FormatPNG)
		switch {
		case errors.Is(err, render.ErrNoData):
			// Columns typed numeric but holding only nulls; nothing to draw.
		case err != nil:
			return view, err
		default:
			view.ChartTitle = res.Chart.Title
			view.ChartImage = img
		}
	}
	return view, nil
}

func (s *Server) chartDataURI(res *core.PassResult, format render.Format) (string, error) {
	var buf bytes.Buffer
	if err := render.RenderWithOptions(&buf, res.Chart, res.Dataset, format, s.renderOptions()); err != nil {
		return "", err
	}
	return "data:" + format.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// preview converts ds for the preview table, honoring UPLOAD_PREVIEW_ROWS.
func (s *Server) preview(ds *core.Dataset) templates.PreviewParams {
	total := ds.NumRows()
	shown := total
	if limit := s.cfg.Upload.PreviewRows; limit > 0 && limit < total {
		shown = limit
	}

	p := templates.PreviewParams{
		Columns:   ds.ColumnNames(),
		Kinds:     make([]string, ds.NumColumns()),
		Rows:      make([][]string, shown),
		TotalRows: total,
	}
	for i, c := range ds.Columns {
		p.Kinds[i] = c.Kind.String()
	}
	for i := range p.Rows {
		p.Rows[i] = ds.Row(i)
	}
	return p
}

// uploadPage wraps result in the full page, keeping the submitted themes
// selected.
func (s *Server) uploadPage(r *http.Request, result templ.Component) templ.Component {
	cat := r.FormValue("categorical_theme")
	if cat == "" {
		cat = s.cfg.Theme.Categorical
	}
	cont := r.FormValue("continuous_theme")
	if cont == "" {
		cont = s.cfg.Theme.Continuous
	}

	return templates.UploadPage(templates.UploadFormParams{
		Extensions:          core.SupportedExtensions(),
		CategoricalThemes:   core.CategoricalThemes(),
		ContinuousThemes:    core.ContinuousThemes(),
		SelectedCategorical: core.ResolveCategoricalTheme(cat),
		SelectedContinuous:  core.ResolveContinuousTheme(cont),
		MaxSize:             s.cfg.Upload.MaxFileSize.String(),
	}, result)
}

// renderComponent writes c as an HTML response with the given status.
func renderComponent(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
