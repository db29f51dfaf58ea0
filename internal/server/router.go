package server

import (
	"context"
	"cooked/internal/extract"
	"cooked/internal/metrics"
	"cooked/internal/rating"
	"cooked/internal/schedule"
	"cooked/internal/social"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
)

// maxJSONBody limits JSON request bodies; uploads have their own configurable limit.
const maxJSONBody = 1 << 20

// ScheduleAnalyzer scores schedules given as class lists or documents.
type ScheduleAnalyzer interface {
	Analyze(ctx context.Context, inputs []schedule.ClassInput) (schedule.AnalysisResult, error)
	AnalyzeDocument(ctx context.Context, doc extract.Document) (schedule.AnalysisResult, error)
	Extract(ctx context.Context, doc extract.Document) ([]schedule.ClassInput, error)
}

// MentionSearcher finds social media posts about a professor.
type MentionSearcher interface {
	Search(ctx context.Context, professor string) ([]social.Post, error)
}

type classesRequest struct {
	Classes []schedule.ClassInput `json:"classes"`
}

type classesResponse struct {
	Classes []schedule.ClassInput `json:"classes"`
}

type textRequest struct {
	Text string `json:"text"`
}

// ApiV1Router manages routes for API version 1.
// Handles schedule analysis, course list extraction, professor lookups and static files.
type ApiV1Router struct {
	// analyzer — scores schedules and extracts class lists from documents.
	analyzer ScheduleAnalyzer
	// ratings — professor rating lookup; nil when disabled.
	ratings rating.Lookup
	// mentions — social media search; nil when disabled.
	mentions MentionSearcher
	// static — path to directory with static files.
	// If empty, static file serving is disabled.
	static string
	// maxUpload — maximum size in bytes of an uploaded document.
	maxUpload int64
}

// Mux returns a configured *http.ServeMux with registered handlers.
// Registers the following routes:
// - POST /api/v1/analyses — scores a JSON class list
// - POST /api/v1/analyses/text — extracts classes from free text and scores them
// - POST /api/v1/analyses/upload — extracts classes from an uploaded file and scores them
// - POST /api/v1/extractions — extracts classes from text or a file without scoring
// - GET /api/v1/professors/{name}/rating — professor rating
// - GET /api/v1/professors/{name}/mentions — social media posts about a professor
// - GET /healthz, GET /metrics
// - GET /static/... — serves static files (if enabled)
func (ar *ApiV1Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/analyses", ar.analysesHandler)
	mux.HandleFunc("POST /api/v1/analyses/text", ar.textAnalysisHandler)
	mux.HandleFunc("POST /api/v1/analyses/upload", ar.uploadAnalysisHandler)
	mux.HandleFunc("POST /api/v1/extractions", ar.extractionsHandler)
	mux.HandleFunc("GET /api/v1/professors/{name}/rating", ar.ratingHandler)
	mux.HandleFunc("GET /api/v1/professors/{name}/mentions", ar.mentionsHandler)
	mux.HandleFunc("GET /healthz", ar.healthHandler)
	mux.Handle("GET /metrics", metrics.Handler())

	if len(ar.static) != 0 {
		fs := http.FileServer(http.Dir(ar.static))
		mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
	}

	return mux
}

// Handler returns the router wrapped with request metrics.
func (ar *ApiV1Router) Handler() http.Handler {
	return instrument(ar.Mux())
}

// analysesHandler scores a JSON body {"classes":[...]}.
func (ar *ApiV1Router) analysesHandler(w http.ResponseWriter, r *http.Request) {
	var request classesRequest
	if err := decodeJSON(w, r, &request); err != nil {
		writeError(w, err)
		return
	}

	result, err := ar.analyzer.Analyze(r.Context(), request.Classes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// textAnalysisHandler scores a schedule described in free text {"text":"..."}.
func (ar *ApiV1Router) textAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := ar.textDocument(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := ar.analyzer.AnalyzeDocument(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// uploadAnalysisHandler scores a schedule uploaded as multipart field "file".
func (ar *ApiV1Router) uploadAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := ar.fileDocument(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := ar.analyzer.AnalyzeDocument(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// extractionsHandler returns the classes found in a JSON text body or a multipart upload.
func (ar *ApiV1Router) extractionsHandler(w http.ResponseWriter, r *http.Request) {
	var (
		doc extract.Document
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		doc, err = ar.fileDocument(w, r)
	} else {
		doc, err = ar.textDocument(w, r)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	classes, err := ar.analyzer.Extract(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classesResponse{Classes: classes})
}

// ratingHandler returns the rating of the professor named in the path.
// Returns 404 if the lookup is disabled or the professor has no data.
func (ar *ApiV1Router) ratingHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	if ar.ratings == nil {
		writeJSON(w, http.StatusNotFound, map[string]apiError{"error": {Code: "disabled", Message: "rating lookup is disabled"}})
		return
	}

	professorRating, err := ar.ratings.LookupRating(r.Context(), name)
	if err != nil {
		writeError(w, upstream("ratings", err))
		return
	}
	if professorRating == nil {
		writeJSON(w, http.StatusNotFound, map[string]apiError{"error": {Code: "not_found", Message: "no rating for " + name}})
		return
	}
	writeJSON(w, http.StatusOK, professorRating)
}

// mentionsHandler returns social media posts about the professor named in the path.
func (ar *ApiV1Router) mentionsHandler(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	if ar.mentions == nil {
		writeJSON(w, http.StatusNotFound, map[string]apiError{"error": {Code: "disabled", Message: "mentions search is disabled"}})
		return
	}

	posts, err := ar.mentions.Search(r.Context(), name)
	if err != nil {
		writeError(w, upstream("social", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]social.Post{"posts": posts})
}

func (ar *ApiV1Router) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (ar *ApiV1Router) textDocument(w http.ResponseWriter, r *http.Request) (extract.Document, error) {
	var request textRequest
	if err := decodeJSON(w, r, &request); err != nil {
		return extract.Document{}, err
	}
	if strings.TrimSpace(request.Text) == "" {
		return extract.Document{}, errEmptyText
	}
	return extract.NewTextDocument(request.Text), nil
}

func (ar *ApiV1Router) fileDocument(w http.ResponseWriter, r *http.Request) (extract.Document, error) {
	if r.ContentLength > ar.maxUpload {
		return extract.Document{}, &http.MaxBytesError{Limit: ar.maxUpload}
	}
	r.Body = http.MaxBytesReader(w, r.Body, ar.maxUpload)
	if err := r.ParseMultipartForm(ar.maxUpload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return extract.Document{}, err
		}
		return extract.Document{}, errMissingFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return extract.Document{}, errMissingFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return extract.Document{}, err
	}

	return extract.NewFileDocument(header.Filename, header.Header.Get("Content-Type"), data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errInvalidJSON
	}
	return nil
}

// NewApiV1Router creates a new API v1 router.
// Parameters:
// - analyzer: schedule analyzer
// - ratings: professor rating lookup, may be nil
// - mentions: social media search, may be nil
// - static: path to static files (can be empty)
// - maxUpload: maximum upload size in bytes
//
// Returns pointer to configured ApiV1Router.
func NewApiV1Router(
	analyzer ScheduleAnalyzer,
	ratings rating.Lookup,
	mentions MentionSearcher,
	static string,
	maxUpload int64,
) *ApiV1Router {
	return &ApiV1Router{
		analyzer:  analyzer,
		ratings:   ratings,
		mentions:  mentions,
		static:    static,
		maxUpload: maxUpload,
	}
}
