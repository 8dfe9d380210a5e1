package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/adreport/internal/ingest"
	"github.com/AngelCh415/adreport/internal/metrics"
	"github.com/AngelCh415/adreport/internal/models"
	"github.com/AngelCh415/adreport/internal/store"
	"github.com/AngelCh415/adreport/internal/utils"
)

type handler struct {
	log       *slog.Logger
	in        *ingest.Ingestor
	mSvc      *metrics.Service
	maxUpload int64
}

func NewRouter(log *slog.Logger, in *ingest.Ingestor, mSvc *metrics.Service, maxUpload int64) http.Handler {
	h := &handler{log: log, in: in, mSvc: mSvc, maxUpload: maxUpload}

	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Instrument)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/sessions", h.upload)
	mux.Post("/sessions/fetch", h.fetch)
	mux.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.session)
		r.Delete("/", h.close)
		r.Put("/mapping", h.remap)
		r.Get("/summary", h.summary)
		r.Get("/trend", h.trend)
		r.Get("/views/{dimension}", h.view)
		r.Get("/segments", h.segments)
		r.Get("/actions", h.actions)
		r.Get("/actions.csv", h.actionsCSV)
		r.Get("/margin", h.margin)
	})

	return mux
}

// sessionView is what clients get back after load or remap.
type sessionView struct {
	store.Session
	Columns   []string      `json:"columns"`
	Prompt    ingest.Prompt `json:"prompt"`
	Campaigns []string      `json:"campaigns"`
	From      string        `json:"from,omitempty"`
	To        string        `json:"to,omitempty"`
}

func newSessionView(s store.Session, p ingest.Prompt) sessionView {
	v := sessionView{
		Session:   s,
		Columns:   s.Table.Columns,
		Prompt:    p,
		Campaigns: metrics.Campaigns(s.Table),
	}
	if first, last, ok := metrics.DateBounds(s.Table); ok {
		v.From, v.To = first.Format("2006-01-02"), last.Format("2006-01-02")
	}
	return v
}

func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		http.Error(w, "multipart form with a file field required", http.StatusBadRequest)
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required", http.StatusBadRequest)
		return
	}
	defer f.Close()

	var mapping ingest.Mapping
	if raw := r.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			http.Error(w, "mapping must be a JSON object", http.StatusBadRequest)
			return
		}
	}
	sess, prompt, err := h.in.Upload(fh.Filename, f, mapping)
	if err != nil {
		h.fail(w, err, prompt)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSONStatus(w, http.StatusCreated, newSessionView(sess, prompt))
}

type fetchRequest struct {
	URL     string         `json:"url"`
	Name    string         `json:"name"`
	Mapping ingest.Mapping `json:"mapping"`
}

func (h *handler) fetch(w http.ResponseWriter, r *http.Request) {
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		http.Error(w, "url required", http.StatusBadRequest)
		return
	}
	sess, prompt, err := h.in.FetchURL(r.Context(), req.URL, req.Name, req.Mapping)
	if err != nil {
		h.fail(w, err, prompt)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSONStatus(w, http.StatusCreated, newSessionView(sess, prompt))
}

func (h *handler) remap(w http.ResponseWriter, r *http.Request) {
	var mapping ingest.Mapping
	if err := json.NewDecoder(r.Body).Decode(&mapping); err != nil {
		http.Error(w, "mapping must be a JSON object", http.StatusBadRequest)
		return
	}
	sess, prompt, err := h.in.Remap(chi.URLParam(r, "id"), mapping)
	if err != nil {
		h.fail(w, err, prompt)
		return
	}
	writeJSON(w, newSessionView(sess, prompt))
}

func (h *handler) session(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, newSessionView(sess, ingest.Prompt{
		Fields:  ingest.PromptFields(sess.Table.Columns),
		Choices: sess.Raw.Columns,
	}))
}

func (h *handler) close(w http.ResponseWriter, r *http.Request) {
	if !h.in.Close(chi.URLParam(r, "id")) {
		http.Error(w, ingest.ErrNoSession.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	sess, p, ok := h.params(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.mSvc.Summary(sess.Table, p))
}

func (h *handler) trend(w http.ResponseWriter, r *http.Request) {
	sess, p, ok := h.params(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.mSvc.Trend(sess.Table, p))
}

func (h *handler) view(w http.ResponseWriter, r *http.Request) {
	dim, err := metrics.ParseDimension(chi.URLParam(r, "dimension"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sess, p, ok := h.params(w, r)
	if !ok {
		return
	}
	rows, err := h.mSvc.View(sess.Table, dim, p)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, rows)
}

func (h *handler) segments(w http.ResponseWriter, r *http.Request) {
	sess, p, ok := h.params(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.mSvc.Segments(sess.Table, p))
}

func (h *handler) actions(w http.ResponseWriter, r *http.Request) {
	sess, p, ok := h.params(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.mSvc.Actions(sess.Table, p))
}

func (h *handler) actionsCSV(w http.ResponseWriter, r *http.Request) {
	sess, p, ok := h.params(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := metrics.WriteActionsCSV(&buf, h.mSvc.Actions(sess.Table, p)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+metrics.ActionsFilename+`"`)
	http.ServeContent(w, r, metrics.ActionsFilename, time.Time{}, bytes.NewReader(buf.Bytes()))
}

func (h *handler) margin(w http.ResponseWriter, r *http.Request) {
	sess, p, ok := h.params(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.mSvc.Margin(sess.Table, p))
}

func (h *handler) load(w http.ResponseWriter, r *http.Request) (store.Session, bool) {
	sess, err := h.in.Session(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return store.Session{}, false
	}
	return sess, true
}

func (h *handler) params(w http.ResponseWriter, r *http.Request) (store.Session, metrics.Params, bool) {
	sess, ok := h.load(w, r)
	if !ok {
		return store.Session{}, metrics.Params{}, false
	}
	p, err := h.mSvc.Params(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return store.Session{}, metrics.Params{}, false
	}
	return sess, p, true
}

type errorBody struct {
	Error   string         `json:"error"`
	Missing []string       `json:"missing,omitempty"`
	Prompt  *ingest.Prompt `json:"prompt,omitempty"`
}

// fail maps pipeline errors onto statuses. Schema and mapping failures
// carry the prompt so the caller can retry with a manual mapping.
func (h *handler) fail(w http.ResponseWriter, err error, prompt ingest.Prompt) {
	var (
		le *models.LoadError
		se *models.SchemaError
		me *models.MappingError
	)
	body := errorBody{Error: err.Error()}
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, ingest.ErrNoSession):
		code = http.StatusNotFound
	case errors.As(err, &le):
		code = http.StatusUnprocessableEntity
	case errors.As(err, &se):
		code = http.StatusUnprocessableEntity
		body.Missing = se.Missing
		body.Prompt = &prompt
	case errors.As(err, &me):
		code = http.StatusBadRequest
		body.Prompt = &prompt
	default:
		h.log.Error("request failed", slog.String("err", err.Error()))
	}
	writeJSONStatus(w, code, body)
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}
