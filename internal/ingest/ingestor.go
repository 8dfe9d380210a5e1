package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/AngelCh415/adreport/internal/models"
	"github.com/AngelCh415/adreport/internal/store"
	"github.com/AngelCh415/adreport/internal/utils"
)

// ErrNoSession is returned for unknown or evicted session IDs.
var ErrNoSession = errors.New("session not found")

type Ingestor struct {
	pipe  *Pipeline
	fetch *Fetcher
	st    *store.MemoryStore
	log   *slog.Logger
}

func NewIngestor(pipe *Pipeline, fetch *Fetcher, st *store.MemoryStore, log *slog.Logger) *Ingestor {
	return &Ingestor{pipe: pipe, fetch: fetch, st: st, log: log}
}

// on schema or mapping failure the prompt says what to map
func (in *Ingestor) Upload(name string, r io.Reader, manual Mapping) (store.Session, Prompt, error) {
	raw, err := Load(name, r)
	if err != nil {
		utils.Uploads.WithLabelValues(resultLabel(err)).Inc()
		in.log.Warn("load failed", slog.String("file", name), slog.String("err", err.Error()))
		return store.Session{}, Prompt{}, err
	}
	res, err := in.pipe.Build(raw, manual)
	utils.Uploads.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		return store.Session{}, res.Prompt, err
	}
	sess := in.st.Create(store.Session{
		Raw:     raw,
		Mapping: manual,
		Table:   res.Table,
		Report:  res.Report,
	})
	in.log.Info("session opened", slog.String("session", sess.ID), slog.String("file", name))
	return sess, res.Prompt, nil
}

// name defaults to the last path element of url
func (in *Ingestor) FetchURL(ctx context.Context, url, name string, manual Mapping) (store.Session, Prompt, error) {
	if name == "" {
		name = path.Base(strings.SplitN(url, "?", 2)[0])
	}
	body, err := in.fetch.Fetch(ctx, url)
	if err != nil {
		return store.Session{}, Prompt{}, &models.LoadError{Name: name, Reason: "fetch", Err: err}
	}
	return in.Upload(name, bytes.NewReader(body), manual)
}

// a failed remap keeps the previous table
func (in *Ingestor) Remap(id string, manual Mapping) (store.Session, Prompt, error) {
	sess, ok := in.st.Get(id)
	if !ok {
		return store.Session{}, Prompt{}, ErrNoSession
	}
	res, err := in.pipe.Build(sess.Raw, manual)
	if err != nil {
		return sess, res.Prompt, err
	}
	sess.Mapping = manual
	sess.Table = res.Table
	sess.Report = res.Report
	if !in.st.Replace(sess) {
		return store.Session{}, Prompt{}, ErrNoSession
	}
	return sess, res.Prompt, nil
}

func (in *Ingestor) Session(id string) (store.Session, error) {
	sess, ok := in.st.Get(id)
	if !ok {
		return store.Session{}, ErrNoSession
	}
	return sess, nil
}

func (in *Ingestor) Close(id string) bool { return in.st.Delete(id) }

func resultLabel(err error) string {
	var (
		le *models.LoadError
		se *models.SchemaError
		me *models.MappingError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &le):
		return "load_error"
	case errors.As(err, &se):
		return "schema_error"
	case errors.As(err, &me):
		return "mapping_error"
	}
	return "error"
}
