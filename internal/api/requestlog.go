package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation"
)

// requestLogFormatter sends one line per request to the handler's logger.
// A logrus logger gets the request as fields, so JSON logs stay structured.
type requestLogFormatter struct {
	logger calculation.Logger
}

func (f *requestLogFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &requestLogEntry{
		logger:    f.logger,
		method:    r.Method,
		path:      r.URL.Path,
		remote:    r.RemoteAddr,
		requestID: middleware.GetReqID(r.Context()),
	}
}

type requestLogEntry struct {
	logger    calculation.Logger
	method    string
	path      string
	remote    string
	requestID string
}

func (e *requestLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra interface{}) {
	if fl, ok := e.logger.(logrus.FieldLogger); ok {
		fl.WithFields(logrus.Fields{
			"method":     e.method,
			"path":       e.path,
			"remote":     e.remote,
			"request_id": e.requestID,
			"status":     status,
			"bytes":      bytes,
			"elapsed":    elapsed.String(),
		}).Info("request")
		return
	}
	e.logger.Infof("%s %s %d %dB in %s (request %s)", e.method, e.path, status, bytes, elapsed, e.requestID)
}

func (e *requestLogEntry) Panic(v interface{}, stack []byte) {
	e.logger.Errorf("panic serving %s %s (request %s): %v\n%s", e.method, e.path, e.requestID, v, stack)
}
