package api

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation/calctest"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debugf(format string, args ...interface{}) {}
func (l *recordingLogger) Infof(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Warnf(format string, args ...interface{}) {}
func (l *recordingLogger) Errorf(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func TestRequestLogging_Logrus(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	router := NewRouter(NewHandler(calctest.Engine(t), logger))

	rec := do(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/healthz", entry["path"])
	assert.EqualValues(t, 200, entry["status"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestRequestLogging_PlainLogger(t *testing.T) {
	logger := &recordingLogger{}
	router := NewRouter(NewHandler(calctest.Engine(t), logger))

	do(t, router, http.MethodGet, "/api/grades/GRADE_99/scale", "")

	require.Len(t, logger.lines, 1)
	assert.Contains(t, logger.lines[0], "GET /api/grades/GRADE_99/scale 404")
}
