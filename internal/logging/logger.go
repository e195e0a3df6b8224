// Package logging centralises the dashboard logging helpers and adapters.
package logging

import (
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger represents the minimal logging interface used across the project.
type Logger interface {
	Printf(format string, v ...any)
}

// StdLoggerProvider can expose the underlying *log.Logger when needed.
type stdLoggerProvider interface {
	StdLogger() *log.Logger
}

type stdLogger struct {
	base *log.Logger
}

type newlineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

var (
	defaultWriter   io.Writer = os.Stdout
	defaultWriterMu sync.RWMutex
)

// New returns a Logger that writes to the default writer (stdout unless
// SetDefaultWriter was called) using Go's default date/time flags.
func New() Logger {
	return NewWithWriter(getDefaultWriter())
}

// NewWithWriter builds a Logger that writes to the provided io.Writer and
// ensures there is always a blank line before each timestamped entry.
func NewWithWriter(w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}
	adapter := &newlineWriter{w: w}
	return &stdLogger{base: log.New(adapter, "", log.LstdFlags)}
}

// SetDefaultWriter overrides the writer used by New().
func SetDefaultWriter(w io.Writer) {
	defaultWriterMu.Lock()
	defer defaultWriterMu.Unlock()
	if w == nil {
		defaultWriter = os.Stdout
		return
	}
	defaultWriter = w
}

func getDefaultWriter() io.Writer {
	defaultWriterMu.RLock()
	defer defaultWriterMu.RUnlock()
	return defaultWriter
}

// AsStdLogger returns the underlying *log.Logger when available so packages
// like net/http can keep using their native logger type.
func AsStdLogger(logger Logger) *log.Logger {
	if logger == nil {
		return nil
	}
	if provider, ok := logger.(stdLoggerProvider); ok {
		return provider.StdLogger()
	}
	if std, ok := logger.(*stdLogger); ok {
		return std.base
	}
	return nil
}

type prefixLogger struct {
	next   Logger
	prefix string
}

// WithPrefix returns a Logger that prepends prefix to every entry.
func WithPrefix(logger Logger, prefix string) Logger {
	if logger == nil {
		return nil
	}
	if prefix == "" {
		return logger
	}
	return &prefixLogger{next: logger, prefix: prefix}
}

func (p *prefixLogger) Printf(format string, v ...any) {
	p.next.Printf("%s%s", p.prefix, fmt.Sprintf(format, v...))
}

func (p *prefixLogger) StdLogger() *log.Logger {
	return AsStdLogger(p.next)
}

func (l *stdLogger) Printf(format string, v ...any) {
	if l == nil || l.base == nil {
		return
	}
	l.base.Printf(format, v...)
}

func (l *stdLogger) StdLogger() *log.Logger {
	if l == nil {
		return nil
	}
	return l.base
}

func (w *newlineWriter) Write(p []byte) (int, error) {
	if w == nil || w.w == nil {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.w.Write([]byte("\n")); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := w.w.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WithHTTPLogging wraps the provided handler so every request/response pair is
// logged. Form posts log the names of the submitted fields, never their values.
func WithHTTPLogging(next http.Handler, logger Logger) http.Handler {
	if logger == nil || next == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		if fields := postedFieldNames(r); len(fields) > 0 {
			logger.Printf("--> %s %s from %s fields=[%s]", r.Method, r.URL.RequestURI(), r.RemoteAddr, strings.Join(fields, " "))
		} else {
			logger.Printf("--> %s %s from %s", r.Method, r.URL.RequestURI(), r.RemoteAddr)
		}

		lrw := newLoggingResponseWriter(w)
		next.ServeHTTP(lrw, r)

		status := lrw.StatusCode()
		line := fmt.Sprintf("<-- %s %s %d %s (%d bytes, %s)", r.Method, r.URL.Path, status, http.StatusText(status), lrw.BytesWritten(), time.Since(started).Round(time.Millisecond))
		if location := lrw.Header().Get("Location"); location != "" && status >= 300 && status < 400 {
			line += " -> " + location
		}
		logger.Printf("%s", line)
	})
}

// postedFieldNames parses urlencoded form bodies and returns the sorted field
// names. The parsed form stays on the request for the wrapped handler.
func postedFieldNames(r *http.Request) []string {
	if r.Method != http.MethodPost {
		return nil
	}
	contentType := r.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err != nil || mediaType != "application/x-www-form-urlencoded" {
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return nil
	}
	names := make([]string, 0, len(r.PostForm))
	for name := range r.PostForm {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func newLoggingResponseWriter(w http.ResponseWriter) *loggingResponseWriter {
	return &loggingResponseWriter{ResponseWriter: w}
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	if lrw.status == 0 {
		lrw.status = code
	}
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.written += int64(n)
	return n, err
}

func (lrw *loggingResponseWriter) StatusCode() int {
	if lrw.status == 0 {
		return http.StatusOK
	}
	return lrw.status
}

func (lrw *loggingResponseWriter) BytesWritten() int64 {
	return lrw.written
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
