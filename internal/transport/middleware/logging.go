package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"
)

const (
	maxLoggedBody = 64 << 10
	filtered      = "[FILTERED]"
)

// Header and JSON keys containing any of these fragments are masked.
var sensitiveFragments = []string{
	"password",
	"token",
	"authorization",
	"cookie",
	"secret",
	"key",
	"session",
	"credential",
}

// resetTokenPath matches the plaintext reset token carried in the URL.
var resetTokenPath = regexp.MustCompile(`(/reset-password/)[^/?]+`)

// LoggingMiddleware logs each request and its response with credentials
// removed. At most maxLoggedBody bytes of either body are inspected.
func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := redactPath(r.URL.Path)

			reqBody := peekBody(r)
			logger.InfoContext(r.Context(), "incoming request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"headers", redactHeaders(r.Header),
				"body", redactBody(reqBody),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			respBody := &cappedBuffer{limit: maxLoggedBody}
			ww.Tee(respBody)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logger.Log(r.Context(), levelFor(status), "response",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.BytesWritten(),
				"body", redactBody(respBody.Bytes()),
			)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// peekBody reads a bounded prefix of the request body and puts it back in
// front of the unread remainder.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	prefix, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(prefix), r.Body), r.Body}
	return prefix
}

// cappedBuffer keeps the first limit bytes written to it and drops the rest.
type cappedBuffer struct {
	bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.Len(); room > 0 {
		if len(p) > room {
			b.Buffer.Write(p[:room])
		} else {
			b.Buffer.Write(p)
		}
	}
	return len(p), nil
}

func redactPath(path string) string {
	return resetTokenPath.ReplaceAllString(path, "${1}"+filtered)
}

func isSensitive(name string) bool {
	name = strings.ToLower(name)
	for _, fragment := range sensitiveFragments {
		if strings.Contains(name, fragment) {
			return true
		}
	}
	return false
}

func redactHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if isSensitive(name) {
			out[name] = filtered
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

// redactBody renders a JSON body with sensitive keys masked. Anything that is
// not a JSON document is summarized by size only.
func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Sprintf("[%d bytes, not JSON]", len(body))
	}

	out, err := json.Marshal(redactValue(doc))
	if err != nil {
		return filtered
	}
	return string(out)
}

func redactValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for key, value := range t {
			if isSensitive(key) {
				t[key] = filtered
			} else {
				t[key] = redactValue(value)
			}
		}
		return t
	case []interface{}:
		for i, item := range t {
			t[i] = redactValue(item)
		}
		return t
	default:
		return v
	}
}
