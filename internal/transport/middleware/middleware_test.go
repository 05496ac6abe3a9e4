package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/expense-approval/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LoggingMiddleware", func() {
	var (
		buf    *bytes.Buffer
		logger *slog.Logger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		logger = slog.New(slog.NewJSONHandler(buf, nil))
	})

	It("should keep reset tokens and passwords out of the log", func() {
		var seen string
		handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			seen = string(body)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"message":"ok","token":"eyJhbGciOi"}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/reset-password/0123456789abcdef", strings.NewReader(`{"password":"hunter22"}`))
		req.Header.Set("Authorization", "Bearer secret-jwt")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		Expect(seen).To(Equal(`{"password":"hunter22"}`))

		logged := buf.String()
		Expect(logged).To(ContainSubstring("/api/auth/reset-password/[FILTERED]"))
		Expect(logged).NotTo(ContainSubstring("0123456789abcdef"))
		Expect(logged).NotTo(ContainSubstring("hunter22"))
		Expect(logged).NotTo(ContainSubstring("secret-jwt"))
		Expect(logged).NotTo(ContainSubstring("eyJhbGciOi"))
	})

	It("should pass bodies larger than the logged prefix through intact", func() {
		payload := strings.Repeat("a", maxLoggedBody+10)
		var got int
		handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			got = len(body)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(payload)))
		Expect(got).To(Equal(len(payload)))
		Expect(buf.String()).To(ContainSubstring("not JSON"))
	})

	It("should log client errors at warn level", func() {
		handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/approvals", nil))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		var last map[string]interface{}
		Expect(json.Unmarshal([]byte(lines[len(lines)-1]), &last)).To(Succeed())
		Expect(last["level"]).To(Equal("WARN"))
		Expect(last["status_code"]).To(BeNumerically("==", http.StatusNotFound))
	})
})

var _ = Describe("RequireRole", func() {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	guard := RequireRole(slog.New(slog.NewTextHandler(io.Discard, nil)), internal.RoleAdmin)(ok)

	serve := func(id *internal.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		if id != nil {
			req = req.WithContext(internal.ContextWithIdentity(req.Context(), *id))
		}
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)
		return rec
	}

	It("should admit matching roles", func() {
		Expect(serve(&internal.Identity{UserID: 1, Role: internal.RoleAdmin}).Code).To(Equal(http.StatusTeapot))
	})

	It("should forbid other roles", func() {
		rec := serve(&internal.Identity{UserID: 2, Role: internal.RoleManager})
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Body.String()).To(ContainSubstring("ADMIN_REQUIRED"))
	})

	It("should refuse requests without identity", func() {
		Expect(serve(nil).Code).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("should hide the panic value from the client", func() {
		handler := RecoveryMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("db password is hunter22")
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).NotTo(ContainSubstring("hunter22"))

		var body map[string]map[string]string
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]["type"]).To(Equal("INTERNAL_ERROR"))
	})
})

var _ = Describe("TraceID", func() {
	It("should keep a valid incoming trace id and replace junk", func() {
		handler := TraceID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set(TraceIDHeader, "3f2b8c1e-6a47-4b8e-9d4f-2c1a0e5b7d93")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceIDHeader)).To(Equal("3f2b8c1e-6a47-4b8e-9d4f-2c1a0e5b7d93"))

		req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set(TraceIDHeader, "not a uuid\nforged=1")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceIDHeader)).NotTo(ContainSubstring("forged"))
		Expect(rec.Header().Get(TraceIDHeader)).To(HaveLen(36))
	})
})
