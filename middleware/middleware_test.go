package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go-food-ordering/helpers"
	"go-food-ordering/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	claims *helpers.SignedDetails
	err    error
	got    string
}

func (s *stubValidator) ValidateToken(token string) (*helpers.SignedDetails, error) {
	s.got = token
	return s.claims, s.err
}

type recordingLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: map[string][]string{}}
}

func (l *recordingLogger) add(level string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[level] = append(l.lines[level], fmt.Sprint(args...))
}

func (l *recordingLogger) Debug(args ...interface{}) { l.add("debug", args...) }
func (l *recordingLogger) Info(args ...interface{})  { l.add("info", args...) }
func (l *recordingLogger) Warn(args ...interface{})  { l.add("warn", args...) }
func (l *recordingLogger) Error(args ...interface{}) { l.add("error", args...) }
func (l *recordingLogger) Fatal(args ...interface{}) { l.add("fatal", args...) }

func authRouter(v TokenValidator) *gin.Engine {
	r := gin.New()
	r.Use(Authentication(v))
	r.GET("/whoami", func(c *gin.Context) {
		userID, _ := UserID(c)
		tenantID, hasTenant := TenantID(c)
		claims, _ := Claims(c)
		c.JSON(http.StatusOK, gin.H{
			"userId":    userID.Hex(),
			"tenantId":  tenantID.Hex(),
			"hasTenant": hasTenant,
			"email":     claims.Email,
		})
	})
	return r
}

func TestAuthenticationMissingToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "empty bearer", header: "Bearer "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			authRouter(&stubValidator{}).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"message":"No token provided"}`, w.Body.String())
		})
	}
}

func TestAuthenticationInvalidToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer broken")

	authRouter(&stubValidator{err: errors.New("bad signature")}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid Token"}`, w.Body.String())
}

func TestAuthenticationRejectsMalformedUserID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer tok")

	authRouter(&stubValidator{claims: &helpers.SignedDetails{UserID: "nope"}}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticationSetsClaims(t *testing.T) {
	userID, tenantID := primitive.NewObjectID(), primitive.NewObjectID()
	v := &stubValidator{claims: &helpers.SignedDetails{UserID: userID.Hex(), TenantID: tenantID.Hex(), Email: "a@b.test"}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	authRouter(v).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "good-token", v.got)
	assert.JSONEq(t, fmt.Sprintf(`{"userId":%q,"tenantId":%q,"hasTenant":true,"email":"a@b.test"}`, userID.Hex(), tenantID.Hex()), w.Body.String())
}

func tenantRouter(preset *primitive.ObjectID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if preset != nil {
			c.Set(TenantIDKey, *preset)
		}
	}, ExtractTenantID())
	r.POST("/orders", func(c *gin.Context) {
		tenantID, _ := TenantID(c)
		c.Header("X-Tenant-Source", "token")
		if TenantFromHeader(c) {
			c.Header("X-Tenant-Source", "header")
		}
		c.String(http.StatusOK, tenantID.Hex())
	})
	return r
}

func TestExtractTenantID(t *testing.T) {
	fromToken, fromHeader := primitive.NewObjectID(), primitive.NewObjectID()

	t.Run("token tenant wins", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(TenantHeader, fromHeader.Hex())
		tenantRouter(&fromToken).ServeHTTP(w, req)
		assert.Equal(t, fromToken.Hex(), w.Body.String())
		assert.Equal(t, "token", w.Header().Get("X-Tenant-Source"))
	})

	t.Run("header fallback", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(TenantHeader, fromHeader.Hex())
		tenantRouter(nil).ServeHTTP(w, req)
		assert.Equal(t, fromHeader.Hex(), w.Body.String())
		assert.Equal(t, "header", w.Header().Get("X-Tenant-Source"))
	})

	t.Run("missing tenant", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/orders", nil)
		req.Header.Set(TenantHeader, "not-an-id")
		tenantRouter(nil).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Tenant ID is required"}`, w.Body.String())
	})
}

func TestRequestLogger(t *testing.T) {
	log := newRecordingLogger()
	m := metrics.New()

	r := gin.New()
	r.Use(RequestLogger(log, m))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if path == "/ok" {
			req.Header.Set(RequestIDHeader, "req-1")
		}
		r.ServeHTTP(w, req)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		if path == "/ok" {
			assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
		}
	}

	assert.Len(t, log.lines["info"], 1)
	assert.Contains(t, log.lines["info"][0], "GET /ok 200")
	assert.Contains(t, log.lines["info"][0], "request_id=req-1")
	assert.Len(t, log.lines["warn"], 1)
	assert.Len(t, log.lines["error"], 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/missing", "404")))
}
