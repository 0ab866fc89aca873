package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func guardedRouter(sessions *session.Manager) *gin.Engine {
	r := gin.New()
	r.Use(Session(sessions, quietLogger()))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/any", RequireAuth(), ok)
	r.GET("/doctor", RequireAuth(), RequireDoctor(), ok)
	r.GET("/patient", RequireAuth(), RequirePatient(), ok)
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGuards(t *testing.T) {
	sessions := session.NewManager("test-secret", time.Hour, session.NewMemoryRevocations())
	r := guardedRouter(sessions)

	doctorToken, _, err := sessions.Issue(primitive.NewObjectID(), models.RoleDoctor)
	if err != nil {
		t.Fatal(err)
	}
	patientToken, _, err := sessions.Issue(primitive.NewObjectID(), models.RolePatient)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name, path, token string
		want               int
	}{
		{"anonymous any", "/any", "", http.StatusFound},
		{"anonymous doctor", "/doctor", "", http.StatusFound},
		{"garbage cookie", "/any", "not-a-jwt", http.StatusFound},
		{"doctor any", "/any", doctorToken, http.StatusOK},
		{"doctor on doctor", "/doctor", doctorToken, http.StatusOK},
		{"patient on doctor", "/doctor", patientToken, http.StatusFound},
		{"doctor on patient", "/patient", doctorToken, http.StatusFound},
		{"patient on patient", "/patient", patientToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(r, tc.path, tc.token)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if tc.want == http.StatusFound && rec.Header().Get("Location") != "/login" {
				t.Errorf("expected redirect to /login, got %q", rec.Header().Get("Location"))
			}
		})
	}
}

func TestSession_RevokedTokenIsAnonymous(t *testing.T) {
	sessions := session.NewManager("test-secret", time.Hour, session.NewMemoryRevocations())
	r := guardedRouter(sessions)

	token, id, err := sessions.Issue(primitive.NewObjectID(), models.RolePatient)
	if err != nil {
		t.Fatal(err)
	}
	if err := sessions.Revoke(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	if rec := get(r, "/patient", token); rec.Code != http.StatusFound {
		t.Fatalf("expected redirect for revoked token, got %d", rec.Code)
	}
}

func TestIdentityFrom(t *testing.T) {
	sessions := session.NewManager("test-secret", time.Hour, session.NewMemoryRevocations())
	userID := primitive.NewObjectID()
	token, _, err := sessions.Issue(userID, models.RoleDoctor)
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.Use(Session(sessions, quietLogger()))
	r.GET("/", func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok || id.UserID != userID || id.Role != models.RoleDoctor {
			t.Errorf("unexpected identity %+v (ok=%v)", id, ok)
		}
		c.Status(http.StatusNoContent)
	})
	get(r, "/", token)
}

func TestRequestID_GeneratesNew(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		if c.GetString(requestIDKey) == "" {
			t.Error("expected request_id to be generated")
		}
		c.Status(http.StatusOK)
	})

	rec := get(r, "/", "")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "my-custom-id")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("expected my-custom-id in response header, got %s", got)
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rejected := 0
	r := gin.New()
	r.POST("/login", NewRateLimiterMiddleware(
		RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 2},
		func(c *gin.Context) {
			rejected++
			c.Redirect(http.StatusFound, "/login")
		},
	), func(c *gin.Context) { c.Status(http.StatusOK) })

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusFound {
		t.Fatalf("unexpected codes %v", codes)
	}
	if rejected != 1 {
		t.Errorf("expected one rejection, got %d", rejected)
	}

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected separate bucket per client, got %d", rec.Code)
	}
}
