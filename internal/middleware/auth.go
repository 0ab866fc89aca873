package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/session"
)

const identityKey = "identity"

// Session reads the session cookie and, when it verifies, stores the
// Identity on the context. It never rejects a request; anonymous requests
// are left to the guards.
func Session(sessions *session.Manager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		id, err := sessions.Verify(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).WithField("path", c.Request.URL.Path).Debug("session ignored")
			c.Next()
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity set by Session.
func IdentityFrom(c *gin.Context) (session.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return session.Identity{}, false
	}
	id, ok := v.(session.Identity)
	return id, ok
}

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole lets through only identities holding the role.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok || id.Role != role {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireDoctor() gin.HandlerFunc  { return RequireRole(models.RoleDoctor) }
func RequirePatient() gin.HandlerFunc { return RequireRole(models.RolePatient) }
