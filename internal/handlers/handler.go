package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/simple-ehr/internal/services"
	"github.com/harentsoaR/simple-ehr/internal/session"
)

// healthTimeout bounds the store ping behind /healthz.
const healthTimeout = 2 * time.Second

// HealthCheck reports whether the backing store answers.
type HealthCheck func(ctx context.Context) error

// Services groups the application services the handlers call into.
type Services struct {
	Auth         *services.AuthService
	Doctors      *services.DoctorService
	Appointments *services.AppointmentService
	Patients     *services.PatientService
}

type Handler struct {
	svc      Services
	sessions *session.Manager
	health   HealthCheck
	log      *logrus.Logger
	// secure marks cookies Secure; off in development over plain HTTP.
	secure bool
}

func NewHandler(svc Services, sessions *session.Manager, health HealthCheck, log *logrus.Logger, secure bool) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		health:   health,
		log:      log,
		secure:   secure,
	}
}

// page renders a template with the layout fields every page expects and
// consumes any pending flash messages.
func (h *Handler) page(c *gin.Context, name, title, layout string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	success, failure := popFlash(c, h.secure)
	data["Title"] = title
	data["Layout"] = layout
	data["Success"] = success
	data["Error"] = failure
	c.HTML(http.StatusOK, name, data)
}

// fail logs err, flashes msg and redirects to target.
func (h *Handler) fail(c *gin.Context, err error, target, msg string) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"target": target,
	}).Warn("request failed")
	_ = c.Error(err)
	setFlash(c, flashError, msg, h.secure)
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) succeed(c *gin.Context, target, msg string) {
	setFlash(c, flashSuccess, msg, h.secure)
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()
	if err := h.health(ctx); err != nil {
		h.log.WithError(err).Error("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
