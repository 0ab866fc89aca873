package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/harentsoaR/simple-ehr/internal/middleware"
)

// NewRouter returns an engine that reads forwarding headers only from the
// listed proxies. With none, ClientIP is the TCP peer address.
func NewRouter(trustedProxies []string) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		return nil, errors.Wrap(err, "set trusted proxies")
	}
	return r, nil
}

// RegisterRoutes mounts every page on r. The Session middleware must already
// be installed.
func (h *Handler) RegisterRoutes(r *gin.Engine, loginLimit middleware.RateLimiterConfig) {
	r.GET("/healthz", h.Healthz)

	r.GET("/", h.Home)
	r.GET("/login", h.LoginPage)
	r.GET("/register", h.RegisterPage)
	r.GET("/logout", h.Logout)
	r.POST("/register/patient", h.RegisterPatient)

	throttle := middleware.NewRateLimiterMiddleware(loginLimit, h.LoginThrottled)
	r.POST("/login/doctor", throttle, h.LoginDoctor)
	r.POST("/login/patient", throttle, h.LoginPatient)

	doctor := r.Group("/", middleware.RequireAuth(), middleware.RequireDoctor())
	{
		doctor.GET("/doctor/register", h.DoctorRegisterPage)
		doctor.POST("/register/doctor", h.RegisterDoctor)
		doctor.GET("/doctor/dashboard", h.DoctorDashboard)
		doctor.GET("/doctor/patients", h.DoctorPatients)
		doctor.GET("/doctor/patient/:id", h.PatientDetail)
		doctor.POST("/doctor/patient/:id/record", h.AddRecord)
		doctor.POST("/doctor/patient/:id/record/:recordId", h.UpdateRecord)
		doctor.GET("/doctor/appointments", h.DoctorAppointments)
		doctor.POST("/doctor/appointments/:id/approve", h.ApproveAppointment)
		doctor.POST("/doctor/appointments/:id/reject", h.RejectAppointment)
	}

	patient := r.Group("/patient", middleware.RequireAuth(), middleware.RequirePatient())
	{
		patient.GET("/dashboard", h.PatientDashboard)
		patient.POST("/appointment/new", h.BookAppointment)
		patient.GET("/records", h.PatientRecords)
	}
}
