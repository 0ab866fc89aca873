package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/simple-ehr/internal/middleware"
)

func (h *Handler) PatientDashboard(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	dash, err := h.svc.Patients.Dashboard(c.Request.Context(), id.UserID)
	if err != nil {
		h.fail(c, err, "/login", "Could not load your dashboard")
		return
	}
	h.page(c, "patient/dashboard", "Patient Dashboard", "patient", gin.H{"Dashboard": dash})
}

func (h *Handler) PatientRecords(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	records, err := h.svc.Patients.Records(c.Request.Context(), id.UserID)
	if err != nil {
		h.fail(c, err, "/patient/dashboard", "Could not load your records")
		return
	}
	h.page(c, "patient/records", "Medical Records", "patient", gin.H{"Records": records})
}
