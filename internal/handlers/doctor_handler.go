package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/simple-ehr/internal/middleware"
	"github.com/harentsoaR/simple-ehr/internal/services"
)

type RecordRequest struct {
	Diagnosis    string `form:"diagnosis" binding:"required"`
	Prescription string `form:"prescription"`
	Lab          string `form:"lab"`
	Radio        string `form:"radio"`
	Pharm        string `form:"pharm"`
}

type RecordUpdateRequest struct {
	Diagnosis    string `form:"diagnosis" binding:"required"`
	Prescription string `form:"prescription"`
}

func (h *Handler) DoctorDashboard(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	dash, err := h.svc.Doctors.Dashboard(c.Request.Context(), id.UserID)
	if err != nil {
		h.fail(c, err, "/login", "Could not load your dashboard")
		return
	}
	h.page(c, "doctor/dashboard", "Doctor Dashboard", "doctor", gin.H{"Dashboard": dash})
}

func (h *Handler) DoctorPatients(c *gin.Context) {
	patients, err := h.svc.Doctors.Patients(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/doctor/dashboard", "Could not load patients")
		return
	}
	h.page(c, "doctor/patients", "Manage Patients", "doctor", gin.H{"Patients": patients})
}

func (h *Handler) PatientDetail(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	patientID, err := services.ParseID(c.Param("id"))
	if err != nil {
		h.fail(c, err, "/doctor/patients", "Patient not found")
		return
	}
	detail, err := h.svc.Doctors.PatientDetail(c.Request.Context(), id.UserID, patientID)
	if err != nil {
		msg := "Could not load patient"
		if errors.Is(err, services.ErrNotFound) {
			msg = "Patient not found"
		}
		h.fail(c, err, "/doctor/patients", msg)
		return
	}
	h.page(c, "doctor/patient-details", "Patient "+detail.Patient.Name, "doctor", gin.H{"Detail": detail})
}

func (h *Handler) AddRecord(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	back := "/doctor/patient/" + c.Param("id")

	patientID, err := services.ParseID(c.Param("id"))
	if err != nil {
		h.fail(c, err, "/doctor/patients", "Patient not found")
		return
	}
	var req RecordRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, err, back, "Diagnosis is required")
		return
	}

	_, err = h.svc.Doctors.AddRecord(c.Request.Context(), id.UserID, patientID, services.RecordInput{
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
		Lab:          req.Lab,
		Radio:        req.Radio,
		Pharm:        req.Pharm,
	})
	if err != nil {
		h.fail(c, err, back, genericMessage(err))
		return
	}
	h.succeed(c, back, "Medical record added")
}

func (h *Handler) UpdateRecord(c *gin.Context) {
	back := "/doctor/patient/" + c.Param("id")

	patientID, err := services.ParseID(c.Param("id"))
	if err != nil {
		h.fail(c, err, "/doctor/patients", "Patient not found")
		return
	}
	recordID, err := services.ParseID(c.Param("recordId"))
	if err != nil {
		h.fail(c, err, back, "Record not found")
		return
	}
	var req RecordUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, err, back, "Diagnosis is required")
		return
	}

	err = h.svc.Doctors.UpdateRecord(c.Request.Context(), patientID, recordID, services.RecordUpdate{
		Diagnosis:    req.Diagnosis,
		Prescription: req.Prescription,
	})
	if err != nil {
		msg := genericMessage(err)
		if errors.Is(err, services.ErrNotFound) {
			msg = "Record not found"
		}
		h.fail(c, err, back, msg)
		return
	}
	h.succeed(c, back, "Medical record updated")
}
