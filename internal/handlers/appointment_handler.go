package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/middleware"
	"github.com/harentsoaR/simple-ehr/internal/services"
)

type BookingRequest struct {
	DoctorID string `form:"doctorId" binding:"required"`
	Date     string `form:"date" binding:"required"`
}

func (h *Handler) DoctorAppointments(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	apts, err := h.svc.Appointments.ForDoctor(c.Request.Context(), id.UserID)
	if err != nil {
		h.fail(c, err, "/doctor/dashboard", "Could not load appointments")
		return
	}
	h.page(c, "doctor/appointments", "Doctor Appointments", "doctor", gin.H{"Appointments": apts})
}

func (h *Handler) ApproveAppointment(c *gin.Context) {
	h.decide(c, h.svc.Appointments.Approve, "Appointment approved")
}

func (h *Handler) RejectAppointment(c *gin.Context) {
	h.decide(c, h.svc.Appointments.Reject, "Appointment rejected")
}

type decideFunc func(ctx context.Context, doctorID, appointmentID primitive.ObjectID) error

func (h *Handler) decide(c *gin.Context, act decideFunc, done string) {
	const back = "/doctor/appointments"
	id, _ := middleware.IdentityFrom(c)

	aptID, err := services.ParseID(c.Param("id"))
	if err != nil {
		h.fail(c, err, back, "Appointment not found")
		return
	}
	if err := act(c.Request.Context(), id.UserID, aptID); err != nil {
		msg := genericMessage(err)
		switch {
		case errors.Is(err, services.ErrConflict):
			msg = "This appointment has already been decided"
		case errors.Is(err, services.ErrNotFound):
			msg = "Appointment not found"
		}
		h.fail(c, err, back, msg)
		return
	}
	h.succeed(c, back, done)
}

func (h *Handler) BookAppointment(c *gin.Context) {
	const back = "/patient/dashboard"
	id, _ := middleware.IdentityFrom(c)

	var req BookingRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, err, back, "Please choose a doctor and a date")
		return
	}

	_, err := h.svc.Appointments.Book(c.Request.Context(), id.UserID, services.Booking{
		DoctorID: req.DoctorID,
		Date:     req.Date,
	})
	if err != nil {
		msg := genericMessage(err)
		if errors.Is(err, services.ErrNotFound) {
			msg = "Doctor not found"
		}
		h.fail(c, err, back, msg)
		return
	}
	h.succeed(c, back, "Appointment requested")
}
