package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/simple-ehr/internal/middleware"
	"github.com/harentsoaR/simple-ehr/internal/models"
	"github.com/harentsoaR/simple-ehr/internal/services"
	"github.com/harentsoaR/simple-ehr/internal/session"
)

type LoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type DoctorRegisterRequest struct {
	Name        string `form:"name" binding:"required"`
	Email       string `form:"email" binding:"required"`
	Password    string `form:"password" binding:"required"`
	Designation string `form:"designation"`
}

type PatientRegisterRequest struct {
	Name            string `form:"name" binding:"required"`
	Email           string `form:"email" binding:"required"`
	Password        string `form:"password" binding:"required"`
	ConfirmPassword string `form:"confirmPassword"`
}

// Home sends signed-in users to their dashboard and everyone else to login.
func (h *Handler) Home(c *gin.Context) {
	if id, ok := middleware.IdentityFrom(c); ok {
		c.Redirect(http.StatusFound, id.Role.DashboardPath())
		return
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) LoginPage(c *gin.Context) {
	h.page(c, "login", "Login", "", nil)
}

func (h *Handler) RegisterPage(c *gin.Context) {
	h.page(c, "register", "Registration", "", nil)
}

func (h *Handler) DoctorRegisterPage(c *gin.Context) {
	h.page(c, "doctor/register", "Registration", "doctor", gin.H{
		"Designations": models.Designations(),
	})
}

func (h *Handler) LoginDoctor(c *gin.Context)  { h.login(c, models.RoleDoctor) }
func (h *Handler) LoginPatient(c *gin.Context) { h.login(c, models.RolePatient) }

func (h *Handler) login(c *gin.Context, role models.Role) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, err, "/login", "Please enter your email and password")
		return
	}

	token, id, err := h.svc.Auth.Login(c.Request.Context(), role, req.Email, req.Password)
	if err != nil {
		msg := "Something went wrong, please try again"
		if errors.Is(err, services.ErrInvalidCredential) {
			msg = "Invalid email or password"
		}
		h.fail(c, err, "/login", msg)
		return
	}

	session.SetCookie(c, token, h.sessions.TTL(), h.secure)
	c.Redirect(http.StatusFound, id.Role.DashboardPath())
}

// LoginThrottled answers requests rejected by the login rate limiter.
func (h *Handler) LoginThrottled(c *gin.Context) {
	h.log.WithField("remote_ip", c.ClientIP()).Warn("login rate limit exceeded")
	setFlash(c, flashError, "Too many login attempts, please wait a moment", h.secure)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) Logout(c *gin.Context) {
	id, ok := middleware.IdentityFrom(c)
	session.ClearCookie(c, h.secure)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err := h.svc.Auth.Logout(c.Request.Context(), id); err != nil {
		h.log.WithError(err).WithField("user_id", id.UserID.Hex()).Error("logout failed")
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.succeed(c, "/login", "You are logged out")
}

func (h *Handler) RegisterDoctor(c *gin.Context) {
	var req DoctorRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, err, "/doctor/register", "Please fill in name, email and password")
		return
	}

	_, err := h.svc.Auth.RegisterDoctor(c.Request.Context(), services.DoctorRegistration{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Designation: models.Designation(req.Designation),
	})
	if err != nil {
		msg := genericMessage(err)
		if errors.Is(err, services.ErrConflict) {
			msg = "A doctor with this email already exists"
		}
		h.fail(c, err, "/doctor/register", msg)
		return
	}
	h.succeed(c, "/doctor/dashboard", "Doctor registered")
}

func (h *Handler) RegisterPatient(c *gin.Context) {
	var req PatientRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, err, "/register", "Please fill in name, email and password")
		return
	}

	_, err := h.svc.Auth.RegisterPatient(c.Request.Context(), services.PatientRegistration{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		msg := genericMessage(err)
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			msg = "Passwords do not match"
		case errors.Is(err, services.ErrConflict):
			msg = "This email is already registered"
		}
		h.fail(c, err, "/register", msg)
		return
	}
	h.succeed(c, "/login", "You are now registered and can log in")
}
