package handlers

import (
	"errors"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/harentsoaR/simple-ehr/internal/services"
)

const (
	flashSuccess = "success_msg"
	flashError   = "error_msg"

	flashMaxAge = 60
)

func setFlash(c *gin.Context, kind, msg string, secure bool) {
	c.SetCookie(kind, msg, flashMaxAge, "/", "", secure, true)
}

// popFlash returns and clears the pending messages.
func popFlash(c *gin.Context, secure bool) (success, failure string) {
	if v, err := c.Cookie(flashSuccess); err == nil && v != "" {
		success = v
		c.SetCookie(flashSuccess, "", -1, "/", "", secure, true)
	}
	if v, err := c.Cookie(flashError); err == nil && v != "" {
		failure = v
		c.SetCookie(flashError, "", -1, "/", "", secure, true)
	}
	return success, failure
}

// inputMessage turns validation failures into a sentence for the page.
func inputMessage(err error) string {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for field, ferr := range verrs {
			parts = append(parts, field+" "+ferr.Error())
		}
		sort.Strings(parts)
		return "Please check the form: " + strings.Join(parts, "; ")
	}
	return "Please check the form and try again"
}

// genericMessage is shown when nothing more specific applies.
func genericMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return inputMessage(err)
	case errors.Is(err, services.ErrNotFound):
		return "Not found"
	default:
		return "Something went wrong, please try again"
	}
}
