package server

import (
	"errors"

	"rollerstone-site/internal/inquiry"

	"github.com/gofiber/fiber/v2"
)

// APIError is the JSON body of every failed API response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

func errTooManyRequests(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusTooManyRequests, "rate_limited", msg)
}

func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusServiceUnavailable, "unavailable", msg)
}

// fromInquiryError maps intake errors onto API errors. The second result is
// false for errors that are not part of the intake contract.
func fromInquiryError(c *fiber.Ctx, err error) (error, bool) {
	switch {
	case errors.Is(err, inquiry.ErrInvalidName),
		errors.Is(err, inquiry.ErrInvalidContact),
		errors.Is(err, inquiry.ErrInvalidMessage),
		errors.Is(err, inquiry.ErrInvalidArea),
		errors.Is(err, inquiry.ErrInvalidStatus):
		return errBadRequest(c, err.Error()), true
	case errors.Is(err, inquiry.ErrNotFound):
		return errNotFound(c, err.Error()), true
	case errors.Is(err, inquiry.ErrRateLimited):
		return errTooManyRequests(c, err.Error()), true
	case errors.Is(err, inquiry.ErrStorageDisabled):
		return errUnavailable(c, err.Error()), true
	}
	return nil, false
}

// errorHandler renders fiber's own errors (404, 405, body too large) in the
// same envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return newError(c, fe.Code, "http_error", fe.Message)
	}
	return errInternal(c, "internal server error")
}
