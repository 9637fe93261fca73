package response

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/you/usersvc/domain"
)

// Envelope is the body of every API response, success or failure
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
	Errors     []string    `json:"errors,omitempty"`
}

const internalErrorMessage = "Something went wrong"

// OK writes a successful envelope
func OK(c *gin.Context, status int, data interface{}, message string) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

// Error maps err to a status code and writes a failure envelope.
// Unexpected errors are reported to Sentry and their text is not exposed.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		capture(c, err)
		if !isKnown(err) {
			message = internalErrorMessage
		}
	}
	_ = c.Error(err)
	c.JSON(status, failure(status, message, nil))
}

// Abort is Error followed by c.Abort, for middleware
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// Validation writes a 400 envelope carrying per-field messages
func Validation(c *gin.Context, message string, details []string) {
	c.JSON(http.StatusBadRequest, failure(http.StatusBadRequest, message, details))
}

// StatusFor returns the HTTP status for a domain error
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, domain.ErrPasswordsRequired),
		errors.Is(err, domain.ErrNothingToUpdate),
		errors.Is(err, domain.ErrAvatarRequired),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrIncorrectOldPassword),
		errors.Is(err, domain.ErrOTPInvalid),
		errors.Is(err, domain.ErrOTPNotFound):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrIdentifierRequired),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrRefreshTokenMissing),
		errors.Is(err, domain.ErrRefreshTokenReused),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenMalformed):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// isKnown reports whether a 500 error carries a message safe to return
func isKnown(err error) bool {
	return errors.Is(err, domain.ErrNotificationFailed) || errors.Is(err, domain.ErrImageUploadFailed)
}

func failure(status int, message string, details []string) Envelope {
	return Envelope{
		StatusCode: status,
		Data:       nil,
		Message:    message,
		Success:    false,
		Errors:     details,
	}
}

func capture(c *gin.Context, err error) {
	if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
