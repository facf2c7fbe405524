package httperr

import (
	"net/http"

	"booking-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeNotFound    = "NOT_FOUND"
	CodeSlotTaken   = "SLOT_TAKEN"
	CodeUnavailable = "TRANSIENT_UNAVAILABLE"
	CodeInternal    = "INTERNAL"
	CodeRateLimited = "RATE_LIMITED"
)

// StatusOf maps an error code to its HTTP status.
func StatusOf(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSlotTaken:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, code, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort renders err by its sentinel. Internal errors never expose their message.
func Abort(c *gin.Context, err error) {
	code := errs.Code(err)
	if code == "DELIVERY_FAILED" {
		code = CodeInternal
	}
	msg := err.Error()
	if code == CodeInternal {
		msg = "Internal server error"
	}
	AbortWithError(c, StatusOf(code), err, code, msg, nil)
}

// BadRequest reports a malformed request, such as a binding failure.
func BadRequest(c *gin.Context, err error, msg string) {
	AbortWithError(c, http.StatusBadRequest, err, CodeValidation, msg, gin.H{"reason": err.Error()})
}
