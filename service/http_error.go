package service

import (
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

const (
	// StatusOK is the Success.Status of a completed operation.
	StatusOK = "ok"
	// StatusError is the Success.Status of a failed operation.
	StatusError = "error"
)

// Success is the status envelope returned by the register operation and by every failed request.
type Success struct {
	Status  string  `json:"status"`
	Message *string `json:"message"`
}

// NewSuccess returns the envelope of a completed operation.
func NewSuccess() Success {
	return Success{Status: StatusOK}
}

// NewFailure returns the envelope carrying the reason code of a failed operation.
func NewFailure(code string) Success {
	return Success{Status: StatusError, Message: Ptr(code)}
}

// RegisterErrorHandler register custom error handler.
func RegisterErrorHandler(e *echo.Echo, logger log.Logger) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), logger).Handler
}

// NewErrorCodeToStatusCodeMaps creates an error code to http status mapping.
func NewErrorCodeToStatusCodeMaps() map[string]int {
	var errorCodeToStatusCodeMaps = make(map[string]int)
	errorCodeToStatusCodeMaps[ErrBadParameter] = http.StatusBadRequest
	errorCodeToStatusCodeMaps[ErrMissingEmail] = http.StatusBadRequest
	errorCodeToStatusCodeMaps[ErrInvalidEmail] = http.StatusBadRequest
	errorCodeToStatusCodeMaps[ErrMissingPassword] = http.StatusBadRequest
	errorCodeToStatusCodeMaps[ErrEntityNotFound] = http.StatusNotFound
	errorCodeToStatusCodeMaps[ErrDuplicateEmail] = http.StatusConflict
	errorCodeToStatusCodeMaps[ErrStoreUnavailable] = http.StatusServiceUnavailable
	errorCodeToStatusCodeMaps[ErrInternalServerError] = http.StatusInternalServerError

	return errorCodeToStatusCodeMaps
}

// HTTPErrorHandler is an error handler.
type HTTPErrorHandler struct {
	errorCodeToHTTPStatusCodeMap map[string]int
	logger                       log.Logger
}

// NewHTTPErrorHandler creates a new instance of the HTTPErrorHandler.
func NewHTTPErrorHandler(errorCodeToStatusCodeMaps map[string]int, logger log.Logger) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		errorCodeToHTTPStatusCodeMap: errorCodeToStatusCodeMaps,
		logger:                       log.WithPrefix(logger, "component", "HTTPErrorHandler"),
	}
}

func (h *HTTPErrorHandler) getStatusCode(errorCode string) int {
	status, ok := h.errorCodeToHTTPStatusCodeMap[errorCode]
	if ok {
		return status
	}

	return http.StatusInternalServerError
}

// codeForHTTPStatus picks a reason code for errors raised by echo itself (routing, binding).
func codeForHTTPStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return ErrEntityNotFound
	case status == http.StatusServiceUnavailable:
		return ErrStoreUnavailable
	case status >= 400 && status < 500:
		return ErrBadParameter
	default:
		return ErrInternalServerError
	}
}

// Handler handles error returned by echo Handlers.
func (h *HTTPErrorHandler) Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	myErr := ToMyError(err)
	if myErr == nil {
		myErr = NewMyError(ErrInternalServerError, "an internal server error has occurred", err)
	}

	var statusCode int
	var he *echo.HTTPError
	if he, _ = err.(*echo.HTTPError); he != nil {
		if herr, ok := he.Internal.(*echo.HTTPError); ok {
			he = herr
		}
		m, _ := he.Message.(string)
		myErr = NewMyError(codeForHTTPStatus(he.Code), m, err)
		statusCode = he.Code
	} else {
		statusCode = h.getStatusCode(myErr.Code)
	}

	h.log(c, statusCode, myErr)

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(statusCode)
	} else {
		_ = c.JSON(statusCode, NewFailure(myErr.Code))
	}
}

// log reports 4xx outcomes at debug: they are expected answers, not system failures.
func (h *HTTPErrorHandler) log(c echo.Context, statusCode int, myErr *MyError) {
	var logger log.Logger
	switch {
	case IsStoreUnavailableError(myErr):
		logger = level.Warn(h.logger)
	case statusCode >= http.StatusInternalServerError:
		logger = level.Error(h.logger)
	default:
		logger = level.Debug(h.logger)
	}

	logger.Log(
		"msg", "HTTP request error",
		"method", c.Request().Method,
		"route", c.Path(),
		"status", statusCode,
		"code", myErr.Code,
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"err", myErr,
	)
}
