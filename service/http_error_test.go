package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorCodeToStatusCodeMaps(t *testing.T) {
	m := NewErrorCodeToStatusCodeMaps()
	require.NotNil(t, m)
	assert.Equal(t, http.StatusBadRequest, m[ErrBadParameter])
	assert.Equal(t, http.StatusBadRequest, m[ErrMissingEmail])
	assert.Equal(t, http.StatusBadRequest, m[ErrInvalidEmail])
	assert.Equal(t, http.StatusBadRequest, m[ErrMissingPassword])
	assert.Equal(t, http.StatusNotFound, m[ErrEntityNotFound])
	assert.Equal(t, http.StatusConflict, m[ErrDuplicateEmail])
	assert.Equal(t, http.StatusServiceUnavailable, m[ErrStoreUnavailable])
	assert.Equal(t, http.StatusInternalServerError, m[ErrInternalServerError])
	_, ok := m[ErrConflict]
	assert.False(t, ok, "store conflicts never reach HTTP")
}

func serveError(t *testing.T, method string, err error) (*httptest.ResponseRecorder, Success) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewNopLogger())
	handler.Handler(err, c)

	var body Success
	if method != http.MethodHead {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	}
	return rec, body
}

func TestHTTPErrorHandler_Handler_MyError_ReturnsMappedStatus(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "bad parameter",
			err:            NewBadParameterError("invalid body", nil),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrBadParameter,
		},
		{
			name:           "invalid email",
			err:            NewMyError(ErrInvalidEmail, "email is malformed", nil),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrInvalidEmail,
		},
		{
			name:           "wrapped duplicate email",
			err:            fmt.Errorf("createUser failed, err: %w", NewMyError(ErrDuplicateEmail, "taken", nil)),
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrDuplicateEmail,
		},
		{
			name:           "not found",
			err:            NewEntityNotFoundError("user not found", nil),
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrEntityNotFound,
		},
		{
			name:           "store unavailable",
			err:            NewStoreUnavailableError("redis down", assert.AnError),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrStoreUnavailable,
		},
		{
			name:           "unmapped code",
			err:            NewConflictError("leaked", nil),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serveError(t, http.MethodGet, tt.err)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, StatusError, body.Status)
			require.NotNil(t, body.Message)
			assert.Equal(t, tt.expectedCode, *body.Message)
		})
	}
}

func TestHTTPErrorHandler_Handler_NonMyError_Returns500(t *testing.T) {
	rec, body := serveError(t, http.MethodGet, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, StatusError, body.Status)
	require.NotNil(t, body.Message)
	assert.Equal(t, ErrInternalServerError, *body.Message)
}

func TestHTTPErrorHandler_Handler_EchoHTTPError(t *testing.T) {
	tests := []struct {
		name           string
		err            *echo.HTTPError
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "route not found",
			err:            echo.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrEntityNotFound,
		},
		{
			name:           "method not allowed",
			err:            echo.ErrMethodNotAllowed,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedCode:   ErrBadParameter,
		},
		{
			name:           "unsupported media type",
			err:            echo.ErrUnsupportedMediaType,
			expectedStatus: http.StatusUnsupportedMediaType,
			expectedCode:   ErrBadParameter,
		},
		{
			name:           "internal",
			err:            echo.NewHTTPError(http.StatusBadGateway, "upstream"),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   ErrInternalServerError,
		},
		{
			name: "nested http error",
			err: func() *echo.HTTPError {
				he := echo.NewHTTPError(http.StatusInternalServerError, "outer")
				he.Internal = echo.NewHTTPError(http.StatusBadRequest, "inner")
				return he
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrBadParameter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := serveError(t, http.MethodPost, tt.err)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			require.NotNil(t, body.Message)
			assert.Equal(t, tt.expectedCode, *body.Message)
		})
	}
}

func TestHTTPErrorHandler_Handler_Head(t *testing.T) {
	rec, _ := serveError(t, http.MethodHead, echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHTTPErrorHandler_Handler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, c.String(http.StatusOK, "done"))

	handler := NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewNopLogger())
	handler.Handler(assert.AnError, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "done", rec.Body.String())
}

func TestHTTPErrorHandler_Handler_LogLevels(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedLevel string
	}{
		{name: "validation is debug", err: NewMyError(ErrMissingEmail, "email is required", nil), expectedLevel: "level=debug"},
		{name: "duplicate is debug", err: NewMyError(ErrDuplicateEmail, "taken", nil), expectedLevel: "level=debug"},
		{name: "store unavailable is warn", err: NewStoreUnavailableError("down", nil), expectedLevel: "level=warn"},
		{name: "internal is error", err: assert.AnError, expectedLevel: "level=error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/create/user", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewLogfmtLogger(&buf))
			handler.Handler(tt.err, c)

			assert.Contains(t, buf.String(), tt.expectedLevel)
		})
	}
}

func TestRegisterErrorHandler(t *testing.T) {
	e := echo.New()
	RegisterErrorHandler(e, log.NewNopLogger())
	require.NotNil(t, e.HTTPErrorHandler)
}

func TestNewSuccess(t *testing.T) {
	b, err := json.Marshal(NewSuccess())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","message":null}`, string(b))

	b, err = json.Marshal(NewFailure(ErrInvalidEmail))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"invalid_email"}`, string(b))
}
