package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"myusers/adapters/memory"
	"myusers/domain"
	"myusers/interfaces"
	"myusers/interfaces/mock"
	"myusers/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNow() time.Time {
	return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
}

func registerHandlers(e *echo.Echo, server ServerInterface) {
	RegisterHandlers(e, server)
	service.RegisterErrorHandler(e, log.NewNopLogger())
}

func newTestServer(store interfaces.UserStore, publisher interfaces.EventPublisher, metrics *Metrics) *HTTPServer {
	hasher := &mock.PasswordHasherMock{
		HashFunc: func(password string) ([]byte, error) {
			return []byte("hashed"), nil
		},
	}
	return NewHTTPServer(
		service.NewRegistrationService(store, hasher, testNow, time.Second),
		service.NewLookupService(store, time.Second),
		publisher,
		metrics,
		testNow,
		log.NewNopLogger(),
	)
}

func decodeSuccess(t *testing.T, rec *httptest.ResponseRecorder) service.Success {
	t.Helper()
	var body service.Success
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func postUser(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/create/user", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func getUser(e *echo.Echo, name string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/user/"+name, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestNewHTTPServer_PanicsOnNilDependencies(t *testing.T) {
	store := memory.NewUserStore()
	hasher := &mock.PasswordHasherMock{}
	registration := service.NewRegistrationService(store, hasher, testNow, time.Second)
	lookup := service.NewLookupService(store, time.Second)

	assert.Panics(t, func() { NewHTTPServer(nil, lookup, nil, nil, testNow, log.NewNopLogger()) })
	assert.Panics(t, func() { NewHTTPServer(registration, nil, nil, nil, testNow, log.NewNopLogger()) })
	assert.Panics(t, func() { NewHTTPServer(registration, lookup, nil, nil, nil, log.NewNopLogger()) })
	assert.NotPanics(t, func() { NewHTTPServer(registration, lookup, nil, nil, testNow, log.NewNopLogger()) })
}

func TestHTTPServer_CreateUser(t *testing.T) {
	validBody := `{"email":"a@b.com","name":"A","password":"p"}`
	absent := func(ctx context.Context, email string) (bool, error) { return false, nil }

	tests := []struct {
		name            string
		body            string
		store           *mock.UserStoreMock
		expectedStatus  int
		expectedMessage *string
		expectedPuts    int
	}{
		{
			name: "ok",
			body: validBody,
			store: &mock.UserStoreMock{
				ExistsByEmailFunc: absent,
				PutFunc: func(ctx context.Context, user domain.User) error {
					assert.Equal(t, "a@b.com", user.Email)
					assert.Equal(t, service.Ptr("A"), user.Name)
					assert.Equal(t, []byte("hashed"), user.PasswordHash)
					assert.Equal(t, testNow(), user.CreatedAt)
					return nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedPuts:   1,
		},
		{
			name:           "ok without name",
			body:           `{"email":"a@b.com","password":"p"}`,
			store:          &mock.UserStoreMock{ExistsByEmailFunc: absent},
			expectedStatus: http.StatusOK,
			expectedPuts:   1,
		},
		{
			name:           "ok with null name",
			body:           `{"email":"a@b.com","name":null,"password":"p"}`,
			store:          &mock.UserStoreMock{ExistsByEmailFunc: absent},
			expectedStatus: http.StatusOK,
			expectedPuts:   1,
		},
		{
			name:            "400 invalid JSON",
			body:            `{invalid`,
			store:           &mock.UserStoreMock{},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: service.Ptr(service.ErrBadParameter),
		},
		{
			name:            "400 wrong field type",
			body:            `{"email":1,"password":"p"}`,
			store:           &mock.UserStoreMock{},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: service.Ptr(service.ErrBadParameter),
		},
		{
			name:            "400 empty object",
			body:            `{}`,
			store:           &mock.UserStoreMock{},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: service.Ptr(service.ErrMissingEmail),
		},
		{
			name:            "400 invalid email",
			body:            `{"email":"not-an-email","password":"p"}`,
			store:           &mock.UserStoreMock{},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: service.Ptr(service.ErrInvalidEmail),
		},
		{
			name:            "400 missing password",
			body:            `{"email":"a@b.com"}`,
			store:           &mock.UserStoreMock{},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: service.Ptr(service.ErrMissingPassword),
		},
		{
			name:           "ok long password",
			body:           `{"email":"a@b.com","password":"` + strings.Repeat("x", 100) + `"}`,
			store:          &mock.UserStoreMock{ExistsByEmailFunc: absent},
			expectedStatus: http.StatusOK,
			expectedPuts:   1,
		},
		{
			name: "409 email exists",
			body: validBody,
			store: &mock.UserStoreMock{
				ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return true, nil },
			},
			expectedStatus:  http.StatusConflict,
			expectedMessage: service.Ptr(service.ErrDuplicateEmail),
		},
		{
			name: "409 concurrent insert",
			body: validBody,
			store: &mock.UserStoreMock{
				ExistsByEmailFunc: absent,
				PutFunc: func(ctx context.Context, user domain.User) error {
					return service.NewConflictError("email taken", nil)
				},
			},
			expectedStatus:  http.StatusConflict,
			expectedMessage: service.Ptr(service.ErrDuplicateEmail),
			expectedPuts:    1,
		},
		{
			name: "503 ExistsByEmail error",
			body: validBody,
			store: &mock.UserStoreMock{
				ExistsByEmailFunc: func(ctx context.Context, email string) (bool, error) { return false, assert.AnError },
			},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedMessage: service.Ptr(service.ErrStoreUnavailable),
		},
		{
			name: "503 Put error",
			body: validBody,
			store: &mock.UserStoreMock{
				ExistsByEmailFunc: absent,
				PutFunc: func(ctx context.Context, user domain.User) error {
					return service.NewStoreUnavailableError("redis down", assert.AnError)
				},
			},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedMessage: service.Ptr(service.ErrStoreUnavailable),
			expectedPuts:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			registerHandlers(e, newTestServer(tt.store, nil, nil))

			rec := postUser(e, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Len(t, tt.store.PutCalls(), tt.expectedPuts)
			body := decodeSuccess(t, rec)
			if tt.expectedMessage == nil {
				assert.Equal(t, service.NewSuccess(), body)
				return
			}
			assert.Equal(t, service.NewFailure(*tt.expectedMessage), body)
		})
	}
}

func TestHTTPServer_CreateUser_SuccessBody(t *testing.T) {
	e := echo.New()
	registerHandlers(e, newTestServer(memory.NewUserStore(), nil, nil))

	rec := postUser(e, `{"email":"a@b.com","name":"A","password":"p"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","message":null}`, rec.Body.String())
}

func TestHTTPServer_GetUser(t *testing.T) {
	tests := []struct {
		name            string
		path            string
		store           *mock.UserStoreMock
		expectedStatus  int
		expectedBody    string
		expectedMessage string
	}{
		{
			name: "ok",
			path: "A",
			store: &mock.UserStoreMock{
				GetByNameFunc: func(ctx context.Context, name string) (domain.User, bool, error) {
					assert.Equal(t, "A", name)
					return domain.User{Email: "a@b.com", Name: service.Ptr("A"), PasswordHash: []byte("hashed")}, true, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"email":"a@b.com","name":"A"}`,
		},
		{
			name: "ok escaped name",
			path: "John%20Doe",
			store: &mock.UserStoreMock{
				GetByNameFunc: func(ctx context.Context, name string) (domain.User, bool, error) {
					assert.Equal(t, "John Doe", name)
					return domain.User{Email: "j@d.com", Name: service.Ptr("John Doe")}, true, nil
				},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"email":"j@d.com","name":"John Doe"}`,
		},
		{
			name: "404 absent",
			path: "nonexistent",
			store: &mock.UserStoreMock{
				GetByNameFunc: func(ctx context.Context, name string) (domain.User, bool, error) {
					return domain.User{}, false, nil
				},
			},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: service.ErrEntityNotFound,
		},
		{
			name: "503 store error",
			path: "A",
			store: &mock.UserStoreMock{
				GetByNameFunc: func(ctx context.Context, name string) (domain.User, bool, error) {
					return domain.User{}, false, assert.AnError
				},
			},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedMessage: service.ErrStoreUnavailable,
		},
		{
			name: "404 blank name is looked up",
			path: "%20",
			store: &mock.UserStoreMock{
				GetByNameFunc: func(ctx context.Context, name string) (domain.User, bool, error) {
					assert.Equal(t, " ", name)
					return domain.User{}, false, nil
				},
			},
			expectedStatus:  http.StatusNotFound,
			expectedMessage: service.ErrEntityNotFound,
		},
		{
			name:            "400 empty name",
			path:            "",
			store:           &mock.UserStoreMock{},
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: service.ErrBadParameter,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			registerHandlers(e, newTestServer(tt.store, nil, nil))

			rec := getUser(e, tt.path)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rec.Body.String())
				return
			}
			assert.Equal(t, service.NewFailure(tt.expectedMessage), decodeSuccess(t, rec))
		})
	}
}

func TestHTTPServer_GetUser_EmptyName(t *testing.T) {
	store := &mock.UserStoreMock{}
	e := echo.New()
	registerHandlers(e, newTestServer(store, nil, nil))

	rec := getUser(e, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.NewFailure(service.ErrBadParameter), decodeSuccess(t, rec))
	assert.Empty(t, store.GetByNameCalls())
}

func TestHTTPServer_GetUser_EscapedNames(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		expectedName string
	}{
		{name: "space", path: "John%20Doe", expectedName: "John Doe"},
		{name: "percent", path: "50%25", expectedName: "50%"},
		{name: "percent before hex digits", path: "a%2541", expectedName: "a%41"},
		{name: "slash", path: "a%2Fb", expectedName: "a/b"},
		{name: "slash and percent", path: "a%2F50%25", expectedName: "a/50%"},
		{name: "slash and space", path: "a%2Fb%20c", expectedName: "a/b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewUserStore()
			ctx := context.Background()
			require.NoError(t, store.Put(ctx, domain.User{Email: "wanted@b.com", Name: service.Ptr(tt.expectedName), PasswordHash: []byte("h")}))
			// a name that a second decoding of the path would produce
			require.NoError(t, store.Put(ctx, domain.User{Email: "other@b.com", Name: service.Ptr("aA"), PasswordHash: []byte("h")}))

			e := echo.New()
			registerHandlers(e, newTestServer(store, nil, nil))

			rec := getUser(e, tt.path)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var user User
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&user))
			assert.Equal(t, "wanted@b.com", user.Email)
			assert.Equal(t, service.Ptr(tt.expectedName), user.Name)
		})
	}
}

func TestHTTPServer_RegisterThenLookup(t *testing.T) {
	e := echo.New()
	registerHandlers(e, newTestServer(memory.NewUserStore(), nil, nil))

	require.Equal(t, http.StatusOK, postUser(e, `{"email":"a@b.com","name":"A","password":"secret"}`).Code)
	require.Equal(t, http.StatusOK, postUser(e, `{"email":"other@b.com","name":"A","password":"secret"}`).Code)

	dup := postUser(e, `{"email":"a@b.com","name":"B","password":"secret"}`)
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Equal(t, service.NewFailure(service.ErrDuplicateEmail), decodeSuccess(t, dup))

	rec := getUser(e, "A")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"a@b.com","name":"A"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.NotContains(t, rec.Body.String(), "hashed")

	assert.Equal(t, http.StatusNotFound, getUser(e, "B").Code)
}

func TestHTTPServer_CreateUser_PublishesEvent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		publishErr     error
		expectedStatus int
		expectedEvents int
	}{
		{
			name:           "published on success",
			body:           `{"email":"a@b.com","name":"A","password":"p"}`,
			expectedStatus: http.StatusOK,
			expectedEvents: 1,
		},
		{
			name:           "publish failure keeps the response",
			body:           `{"email":"a@b.com","name":"A","password":"p"}`,
			publishErr:     assert.AnError,
			expectedStatus: http.StatusOK,
			expectedEvents: 1,
		},
		{
			name:           "nothing published on failure",
			body:           `{"email":"a@b.com"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := &mock.EventPublisherMock{
				PublishUserRegisteredFunc: func(ctx context.Context, event domain.UserRegistered) error {
					_, hasDeadline := ctx.Deadline()
					assert.True(t, hasDeadline)
					return tt.publishErr
				},
			}
			e := echo.New()
			registerHandlers(e, newTestServer(memory.NewUserStore(), publisher, nil))

			rec := postUser(e, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			calls := publisher.PublishUserRegisteredCalls()
			require.Len(t, calls, tt.expectedEvents)
			if tt.expectedEvents > 0 {
				assert.Equal(t, domain.UserRegistered{
					Email:        "a@b.com",
					Name:         service.Ptr("A"),
					RegisteredAt: testNow(),
				}, calls[0].Event)
			}
		})
	}
}

func TestHTTPServer_UnknownRoute(t *testing.T) {
	e := echo.New()
	registerHandlers(e, newTestServer(memory.NewUserStore(), nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, service.NewFailure(service.ErrEntityNotFound), decodeSuccess(t, rec))
}

func TestOperation_EchoPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "/user/{name}", expected: "/user/:name"},
		{path: "/create/user", expected: "/create/user"},
		{path: "/a/{x}/b/{y}", expected: "/a/:x/b/:y"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, Operation{Path: tt.path}.EchoPath())
		})
	}
}

func TestOperation_EmptyParamPath(t *testing.T) {
	tests := []struct {
		path       string
		expected   string
		expectedOK bool
	}{
		{path: "/user/{name}", expected: "/user/", expectedOK: true},
		{path: "/create/user", expectedOK: false},
		{path: "/a/{x}/b", expectedOK: false},
		{path: "/a/{x}/b/{y}", expected: "/a/:x/b/", expectedOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			path, ok := Operation{Path: tt.path}.emptyParamPath()
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expected, path)
		})
	}
}
