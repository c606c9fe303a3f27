// Package handlers contains http handlers for myusers.
//
//go:generate go run ../cmd/myusers openapi --out ../api/openapi.json
package handlers

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"myusers/service"

	"github.com/labstack/echo/v4"
)

// Operation declares one API operation. Both the echo routes and the OpenAPI document are built from it.
type Operation struct {
	ID          string
	Method      string
	Path        string // OpenAPI path template, e.g. /user/{name}
	Summary     string
	Tag         string
	PathParams  []PathParam
	RequestBody any // zero value of the body type, nil when the operation has no body
	Responses   []Response

	handler func(w *ServerInterfaceWrapper) echo.HandlerFunc
}

// PathParam is a required string path parameter.
type PathParam struct {
	Name        string
	Description string
}

// Response is one documented outcome of an operation.
type Response struct {
	Status      int
	Description string
	Body        any // zero value of the body type
}

const userTag = "User"

var operations = []Operation{
	{
		ID:      "getUser",
		Method:  http.MethodGet,
		Path:    "/user/{name}",
		Summary: "Find a user by name",
		Tag:     userTag,
		PathParams: []PathParam{
			{Name: "name", Description: "User's name"},
		},
		Responses: []Response{
			{Status: http.StatusOK, Description: "User found successfully", Body: User{}},
			{Status: http.StatusBadRequest, Description: "Name is empty", Body: service.Success{}},
			{Status: http.StatusNotFound, Description: "User not found", Body: service.Success{}},
			{Status: http.StatusServiceUnavailable, Description: "User store unavailable", Body: service.Success{}},
		},
		handler: func(w *ServerInterfaceWrapper) echo.HandlerFunc { return w.GetUser },
	},
	{
		ID:          "createUser",
		Method:      http.MethodPost,
		Path:        "/create/user",
		Summary:     "Register a new user",
		Tag:         userTag,
		RequestBody: NewUser{},
		Responses: []Response{
			{Status: http.StatusOK, Description: "User created successfully", Body: service.Success{}},
			{Status: http.StatusBadRequest, Description: "Creating new user failed", Body: service.Success{}},
			{Status: http.StatusConflict, Description: "Email already registered", Body: service.Success{}},
			{Status: http.StatusServiceUnavailable, Description: "User store unavailable", Body: service.Success{}},
		},
		handler: func(w *ServerInterfaceWrapper) echo.HandlerFunc { return w.CreateUser },
	},
}

// Operations returns the declared API operations.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}

var pathParamPattern = regexp.MustCompile(`\{([^}/]+)\}`)

// EchoPath converts an OpenAPI path template to echo route syntax: /user/{name} -> /user/:name.
func (o Operation) EchoPath() string {
	return pathParamPattern.ReplaceAllString(o.Path, ":$1")
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Find a user by name
	// (GET /user/{name})
	GetUser(ctx echo.Context, name string) error
	// Register a new user
	// (POST /create/user)
	CreateUser(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// GetUser converts echo context to params.
func (w *ServerInterfaceWrapper) GetUser(ctx echo.Context) error {
	name, err := pathParam(ctx, "name")
	if err != nil {
		return service.NewBadParameterError("invalid format for parameter name", err)
	}
	return w.Handler.GetUser(ctx, name)
}

// pathParam returns the decoded value of a path parameter. echo routes on URL.RawPath when the
// request carries one, and on the already decoded URL.Path otherwise.
func pathParam(ctx echo.Context, name string) (string, error) {
	value := ctx.Param(name)
	if ctx.Request().URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}

// CreateUser converts echo context to params.
func (w *ServerInterfaceWrapper) CreateUser(ctx echo.Context) error {
	return w.Handler.CreateUser(ctx)
}

// EchoRouter is the part of *echo.Echo and *echo.Group used to register routes.
type EchoRouter interface {
	Add(method string, path string, handler echo.HandlerFunc, middleware ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each declared operation to the router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	wrapper := &ServerInterfaceWrapper{Handler: si}
	for _, op := range operations {
		h := op.handler(wrapper)
		router.Add(op.Method, op.EchoPath(), h)
		// echo never matches an empty trailing parameter, so /user/ gets its own route
		if prefix, ok := op.emptyParamPath(); ok {
			router.Add(op.Method, prefix, h)
		}
	}
}

// emptyParamPath returns the echo path of the operation with its trailing parameter left empty,
// e.g. /user/{name} -> /user/. ok is false when the path does not end with a parameter.
func (o Operation) emptyParamPath() (string, bool) {
	path := o.EchoPath()
	i := strings.LastIndex(path, "/:")
	if i < 0 || strings.Contains(path[i+1:], "/") {
		return "", false
	}
	return path[:i+1], true
}
