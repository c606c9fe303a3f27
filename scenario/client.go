package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"myusers/handlers"
	"myusers/service"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
)

// Client calls the HTTP API and checks every response against the OpenAPI document.
type Client struct {
	baseURL string
	http    *http.Client
	doc     *openapi3.T
}

// Response is a validated API response.
type Response struct {
	Status int
	Body   []byte
}

// NewClient creates a Client for the service at baseURL.
func NewClient(baseURL string) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	doc, err := handlers.NewOpenAPI()
	if err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		doc:     doc,
	}, nil
}

// CreateUser posts body as JSON to POST /create/user.
func (c *Client) CreateUser(ctx context.Context, body handlers.NewUser) (Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshal create user body: %w", err)
	}
	return c.CreateUserRaw(ctx, data)
}

// CreateUserRaw posts raw bytes to POST /create/user.
func (c *Client) CreateUserRaw(ctx context.Context, body []byte) (Response, error) {
	return c.do(ctx, "/create/user", http.MethodPost, "/create/user", nil, body)
}

// GetUser calls GET /user/{name}. The name is path-escaped.
func (c *Client) GetUser(ctx context.Context, name string) (Response, error) {
	return c.do(ctx, "/user/{name}", http.MethodGet, "/user/"+url.PathEscape(name), map[string]string{"name": name}, nil)
}

// Healthz calls GET /healthz. The endpoint is not part of the document, so the response is not validated.
func (c *Client) Healthz(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET /healthz: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (c *Client) do(ctx context.Context, path, method, target string, pathParams map[string]string, body []byte) (Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+target, reader)
	if err != nil {
		return Response{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: read body: %w", method, target, err)
	}

	route, err := c.route(path, method)
	if err != nil {
		return Response{}, err
	}
	err = openapi3filter.ValidateResponse(ctx, &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
		},
		Status:  resp.StatusCode,
		Header:  resp.Header,
		Body:    io.NopCloser(bytes.NewReader(data)),
		Options: &openapi3filter.Options{IncludeResponseStatus: true},
	})
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: response %d does not match the API document: %w", method, target, resp.StatusCode, err)
	}

	return Response{Status: resp.StatusCode, Body: data}, nil
}

func (c *Client) route(path, method string) (*routers.Route, error) {
	item := c.doc.Paths.Value(path)
	if item == nil {
		return nil, fmt.Errorf("path %s is not documented", path)
	}
	op := item.GetOperation(method)
	if op == nil {
		return nil, fmt.Errorf("%s %s is not documented", method, path)
	}
	return &routers.Route{
		Spec:      c.doc,
		Path:      path,
		PathItem:  item,
		Method:    method,
		Operation: op,
	}, nil
}

// ExpectStatus checks the status of resp.
func ExpectStatus(resp Response, status int) error {
	if resp.Status != status {
		return fmt.Errorf("status=%d, want %d, body=%s", resp.Status, status, resp.Body)
	}
	return nil
}

// ExpectSuccess checks a 200 {"status":"ok"} envelope.
func ExpectSuccess(resp Response) error {
	if err := ExpectStatus(resp, http.StatusOK); err != nil {
		return err
	}
	var body service.Success
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if body.Status != service.StatusOK {
		return fmt.Errorf("status field=%q, want %q", body.Status, service.StatusOK)
	}
	return nil
}

// ExpectFailure checks the status and the reason code of a failure envelope.
func ExpectFailure(resp Response, status int, code string) error {
	if err := ExpectStatus(resp, status); err != nil {
		return err
	}
	var body service.Success
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if body.Status != service.StatusError || body.Message == nil || *body.Message != code {
		return fmt.Errorf("envelope=%s, want error %q", resp.Body, code)
	}
	return nil
}

// ExpectUser checks a 200 response carrying the public fields of a user.
func ExpectUser(resp Response, email string, name *string) error {
	if err := ExpectStatus(resp, http.StatusOK); err != nil {
		return err
	}
	var user handlers.User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return fmt.Errorf("decode user: %w", err)
	}
	if user.Email != email {
		return fmt.Errorf("email=%q, want %q", user.Email, email)
	}
	if service.Value(user.Name) != service.Value(name) || (user.Name == nil) != (name == nil) {
		return fmt.Errorf("name=%v, want %v", service.Value(user.Name), service.Value(name))
	}
	if bytes.Contains(resp.Body, []byte("password")) {
		return fmt.Errorf("response leaks password field: %s", resp.Body)
	}
	return nil
}

func email(cfg *Config, local string) string {
	return fmt.Sprintf("%s-%s@example.com", local, cfg.RunID)
}

func userName(cfg *Config, base string) *string {
	return service.Ptr(fmt.Sprintf("%s %s", base, cfg.RunID))
}
