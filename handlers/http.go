package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"myusers/domain"
	"myusers/interfaces"
	"myusers/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

const publishTimeout = 2 * time.Second

// HTTPServer implements ServerInterface.
type HTTPServer struct {
	registration *service.RegistrationService
	lookup       *service.LookupService
	publisher    interfaces.EventPublisher // nil disables events
	metrics      *Metrics                  // nil disables metrics
	now          func() time.Time
	logger       log.Logger
}

// NewHTTPServer creates a new HTTPServer. publisher and metrics are optional.
func NewHTTPServer(
	registration *service.RegistrationService,
	lookup *service.LookupService,
	publisher interfaces.EventPublisher,
	metrics *Metrics,
	now func() time.Time,
	logger log.Logger,
) *HTTPServer {
	logger = log.WithPrefix(logger, "component", "HTTPServer")
	return &HTTPServer{
		registration: service.NilPanic(registration, "handlers.http.go: registration service is required"),
		lookup:       service.NilPanic(lookup, "handlers.http.go: lookup service is required"),
		publisher:    publisher,
		metrics:      metrics,
		now:          service.NilPanic(now, "handlers.http.go: now is required"),
		logger:       logger,
	}
}

// GetUser (GET /user/{name}) returns the public fields of the user. 400 on empty name, 404 when absent, 503 when the store is unavailable.
func (h *HTTPServer) GetUser(ectx echo.Context, name string) error {
	ctx := ectx.Request().Context()
	user, err := h.lookup.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("getUser failed to find user by name, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, toUser(user))
}

// CreateUser (POST /create/user) registers a user. 400 on parse/validation error, 409 on duplicate email, 503 when the store is unavailable.
func (h *HTTPServer) CreateUser(ectx echo.Context) error {
	var req NewUser
	if err := ectx.Bind(&req); err != nil {
		h.metrics.recordRegistration(service.ErrBadParameter)
		return service.NewBadParameterError("invalid request body", err)
	}

	ctx := ectx.Request().Context()
	user, err := h.registration.Register(ctx, fromNewUser(req))
	if err != nil {
		h.metrics.recordRegistration(registrationOutcome(err))
		return fmt.Errorf("createUser failed to register user, err: %w", err)
	}
	h.metrics.recordRegistration(outcomeOK)

	h.publishRegistered(ctx, user)

	return ectx.JSON(http.StatusOK, service.NewSuccess())
}

// publishRegistered announces the user. Failures are logged only: the user is already stored.
func (h *HTTPServer) publishRegistered(ctx context.Context, user domain.PublicUser) {
	if h.publisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := domain.UserRegistered{
		Email:        user.Email,
		Name:         user.Name,
		RegisteredAt: h.now(),
	}
	if err := h.publisher.PublishUserRegistered(ctx, event); err != nil {
		level.Warn(h.logger).Log("msg", "Failed to publish user registered event", "err", err)
	}
}

func registrationOutcome(err error) string {
	if code := service.ToMyErrorCode(err); code != "" {
		return code
	}
	return service.ErrInternalServerError
}
