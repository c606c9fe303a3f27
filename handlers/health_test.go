package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"myusers/interfaces/mock"
	"myusers/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func grpcStatus(t *testing.T, hs *health.Server) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := hs.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestNewHealthReporter_PanicsOnNilPinger(t *testing.T) {
	assert.Panics(t, func() { NewHealthReporter(nil, nil, log.NewNopLogger()) })
}

func TestHealthReporter_Healthz(t *testing.T) {
	tests := []struct {
		name           string
		pingErr        error
		expectedStatus int
		expectedBody   service.Success
		expectedGRPC   grpc_health_v1.HealthCheckResponse_ServingStatus
	}{
		{
			name:           "ok",
			expectedStatus: http.StatusOK,
			expectedBody:   service.NewSuccess(),
			expectedGRPC:   grpc_health_v1.HealthCheckResponse_SERVING,
		},
		{
			name:           "503 store unreachable",
			pingErr:        assert.AnError,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   service.NewFailure(service.ErrStoreUnavailable),
			expectedGRPC:   grpc_health_v1.HealthCheckResponse_NOT_SERVING,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := &mock.PingerMock{
				PingFunc: func(ctx context.Context) error {
					_, hasDeadline := ctx.Deadline()
					assert.True(t, hasDeadline)
					return tt.pingErr
				},
			}
			hs := health.NewServer()
			reporter := NewHealthReporter(pinger, hs, log.NewNopLogger())
			e := NewEcho(&ServerInterfaceMock{}, nil, nil, reporter, log.NewNopLogger())

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedBody, decodeSuccess(t, rec))
			assert.Equal(t, tt.expectedGRPC, grpcStatus(t, hs))
			assert.Len(t, pinger.PingCalls(), 1)
		})
	}
}

func TestHealthReporter_Run_ShutsDownOnCancel(t *testing.T) {
	pinger := &mock.PingerMock{}
	hs := health.NewServer()
	reporter := NewHealthReporter(pinger, hs, log.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		reporter.Run(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Len(t, pinger.PingCalls(), 1)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, grpcStatus(t, hs))
}

func TestHealthReporter_WithoutGRPC(t *testing.T) {
	reporter := NewHealthReporter(&mock.PingerMock{}, nil, log.NewNopLogger())
	assert.NoError(t, reporter.Check(context.Background()))
}

// ServerInterfaceMock answers every operation with 200 and no body.
type ServerInterfaceMock struct{}

func (ServerInterfaceMock) GetUser(ctx echo.Context, name string) error {
	return ctx.NoContent(http.StatusOK)
}

func (ServerInterfaceMock) CreateUser(ctx echo.Context) error {
	return ctx.NoContent(http.StatusOK)
}
