package scenario

// Config holds settings for running a scenario against a running service.
type Config struct {
	BaseURL string
	// GRPCAddr is the gRPC health server address. Scenarios that need it fail when it is empty.
	GRPCAddr string
	// RunID makes emails and names of one run unique, so scenarios can run against a non-empty store.
	RunID string
}
