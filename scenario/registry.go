package scenario

import (
	"context"
	"sort"
)

// Runner runs a single scenario with the given config. Each scenario should create
// its own client and context.
type Runner func(ctx context.Context, cfg *Config) error

var registry = make(map[string]Runner)

// Register adds a scenario by name. Call from init() in scenario files.
func Register(name string, fn Runner) {
	registry[name] = fn
}

// Names returns the registered scenario names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run runs the named scenario. Returns the runner's error if the scenario exists.
func Run(name string, ctx context.Context, cfg *Config) error {
	fn, ok := registry[name]
	if !ok {
		return &UnknownScenarioError{Name: name}
	}
	return fn(ctx, cfg)
}
