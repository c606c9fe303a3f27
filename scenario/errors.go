package scenario

import "fmt"

// UnknownScenarioError is returned when the requested scenario name is not registered.
type UnknownScenarioError struct {
	Name string
}

func (e *UnknownScenarioError) Error() string {
	return fmt.Sprintf("unknown scenario: %s", e.Name)
}

// SkippedError is returned by a scenario that can't run with the given config.
type SkippedError struct {
	Reason string
}

func (e *SkippedError) Error() string {
	return fmt.Sprintf("scenario skipped: %s", e.Reason)
}
