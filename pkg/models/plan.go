package models

import "fmt"

// StatementStep is one named SQL statement of a load plan.
type StatementStep struct {
	Name string `json:"name"`
	SQL  string `json:"sql"`
}

// LoadPlan is an ordered sequence of statement steps. The order is
// semantically significant: a step must finish before the next one runs.
type LoadPlan []StatementStep

// Statement statuses reported by the Redshift Data API.
const (
	StatementSubmitted = "SUBMITTED"
	StatementPicked    = "PICKED"
	StatementStarted   = "STARTED"
	StatementFinished  = "FINISHED"
	StatementFailed    = "FAILED"
	StatementAborted   = "ABORTED"
)

// IsTerminalStatus returns true for statuses that have no further
// transition (FINISHED, FAILED and ABORTED).
func IsTerminalStatus(status string) bool {
	switch status {
	case StatementFinished, StatementFailed, StatementAborted:
		return true
	}
	return false
}

// StepFailure is returned when a submitted statement reached FAILED or
// ABORTED. It carries the step name and the error detail reported by the
// remote side.
type StepFailure struct {
	StepName string
	Status   string
	Detail   string
}

// Error of StepFailure follows the message format of the job log.
func (x *StepFailure) Error() string {
	return fmt.Sprintf("%s Failed: %s", x.StepName, x.Detail)
}
