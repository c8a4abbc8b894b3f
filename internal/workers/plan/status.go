package plan

import "time"

// Status is the lifecycle state of a session's background planning task.
type Status string

const (
	StatusIdle                 Status = "idle"
	StatusPlanning             Status = "planning"
	StatusAnalyzing            Status = "analyzing"
	StatusPlanningArchitecture Status = "planning_architecture"
	StatusReady                Status = "plan_ready"
	StatusError                Status = "error"
)

// StatusRecord is the serialized planning status kept on the session.
type StatusRecord struct {
	Status     Status    `json:"status"`
	Progress   int       `json:"progress"`
	Error      string    `json:"error,omitempty"`
	LastUpdate time.Time `json:"last_update"`
}

// StartAllowed reports whether a new planning run may begin from s.
// Only idle and error are valid entry states; every other status means a
// run is in flight or has already produced a plan.
func StartAllowed(s Status) bool {
	return s == "" || s == StatusIdle || s == StatusError
}

// validNext defines the forward transitions of the status machine. Error is
// reachable from any non-terminal state; retry re-enters via planning.
var validNext = map[Status][]Status{
	StatusIdle:                 {StatusPlanning},
	StatusPlanning:             {StatusAnalyzing, StatusError},
	StatusAnalyzing:            {StatusPlanningArchitecture, StatusError},
	StatusPlanningArchitecture: {StatusPlanningArchitecture, StatusReady, StatusError},
	StatusError:                {StatusIdle, StatusPlanning},
	StatusReady:                nil,
}

// CanTransition reports whether moving from one status to the next is legal.
func CanTransition(from, to Status) bool {
	if from == "" {
		from = StatusIdle
	}
	for _, s := range validNext[from] {
		if s == to {
			return true
		}
	}
	return false
}
