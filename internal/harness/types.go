package harness

// RequestDefault is the Requested value of steps without a gesture_performer.
const RequestDefault = "default"

// TraceEvent records the outcome of one flow step.
type TraceEvent struct {
	Step      int      `json:"step"`
	Options   []string `json:"options"`
	Requested string   `json:"requested"`
	Performer string   `json:"performer,omitempty"`
	Error     string   `json:"error,omitempty"`

	// Forwarded is true when the executor received the configuration
	// exactly as it was built.
	Forwarded bool `json:"forwarded"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Trace contains one event per flow step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Recorded is the number of runs in the history after the flow.
	Recorded int `json:"recorded"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step outcome to the trace.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
