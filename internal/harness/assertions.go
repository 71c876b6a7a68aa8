package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the full trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s -> %s\n", event.Step, event.Requested, outcome(event))
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages, in assertion order.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertPerformerCount:
		return assertPerformerCount(result.Trace, a)
	case AssertErrorCount:
		return assertErrorCount(result.Trace, a)
	case AssertForwardedUnchanged:
		return assertForwardedUnchanged(result.Trace)
	case AssertHistoryCount:
		return assertHistoryCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertPerformerCount checks that exactly a.Count steps selected a.Performer.
func assertPerformerCount(trace []TraceEvent, a Assertion) error {
	n := 0
	for _, event := range trace {
		if event.Performer == a.Performer {
			n++
		}
	}
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertPerformerCount,
		Expected: fmt.Sprintf("%s selected %d time(s)", a.Performer, a.Count),
		Actual:   fmt.Sprintf("selected %d time(s)", n),
		Trace:    trace,
	}
}

// assertErrorCount checks that exactly a.Count steps failed with a.Code.
func assertErrorCount(trace []TraceEvent, a Assertion) error {
	n := 0
	for _, event := range trace {
		if event.Error == a.Code {
			n++
		}
	}
	if n == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertErrorCount,
		Expected: fmt.Sprintf("%s reported %d time(s)", a.Code, a.Count),
		Actual:   fmt.Sprintf("reported %d time(s)", n),
		Trace:    trace,
	}
}

// assertForwardedUnchanged checks that the executor saw every configuration
// exactly as built.
func assertForwardedUnchanged(trace []TraceEvent) error {
	for _, event := range trace {
		if !event.Forwarded {
			return &AssertionError{
				Type:     AssertForwardedUnchanged,
				Expected: "every configuration forwarded once, unchanged",
				Actual:   fmt.Sprintf("step %d was not", event.Step),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertHistoryCount checks the number of recorded runs.
func assertHistoryCount(result *Result, a Assertion) error {
	if result.Recorded == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertHistoryCount,
		Expected: fmt.Sprintf("%d recorded run(s)", a.Count),
		Actual:   fmt.Sprintf("%d recorded run(s)", result.Recorded),
		Trace:    result.Trace,
	}
}
