package domain

import "fmt"

// statusOK is the only status a successful update answers with.
const statusOK = 200

// AttemptResult is what a single upload attempt observed.
// Err is set when no response was received at all.
type AttemptResult struct {
	StatusCode int
	Status     string
	DeployedAt string
	Errors     []string
	Body       string
	Err        error
}

// Error describes the failure of the attempt, or nil for a clean response.
func (r AttemptResult) Error() error {
	if r.Err != nil {
		return r.Err
	}
	if r.StatusCode >= 400 {
		return &HTTPStatusError{StatusCode: r.StatusCode, Status: r.Status, Body: r.Body}
	}
	return nil
}

// OutcomeKind tags the terminal state of a deployment.
type OutcomeKind int

// The zero value is OutcomeUnknown so an unset Outcome never reads as a success.
const (
	OutcomeUnknown OutcomeKind = iota
	OutcomeSuccess
	OutcomeRemoteRejection
	OutcomeExhaustedRetries
)

// String returns the string representation of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "Success"
	case OutcomeRemoteRejection:
		return "RemoteRejection"
	case OutcomeExhaustedRetries:
		return "ExhaustedRetries"
	default:
		return "Unknown"
	}
}

// Outcome is the terminal result of one deployment run.
type Outcome struct {
	Kind     OutcomeKind
	Attempts int

	// DeployedAt is set on success.
	DeployedAt string

	// Errors is set on remote rejection.
	Errors []string

	// LastErr is set when retries were exhausted.
	LastErr error
}

// Succeeded reports whether the deployment reached the remote service.
func (o Outcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}

// Err converts a failed outcome into an error; it returns nil on success.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeRemoteRejection:
		return &RejectionError{Errors: o.Errors}
	case OutcomeExhaustedRetries:
		return &ExhaustedError{Attempts: o.Attempts, Last: o.LastErr}
	default:
		return fmt.Errorf("unknown outcome %d", o.Kind)
	}
}

// Classify turns a non-retryable attempt into a terminal outcome.
// A failed attempt the policy declined to retry ends the run like an
// exhausted budget. A 200 response with errors is a rejection; a 200
// response carrying deployedAt is a success. Anything else the remote
// answered with is treated as a rejection because repeating the request
// would not change it.
func Classify(r AttemptResult, attempt int) Outcome {
	if err := r.Error(); err != nil {
		return Outcome{Kind: OutcomeExhaustedRetries, Attempts: attempt, LastErr: err}
	}
	if len(r.Errors) > 0 {
		return Outcome{Kind: OutcomeRemoteRejection, Attempts: attempt, Errors: r.Errors}
	}
	if r.StatusCode == statusOK && r.DeployedAt != "" {
		return Outcome{Kind: OutcomeSuccess, Attempts: attempt, DeployedAt: r.DeployedAt}
	}

	msg := "response did not include data.function.deployedAt"
	if r.StatusCode != statusOK {
		msg = fmt.Sprintf("unexpected response status %d", r.StatusCode)
		if r.Status != "" {
			msg = "unexpected response status " + r.Status
		}
	}
	return Outcome{Kind: OutcomeRemoteRejection, Attempts: attempt, Errors: []string{msg}}
}
