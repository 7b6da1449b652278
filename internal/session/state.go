package session

type OutcomeKind string

const (
	OutcomeIdle                     OutcomeKind = "idle"
	OutcomeLoading                  OutcomeKind = "loading"
	OutcomeSuccess                  OutcomeKind = "success"
	OutcomeError                    OutcomeKind = "error"
	OutcomeEmailConfirmationPending OutcomeKind = "email_confirmation_pending"
)

// Outcome is the result of the latest auth attempt. Message is only set for OutcomeError.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message,omitempty"`
}

func Idle() Outcome                     { return Outcome{Kind: OutcomeIdle} }
func Loading() Outcome                  { return Outcome{Kind: OutcomeLoading} }
func Success() Outcome                  { return Outcome{Kind: OutcomeSuccess} }
func EmailConfirmationPending() Outcome { return Outcome{Kind: OutcomeEmailConfirmationPending} }

func Failure(message string) Outcome {
	return Outcome{Kind: OutcomeError, Message: message}
}

// State is the snapshot published to binders.
type State struct {
	LoggedIn                 bool    `json:"logged_in"`
	Email                    string  `json:"email,omitempty"`
	PendingConfirmationEmail string  `json:"pending_confirmation_email,omitempty"`
	Outcome                  Outcome `json:"outcome"`
}
