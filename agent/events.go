package agent

import (
	"github.com/stellar/transfer-sdk/transfer"
	"github.com/stellar/transfer-sdk/webauth"
)

// Event is an event that occurs while the agent works a withdrawal, pushed to
// the events channel given in the Config.
type Event interface{}

// ErrorEvent occurs when an error has occurred, and contains the error
// occurred.
type ErrorEvent struct {
	Err error
}

// FormSavedEvent occurs when the withdrawal form has been saved and a new
// withdrawal attempt begun.
type FormSavedEvent struct{}

// AuthenticationRequiredEvent occurs when the anchor requires the challenge
// handshake before it will accept a withdraw request, and contains the
// challenge to sign.
type AuthenticationRequiredEvent struct {
	Challenge *webauth.Challenge
}

// AuthenticatedEvent occurs when the challenge handshake has completed and
// the withdrawal holds an auth token.
type AuthenticatedEvent struct{}

// InteractiveKYCRequiredEvent occurs when the anchor requires the customer to
// complete a hosted KYC flow before the withdrawal can proceed.
type InteractiveKYCRequiredEvent struct {
	URL string
	ID  string
}

// AdditionalFieldsNeededEvent occurs when the anchor requires more form
// fields to be collected and the withdrawal re-requested.
type AdditionalFieldsNeededEvent struct {
	Fields []string
}

// KYCPendingEvent occurs when the anchor reports the customer's KYC is being
// reviewed.
type KYCPendingEvent struct {
	Status *transfer.KYCStatus
}

// KYCDeniedEvent occurs when the anchor denies the customer's KYC and the
// withdrawal cannot proceed.
type KYCDeniedEvent struct {
	Status *transfer.KYCStatus
}

// KYCSucceededEvent occurs when the anchor accepts the withdrawal and returns
// the instructions for paying it.
type KYCSucceededEvent struct {
	Result *transfer.WithdrawSuccess
}

// SubmittedEvent occurs when the withdrawal payment has been submitted to the
// network, and contains the hash of the payment transaction.
type SubmittedEvent struct {
	TransactionHash string
}

// RestartedEvent occurs when the agent has returned to the start of the
// withdrawal lifecycle.
type RestartedEvent struct{}
