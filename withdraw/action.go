package withdraw

import (
	"github.com/stellar/transfer-sdk/transfer"
	"github.com/stellar/transfer-sdk/webauth"
)

// Action is an input to Apply: a user interaction or the outcome of a
// network call, carrying exactly the payload its resulting state needs. The
// set of actions is closed: the only implementations are the action types
// in this package.
//
// Constructing an action validates nothing. Whether an action is legal for
// a state is decided only by Apply, so a caller can construct actions
// speculatively as its network calls resolve, without knowing the current
// state.
type Action interface {
	name() string
}

// BackToStart abandons the attempt and returns to the initial state,
// preserving the attempt's details so a form can be repopulated.
type BackToStart struct{}

func (BackToStart) name() string { return "back-to-start" }

// SaveInitForm submits the withdrawal form, assembling new details from its
// payload. With a Challenge the flow proceeds through authentication;
// without one the anchor requires none and authentication is skipped.
type SaveInitForm struct {
	Asset     transfer.Asset
	Type      string
	Fields    map[string]string
	Server    *transfer.Client
	Challenge *webauth.Challenge
}

func (SaveInitForm) name() string { return "save-init-form" }

// SetAuthToken completes authentication with the bearer token the anchor
// issued for the signed challenge.
type SetAuthToken struct {
	Token webauth.Token
}

func (SetAuthToken) name() string { return "set-auth-token" }

// StartInteractiveKYC records the anchor's demand for KYC through a hosted
// interactive flow.
type StartInteractiveKYC struct {
	KYC *transfer.InteractiveKYCNeeded
}

func (StartInteractiveKYC) name() string { return "start-interactive-kyc" }

// KYCPending records that the anchor is still reviewing supplied KYC.
type KYCPending struct {
	Status *transfer.KYCStatus
}

func (KYCPending) name() string { return "kyc-pending" }

// KYCDenied records that the anchor rejected the KYC submission.
type KYCDenied struct {
	Status *transfer.KYCStatus
}

func (KYCDenied) name() string { return "kyc-denied" }

// KYCSuccessful records that the anchor accepted the withdrawal, carrying
// the anchor's instructions for completing it.
type KYCSuccessful struct {
	Result *transfer.WithdrawSuccess
}

func (KYCSuccessful) name() string { return "kyc-successful" }

// SubmittedTx records that the withdrawal's payment was submitted to the
// network, concluding the attempt.
type SubmittedTx struct{}

func (SubmittedTx) name() string { return "after-tx-submission" }
