package withdraw

import (
	"github.com/stellar/transfer-sdk/transfer"
	"github.com/stellar/transfer-sdk/webauth"
)

// Details are the particulars of a single withdrawal attempt: the asset
// being withdrawn, the withdrawal method, and the form values the user
// supplied. Details are created once, when the user submits the withdrawal
// form, and never modified afterward. States carry them forward by
// reference.
type Details struct {
	// Asset is the asset being withdrawn.
	Asset transfer.Asset

	// Type is the withdrawal method, one of the types the anchor supports
	// for the asset, e.g. bank_account.
	Type string

	// Fields are the values collected from the user for the anchor's
	// declared fields.
	Fields map[string]string

	// Server is the transfer server the withdrawal is being made against.
	// It is owned by the caller and borrowed here, never mutated.
	Server *transfer.Client
}

// Step identifies where in the withdrawal lifecycle a state is.
type Step string

const (
	StepInitial              = Step("initial")
	StepBeforeWebAuth        = Step("before-webauth")
	StepAfterWebAuth         = Step("after-webauth")
	StepBeforeInteractiveKYC = Step("before-interactive-kyc")
	StepPendingKYC           = Step("pending-kyc")
	StepDeniedKYC            = Step("after-denied-kyc")
	StepSuccessfulKYC        = Step("after-successful-kyc")
	StepSubmitted            = Step("after-tx-submission")
)

// State is one point in the withdrawal lifecycle. The set of states is
// closed: the only implementations are the state types in this package, one
// per Step. No state mixes fields of two steps, so a value that would pair
// an auth token with before-webauth, or interactive KYC data with a KYC
// result, cannot be constructed.
type State interface {
	Step() Step
	isState()
}

// Initial is the state before a withdrawal form has been submitted, or
// after returning to the start. Details, when present, are the abandoned
// attempt's, preserved so a form can be repopulated. An initial state never
// supplies details to actions that need a withdrawal in flight.
type Initial struct {
	Details *Details
}

func (Initial) Step() Step { return StepInitial }
func (Initial) isState()   {}

// BeforeWebAuth is the state once the form is submitted to an anchor that
// requires authentication: a challenge has been obtained but not completed.
type BeforeWebAuth struct {
	Details   *Details
	Challenge *webauth.Challenge
}

func (BeforeWebAuth) Step() Step { return StepBeforeWebAuth }
func (BeforeWebAuth) isState()   {}

// AfterWebAuth is the state once authentication has completed, Token
// holding the bearer token, or been skipped, Token empty.
type AfterWebAuth struct {
	Details *Details
	Token   webauth.Token
}

func (AfterWebAuth) Step() Step { return StepAfterWebAuth }
func (AfterWebAuth) isState()   {}

// BeforeInteractiveKYC is the state while the anchor demands KYC through a
// hosted interactive flow the user must visit.
type BeforeInteractiveKYC struct {
	Details *Details
	KYC     *transfer.InteractiveKYCNeeded
}

func (BeforeInteractiveKYC) Step() Step { return StepBeforeInteractiveKYC }
func (BeforeInteractiveKYC) isState()   {}

// PendingKYC is the state while the anchor reviews previously supplied KYC.
type PendingKYC struct {
	Details *Details
	Status  *transfer.KYCStatus
}

func (PendingKYC) Step() Step { return StepPendingKYC }
func (PendingKYC) isState()   {}

// DeniedKYC is the state once the anchor has rejected the KYC submission.
// The attempt is over; back-to-start begins a new one.
type DeniedKYC struct {
	Details *Details
	Status  *transfer.KYCStatus
}

func (DeniedKYC) Step() Step { return StepDeniedKYC }
func (DeniedKYC) isState()   {}

// SuccessfulKYC is the state once the anchor has accepted the withdrawal
// and returned the instructions for completing it. Token is the auth token
// carried over from authentication, empty when the flow skipped it or lost
// it crossing a step that carries none.
type SuccessfulKYC struct {
	Details *Details
	Token   webauth.Token
	Result  *transfer.WithdrawSuccess
}

func (SuccessfulKYC) Step() Step { return StepSuccessfulKYC }
func (SuccessfulKYC) isState()   {}

// Submitted is the state once the withdrawal's payment has been submitted
// to the network. The attempt is concluded and the state carries nothing,
// so nothing of the attempt can leak into the next one.
type Submitted struct{}

func (Submitted) Step() Step { return StepSubmitted }
func (Submitted) isState()   {}
