package transfer

// WithdrawResponseType identifies which variant of a withdraw response an
// anchor returned.
type WithdrawResponseType int

const (
	// WithdrawResponseTypeSuccess is an immediate success carrying transfer
	// instructions.
	WithdrawResponseTypeSuccess WithdrawResponseType = iota + 1
	// WithdrawResponseTypeInteractiveKYC is a request to collect KYC through
	// a hosted interactive flow.
	WithdrawResponseTypeInteractiveKYC
	// WithdrawResponseTypeNonInteractiveKYC is a request for additional
	// fields the client must collect and resubmit.
	WithdrawResponseTypeNonInteractiveKYC
	// WithdrawResponseTypeKYCStatus is the status of KYC the anchor is
	// reviewing or has reviewed.
	WithdrawResponseTypeKYCStatus
)

// WithdrawResponse is the result of a withdraw request. Exactly one of the
// variant fields is set, identified by Type.
type WithdrawResponse struct {
	Type WithdrawResponseType

	Success           *WithdrawSuccess
	InteractiveKYC    *InteractiveKYCNeeded
	NonInteractiveKYC *NonInteractiveKYCNeeded
	KYCStatus         *KYCStatus
}

// WithdrawSuccess carries the instructions for completing a withdrawal: the
// anchor account to pay, the memo that correlates the payment with the
// withdrawal, and the anchor's limits and fees for it.
type WithdrawSuccess struct {
	// AccountID is the anchor's Stellar account the withdrawn asset must be
	// sent to.
	AccountID string `json:"account_id"`
	// MemoType is one of text, id, or hash.
	MemoType string `json:"memo_type"`
	// Memo is the memo value the payment must carry, encoded per MemoType.
	Memo string `json:"memo"`
	// ID is the anchor's identifier for the withdrawal, usable with the
	// transaction endpoint.
	ID string `json:"id"`

	ETA        int64   `json:"eta"`
	MinAmount  float64 `json:"min_amount"`
	MaxAmount  float64 `json:"max_amount"`
	FeeFixed   float64 `json:"fee_fixed"`
	FeePercent float64 `json:"fee_percent"`
	ExtraInfo  struct {
		Message string `json:"message"`
	} `json:"extra_info"`
}

// InteractiveKYCNeeded instructs the client to send the user to a hosted KYC
// flow at URL. ID correlates later status polls with the flow.
type InteractiveKYCNeeded struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	ID   string `json:"id"`
}

// NonInteractiveKYCNeeded lists the names of additional fields the client
// must collect from the user and resubmit with the withdraw request.
type NonInteractiveKYCNeeded struct {
	Type   string   `json:"type"`
	Fields []string `json:"fields"`
}

// KYCStatusValue is the review state of submitted KYC.
type KYCStatusValue string

const (
	KYCStatusPending = KYCStatusValue("pending")
	KYCStatusDenied  = KYCStatusValue("denied")
	KYCStatusSuccess = KYCStatusValue("success")
)

// KYCStatus reports where the anchor's review of previously supplied KYC
// stands.
type KYCStatus struct {
	Type        string         `json:"type"`
	Status      KYCStatusValue `json:"status"`
	MoreInfoURL string         `json:"more_info_url"`
	ETA         int64          `json:"eta"`
	Message     string         `json:"message"`
}

// Values of the type field that identify the KYC variants of a withdraw
// response.
const (
	kycResponseTypeInteractive    = "interactive_customer_info_needed"
	kycResponseTypeNonInteractive = "non_interactive_customer_info_needed"
	kycResponseTypeStatus         = "customer_info_status"
)
