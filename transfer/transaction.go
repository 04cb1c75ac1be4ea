package transfer

import "time"

// TransactionStatus is an anchor's processing status for a transfer.
type TransactionStatus string

const (
	TransactionStatusIncomplete               = TransactionStatus("incomplete")
	TransactionStatusPendingExternal          = TransactionStatus("pending_external")
	TransactionStatusPendingAnchor            = TransactionStatus("pending_anchor")
	TransactionStatusPendingStellar           = TransactionStatus("pending_stellar")
	TransactionStatusPendingTrust             = TransactionStatus("pending_trust")
	TransactionStatusPendingUser              = TransactionStatus("pending_user")
	TransactionStatusPendingUserTransferStart = TransactionStatus("pending_user_transfer_start")
	TransactionStatusCompleted                = TransactionStatus("completed")
	TransactionStatusRefunded                 = TransactionStatus("refunded")
	TransactionStatusError                    = TransactionStatus("error")
)

// Terminal reports whether the status is one the anchor will not move the
// transfer out of.
func (s TransactionStatus) Terminal() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusRefunded, TransactionStatusError:
		return true
	}
	return false
}

// Transaction is an anchor's record of one transfer.
type Transaction struct {
	ID                    string            `json:"id"`
	Kind                  string            `json:"kind"`
	Status                TransactionStatus `json:"status"`
	StatusETA             int64             `json:"status_eta"`
	MoreInfoURL           string            `json:"more_info_url"`
	AmountIn              string            `json:"amount_in"`
	AmountOut             string            `json:"amount_out"`
	AmountFee             string            `json:"amount_fee"`
	From                  string            `json:"from"`
	To                    string            `json:"to"`
	WithdrawAnchorAccount string            `json:"withdraw_anchor_account"`
	WithdrawMemo          string            `json:"withdraw_memo"`
	WithdrawMemoType      string            `json:"withdraw_memo_type"`
	StartedAt             time.Time         `json:"started_at"`
	CompletedAt           *time.Time        `json:"completed_at"`
	StellarTransactionID  string            `json:"stellar_transaction_id"`
	ExternalTransactionID string            `json:"external_transaction_id"`
	Message               string            `json:"message"`
	Refunded              bool              `json:"refunded"`
}

// TransactionRequest identifies one transfer to look up. Exactly one of the
// fields should be set.
type TransactionRequest struct {
	ID                    string
	StellarTransactionID  string
	ExternalTransactionID string
}

// TransactionsRequest filters a transfer history lookup.
type TransactionsRequest struct {
	AssetCode   string
	Account     string
	NoOlderThan time.Time
	Limit       int
	Kind        string
	PagingID    string
}
