package transfer

// Info describes the deposit and withdrawal capabilities an anchor
// advertises, and which of its optional endpoints it serves.
type Info struct {
	Deposit      map[string]DepositAssetInfo  `json:"deposit"`
	Withdraw     map[string]WithdrawAssetInfo `json:"withdraw"`
	Fee          EndpointInfo                 `json:"fee"`
	Transaction  EndpointInfo                 `json:"transaction"`
	Transactions EndpointInfo                 `json:"transactions"`
}

// DepositAssetInfo describes the anchor's support for depositing one asset,
// keyed in Info by the asset code.
type DepositAssetInfo struct {
	Enabled                bool                 `json:"enabled"`
	AuthenticationRequired bool                 `json:"authentication_required"`
	FeeFixed               float64              `json:"fee_fixed"`
	FeePercent             float64              `json:"fee_percent"`
	MinAmount              float64              `json:"min_amount"`
	MaxAmount              float64              `json:"max_amount"`
	Fields                 map[string]FieldInfo `json:"fields"`
}

// EndpointInfo describes whether an anchor serves one of its optional
// endpoints, such as the transaction history endpoints.
type EndpointInfo struct {
	Enabled                bool `json:"enabled"`
	AuthenticationRequired bool `json:"authentication_required"`
}

// WithdrawAssetInfo describes the anchor's support for withdrawing one
// asset, keyed in Info by the asset code.
type WithdrawAssetInfo struct {
	Enabled                bool                        `json:"enabled"`
	AuthenticationRequired bool                        `json:"authentication_required"`
	FeeFixed               float64                     `json:"fee_fixed"`
	FeePercent             float64                     `json:"fee_percent"`
	MinAmount              float64                     `json:"min_amount"`
	MaxAmount              float64                     `json:"max_amount"`
	Types                  map[string]WithdrawTypeInfo `json:"types"`
}

// WithdrawTypeInfo describes one withdrawal method an anchor supports for an
// asset, such as bank_account or cash, and the fields it needs for it.
type WithdrawTypeInfo struct {
	Fields map[string]FieldInfo `json:"fields"`
}

// FieldInfo describes a field an anchor wants collected from the user.
type FieldInfo struct {
	Description string   `json:"description"`
	Optional    bool     `json:"optional"`
	Choices     []string `json:"choices"`
}
