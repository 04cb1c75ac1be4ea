// Package transfer provides a client for the transfer server API that
// anchors host to accept deposits and withdrawals.
//
// The client speaks the withdrawal side of the API: discovering what an
// anchor supports, requesting a withdrawal, and following the anchor's
// record of it afterwards. Responses that demand KYC are returned as values
// rather than errors, since they are ordinary steps of a withdrawal rather
// than failures.
package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Client requests withdrawals from a single anchor's transfer server.
//
// Client is safe to use from multiple goroutines.
type Client struct {
	// TransferServerURL is the base URL of the anchor's transfer server,
	// e.g. https://transfer.example.com .
	TransferServerURL string

	// HTTP is the HTTP client requests are made with. If nil,
	// http.DefaultClient is used.
	HTTP *http.Client
}

// Error is an error response from an anchor's transfer server.
type Error struct {
	// StatusCode is the HTTP status the anchor responded with.
	StatusCode int
	// Message is the anchor's error message, if it included one.
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("anchor responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("anchor responded with status %d: %s", e.StatusCode, e.Message)
}

// WithdrawRequest is a request to withdraw an asset out of the Stellar
// network.
type WithdrawRequest struct {
	// AuthToken is the token proving the requester controls Account,
	// obtained from the anchor's web auth endpoint. Left empty for anchors
	// that do not require authentication.
	AuthToken string

	// AssetCode is the code of the asset to withdraw.
	AssetCode string
	// Type is the withdrawal method, one of the types the anchor's info
	// response lists for the asset.
	Type string
	// Account is the Stellar account the withdrawn asset will be sent from.
	Account string
	// Fields are the values collected from the user for the fields the
	// anchor's info response lists for the withdrawal type.
	Fields map[string]string
}

// Info retrieves the anchor's description of the withdrawals it supports.
func (c *Client) Info() (Info, error) {
	resp, err := c.get("/info", url.Values{}, "")
	if err != nil {
		return Info{}, fmt.Errorf("requesting info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Info{}, fmt.Errorf("requesting info: %w", anchorError(resp))
	}
	info := Info{}
	err = json.NewDecoder(resp.Body).Decode(&info)
	if err != nil {
		return Info{}, fmt.Errorf("decoding info response: %w", err)
	}
	return info, nil
}

// Withdraw requests a withdrawal. A withdrawal the anchor accepts
// immediately, and each kind of KYC demand the anchor may respond with
// instead, are all returned as a WithdrawResponse. The error is non-nil only
// when the anchor's response is not part of the withdrawal conversation,
// such as a server error or an unparseable body.
func (c *Client) Withdraw(req WithdrawRequest) (WithdrawResponse, error) {
	query := url.Values{}
	query.Set("asset_code", req.AssetCode)
	if req.Type != "" {
		query.Set("type", req.Type)
	}
	if req.Account != "" {
		query.Set("account", req.Account)
	}
	for k, v := range req.Fields {
		query.Set(k, v)
	}
	resp, err := c.get("/withdraw", query, req.AuthToken)
	if err != nil {
		return WithdrawResponse{}, fmt.Errorf("requesting withdraw: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		success := WithdrawSuccess{}
		err = json.NewDecoder(resp.Body).Decode(&success)
		if err != nil {
			return WithdrawResponse{}, fmt.Errorf("decoding withdraw response: %w", err)
		}
		return WithdrawResponse{Type: WithdrawResponseTypeSuccess, Success: &success}, nil
	case http.StatusForbidden:
		return decodeKYCResponse(resp.Body)
	default:
		return WithdrawResponse{}, fmt.Errorf("requesting withdraw: %w", anchorError(resp))
	}
}

// Transaction retrieves the anchor's record of one transfer. The request
// must identify the transfer by at least one of its ids.
func (c *Client) Transaction(authToken string, req TransactionRequest) (Transaction, error) {
	if req.ID == "" && req.StellarTransactionID == "" && req.ExternalTransactionID == "" {
		return Transaction{}, fmt.Errorf("transaction request has no id to look up by")
	}
	query := url.Values{}
	if req.ID != "" {
		query.Set("id", req.ID)
	}
	if req.StellarTransactionID != "" {
		query.Set("stellar_transaction_id", req.StellarTransactionID)
	}
	if req.ExternalTransactionID != "" {
		query.Set("external_transaction_id", req.ExternalTransactionID)
	}
	resp, err := c.get("/transaction", query, authToken)
	if err != nil {
		return Transaction{}, fmt.Errorf("requesting transaction: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Transaction{}, fmt.Errorf("requesting transaction: %w", anchorError(resp))
	}
	body := struct {
		Transaction Transaction `json:"transaction"`
	}{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return Transaction{}, fmt.Errorf("decoding transaction response: %w", err)
	}
	return body.Transaction, nil
}

// Transactions retrieves the anchor's records of the transfers matching the
// request, newest first.
func (c *Client) Transactions(authToken string, req TransactionsRequest) ([]Transaction, error) {
	query := url.Values{}
	query.Set("asset_code", req.AssetCode)
	if req.Account != "" {
		query.Set("account", req.Account)
	}
	if !req.NoOlderThan.IsZero() {
		query.Set("no_older_than", req.NoOlderThan.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if req.Limit > 0 {
		query.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Kind != "" {
		query.Set("kind", req.Kind)
	}
	if req.PagingID != "" {
		query.Set("paging_id", req.PagingID)
	}
	resp, err := c.get("/transactions", query, authToken)
	if err != nil {
		return nil, fmt.Errorf("requesting transactions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requesting transactions: %w", anchorError(resp))
	}
	body := struct {
		Transactions []Transaction `json:"transactions"`
	}{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return nil, fmt.Errorf("decoding transactions response: %w", err)
	}
	return body.Transactions, nil
}

func (c *Client) get(path string, query url.Values, authToken string) (*http.Response, error) {
	u, err := url.Parse(c.TransferServerURL)
	if err != nil {
		return nil, fmt.Errorf("parsing transfer server url: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return httpClient.Do(req)
}

// decodeKYCResponse maps the 403 responses an anchor uses to ask for KYC to
// their WithdrawResponse variants, keyed on the type field of the body.
func decodeKYCResponse(r io.Reader) (WithdrawResponse, error) {
	body, err := ioutil.ReadAll(r)
	if err != nil {
		return WithdrawResponse{}, fmt.Errorf("reading withdraw response: %w", err)
	}
	peek := struct {
		Type string `json:"type"`
	}{}
	err = json.Unmarshal(body, &peek)
	if err != nil {
		return WithdrawResponse{}, fmt.Errorf("decoding withdraw response: %w", err)
	}
	switch peek.Type {
	case kycResponseTypeInteractive:
		interactive := InteractiveKYCNeeded{}
		err = json.Unmarshal(body, &interactive)
		if err != nil {
			return WithdrawResponse{}, fmt.Errorf("decoding withdraw response: %w", err)
		}
		return WithdrawResponse{Type: WithdrawResponseTypeInteractiveKYC, InteractiveKYC: &interactive}, nil
	case kycResponseTypeNonInteractive:
		nonInteractive := NonInteractiveKYCNeeded{}
		err = json.Unmarshal(body, &nonInteractive)
		if err != nil {
			return WithdrawResponse{}, fmt.Errorf("decoding withdraw response: %w", err)
		}
		return WithdrawResponse{Type: WithdrawResponseTypeNonInteractiveKYC, NonInteractiveKYC: &nonInteractive}, nil
	case kycResponseTypeStatus:
		status := KYCStatus{}
		err = json.Unmarshal(body, &status)
		if err != nil {
			return WithdrawResponse{}, fmt.Errorf("decoding withdraw response: %w", err)
		}
		return WithdrawResponse{Type: WithdrawResponseTypeKYCStatus, KYCStatus: &status}, nil
	}
	return WithdrawResponse{}, fmt.Errorf("unrecognized withdraw response type %q", peek.Type)
}

// anchorError extracts the error message from a non-OK anchor response.
func anchorError(resp *http.Response) error {
	e := &Error{StatusCode: resp.StatusCode}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return e
	}
	errBody := struct {
		Error string `json:"error"`
	}{}
	err = json.Unmarshal(body, &errBody)
	if err != nil {
		return e
	}
	e.Message = errBody.Error
	return e
}
