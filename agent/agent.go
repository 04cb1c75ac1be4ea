// Package agent contains a rudimentary and experimental implementation of an
// agent that coordinates the client side of a withdrawal against an anchor:
// saving the withdrawal form, authenticating with the anchor's web auth
// service, requesting the withdrawal, watching the anchor's KYC review, and
// paying the withdrawal to the anchor on the network.
//
// The agent is intended for use in examples only at this point and is not
// intended to be stable or reliable.
package agent

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stellar/go/amount"
	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stellar/transfer-sdk/transfer"
	"github.com/stellar/transfer-sdk/txbuild"
	"github.com/stellar/transfer-sdk/webauth"
	"github.com/stellar/transfer-sdk/withdraw"
	"golang.org/x/sync/errgroup"
)

// WithdrawServer is an anchor's transfer server that withdrawals are
// requested from and tracked on.
type WithdrawServer interface {
	Info() (transfer.Info, error)
	Withdraw(req transfer.WithdrawRequest) (transfer.WithdrawResponse, error)
	Transaction(authToken string, req transfer.TransactionRequest) (transfer.Transaction, error)
}

var _ WithdrawServer = &transfer.Client{}

// Authenticator performs an anchor's challenge handshake, producing the auth
// token that withdraw requests are authorized with.
type Authenticator interface {
	Challenge(account *keypair.FromAddress) (webauth.Challenge, error)
	Token(challenge webauth.Challenge, signers ...*keypair.Full) (webauth.Token, error)
}

var _ Authenticator = &webauth.Client{}

// BalanceCollector gets the balance of an asset for an account.
type BalanceCollector interface {
	GetBalance(account *keypair.FromAddress, asset transfer.Asset) (int64, error)
}

// SequenceNumberCollector gets the sequence number for an account.
type SequenceNumberCollector interface {
	GetSequenceNumber(account *keypair.FromAddress) (int64, error)
}

// Submitter submits a transaction to the network.
type Submitter interface {
	SubmitTx(tx *txnbuild.Transaction) error
}

// Snapshotter is given a snapshot of the agent whenever its meaningful state
// changes. Snapshots can be restored using NewAgentFromSnapshot.
type Snapshotter interface {
	Snapshot(a *Agent, s Snapshot)
}

type Config struct {
	NetworkPassphrase string

	WithdrawServer WithdrawServer
	Authenticator  Authenticator

	SequenceNumberCollector SequenceNumberCollector
	BalanceCollector        BalanceCollector
	Submitter               Submitter
	Snapshotter             Snapshotter

	AccountKey    *keypair.FromAddress
	AccountSigner *keypair.Full

	PollInterval time.Duration

	LogWriter io.Writer

	Events chan<- Event
}

func NewAgent(c Config) *Agent {
	agent := &Agent{
		networkPassphrase: c.NetworkPassphrase,

		withdrawServer: c.WithdrawServer,
		authenticator:  c.Authenticator,

		sequenceNumberCollector: c.SequenceNumberCollector,
		balanceCollector:        c.BalanceCollector,
		submitter:               c.Submitter,
		snapshotter:             c.Snapshotter,

		accountKey:    c.AccountKey,
		accountSigner: c.AccountSigner,

		pollInterval: c.PollInterval,

		logWriter: c.LogWriter,

		events: c.Events,

		state: withdraw.Initial{},
	}
	return agent
}

// Snapshot is a snapshot of the agent and the withdrawal it is working,
// excluding any fields provided in the Config when instantiating an agent. A
// Snapshot can be restored into an Agent using NewAgentFromSnapshot.
type Snapshot struct {
	AttemptID string
	State     withdraw.Snapshot
}

// NewAgentFromSnapshot creates an agent using a previously generated snapshot
// so that the new agent has the same state as the previous agent. To restore
// the agent to its identical state the same config should be provided that
// was in use when the snapshot was created.
func NewAgentFromSnapshot(c Config, s Snapshot) (*Agent, error) {
	agent := NewAgent(c)
	var httpClient *http.Client
	if server, ok := c.WithdrawServer.(*transfer.Client); ok {
		httpClient = server.HTTP
	}
	state, err := withdraw.StateFromSnapshot(s.State, httpClient)
	if err != nil {
		return nil, fmt.Errorf("restoring state from snapshot: %w", err)
	}
	agent.attemptID = s.AttemptID
	agent.state = state
	return agent, nil
}

// Agent coordinates a withdrawal against an anchor on behalf of an account.
type Agent struct {
	networkPassphrase string

	withdrawServer WithdrawServer
	authenticator  Authenticator

	sequenceNumberCollector SequenceNumberCollector
	balanceCollector        BalanceCollector
	submitter               Submitter
	snapshotter             Snapshotter

	accountKey    *keypair.FromAddress
	accountSigner *keypair.Full

	pollInterval time.Duration

	logWriter io.Writer

	events chan<- Event

	// mu is a lock for the mutable fields of this type. It should be locked
	// when reading or writing any of the mutable fields. The mutable fields are
	// listed below. If pushing to a chan, such as Events, it is unnecessary to
	// lock.
	mu sync.Mutex

	attemptID   string
	state       withdraw.State
	watchCancel func()
}

// Config returns the config the agent was created with.
func (a *Agent) Config() Config {
	return Config{
		NetworkPassphrase: a.networkPassphrase,

		WithdrawServer: a.withdrawServer,
		Authenticator:  a.authenticator,

		SequenceNumberCollector: a.sequenceNumberCollector,
		BalanceCollector:        a.balanceCollector,
		Submitter:               a.submitter,
		Snapshotter:             a.snapshotter,

		AccountKey:    a.accountKey,
		AccountSigner: a.accountSigner,

		PollInterval: a.pollInterval,

		LogWriter: a.logWriter,

		Events: a.events,
	}
}

// State returns the state of the withdrawal the agent is working.
func (a *Agent) State() withdraw.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// AttemptID returns the identifier of the withdrawal attempt being worked,
// empty when none has begun.
func (a *Agent) AttemptID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.attemptID
}

// Snapshot returns a snapshot of the agent as it is now.
func (a *Agent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buildSnapshot()
}

func (a *Agent) buildSnapshot() Snapshot {
	return Snapshot{
		AttemptID: a.attemptID,
		State:     withdraw.SnapshotState(a.state),
	}
}

func (a *Agent) snapshot() {
	if a.snapshotter == nil {
		return
	}
	a.snapshotter.Snapshot(a, a.buildSnapshot())
}

// SaveForm stores the withdrawal form and begins a new withdrawal attempt,
// overwriting any attempt in progress. The anchor's support for withdrawing
// the asset is checked, and an auth challenge is fetched at the same time
// when an authenticator is configured.
func (a *Agent) SaveForm(asset transfer.Asset, withdrawType string, fields map[string]string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.withdrawServer == nil {
		return fmt.Errorf("no withdraw server configured")
	}
	if a.accountKey == nil {
		return fmt.Errorf("no account configured")
	}

	var info transfer.Info
	var challenge *webauth.Challenge
	g := errgroup.Group{}
	g.Go(func() error {
		var err error
		info, err = a.withdrawServer.Info()
		if err != nil {
			return fmt.Errorf("getting anchor info: %w", err)
		}
		return nil
	})
	if a.authenticator != nil {
		g.Go(func() error {
			c, err := a.authenticator.Challenge(a.accountKey)
			if err != nil {
				return fmt.Errorf("getting auth challenge: %w", err)
			}
			challenge = &c
			return nil
		})
	}
	err := g.Wait()
	if err != nil {
		return err
	}

	assetInfo, ok := info.Withdraw[asset.Code()]
	if !ok || !assetInfo.Enabled {
		return fmt.Errorf("anchor does not support withdrawing asset %s", asset)
	}

	defer a.snapshot()

	a.stopWatch()

	server, _ := a.withdrawServer.(*transfer.Client)
	state, err := withdraw.Apply(a.state, withdraw.SaveInitForm{
		Asset:     asset,
		Type:      withdrawType,
		Fields:    fields,
		Server:    server,
		Challenge: challenge,
	})
	if err != nil {
		return fmt.Errorf("saving form: %w", err)
	}
	a.state = state
	a.attemptID = uuid.NewString()
	fmt.Fprintf(a.logWriter, "form saved, attempt %s\n", a.attemptID)

	if a.events != nil {
		a.events <- FormSavedEvent{}
		if challenge != nil {
			a.events <- AuthenticationRequiredEvent{Challenge: challenge}
		}
	}
	return nil
}

// Authenticate signs the stored auth challenge with the account signer and
// trades it with the anchor for an auth token.
func (a *Agent) Authenticate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.authenticator == nil {
		return fmt.Errorf("no authenticator configured")
	}
	if a.accountSigner == nil {
		return fmt.Errorf("no account signer configured")
	}
	before, ok := a.state.(withdraw.BeforeWebAuth)
	if !ok || before.Challenge == nil {
		return fmt.Errorf("no challenge to authenticate with")
	}

	token, err := a.authenticator.Token(*before.Challenge, a.accountSigner)
	if err != nil {
		return fmt.Errorf("getting auth token: %w", err)
	}

	defer a.snapshot()

	state, err := withdraw.Apply(a.state, withdraw.SetAuthToken{Token: token})
	if err != nil {
		return fmt.Errorf("setting auth token: %w", err)
	}
	a.state = state
	fmt.Fprintf(a.logWriter, "authenticated\n")

	if a.events != nil {
		a.events <- AuthenticatedEvent{}
	}
	return nil
}

// RequestWithdraw requests the withdrawal from the anchor and moves the
// withdrawal along based on the anchor's answer: to successful with the
// payment instructions, into a KYC flow, or denied.
func (a *Agent) RequestWithdraw() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.withdrawServer == nil {
		return fmt.Errorf("no withdraw server configured")
	}
	details, token, err := a.inFlight()
	if err != nil {
		return err
	}

	resp, err := a.withdrawServer.Withdraw(a.withdrawRequest(details, token))
	if err != nil {
		return err
	}

	return a.applyWithdrawResponse(resp)
}

// WatchKYC polls the anchor's withdraw endpoint while the withdrawal's KYC is
// in review, moving the withdrawal along when the anchor's answer changes.
// The watch stops when the withdrawal leaves review or the agent restarts.
func (a *Agent) WatchKYC() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.withdrawServer == nil {
		return fmt.Errorf("no withdraw server configured")
	}
	if a.watchCancel != nil {
		return fmt.Errorf("already watching")
	}
	pending, ok := a.state.(withdraw.PendingKYC)
	if !ok {
		return fmt.Errorf("no kyc review to watch")
	}

	watcher := &transfer.Watcher{
		Requester: a.withdrawServer,
		Interval:  a.pollInterval,
		ErrorHandler: func(err error) {
			fmt.Fprintf(a.logWriter, "error watching kyc: %v\n", err)
			if a.events != nil {
				a.events <- ErrorEvent{Err: err}
			}
		},
	}
	responses, cancel := watcher.Watch(a.withdrawRequest(pending.Details, ""))
	a.watchCancel = cancel
	go func() {
		for resp := range responses {
			a.handleWatched(resp)
		}
	}()
	fmt.Fprintf(a.logWriter, "watching kyc for attempt %s\n", a.attemptID)
	return nil
}

// SubmitPayment pays the accepted withdrawal to the anchor's account on the
// network, with the memo from the anchor's instructions, and concludes the
// withdrawal. The amount is checked against the account's balance first.
func (a *Agent) SubmitPayment(paymentAmount string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	successful, ok := a.state.(withdraw.SuccessfulKYC)
	if !ok {
		return fmt.Errorf("no withdraw instructions to pay")
	}

	amountValue, err := amount.ParseInt64(paymentAmount)
	if err != nil {
		return fmt.Errorf("parsing amount %s: %w", paymentAmount, err)
	}

	balance, err := a.balanceCollector.GetBalance(a.accountKey, successful.Details.Asset)
	if err != nil {
		return fmt.Errorf("getting account balance: %w", err)
	}
	if balance < amountValue {
		return fmt.Errorf("account balance %s is not enough to pay %s", amount.StringFromInt64(balance), amount.StringFromInt64(amountValue))
	}

	seqNum, err := a.sequenceNumberCollector.GetSequenceNumber(a.accountKey)
	if err != nil {
		return fmt.Errorf("getting sequence number of account: %w", err)
	}

	tx, err := txbuild.WithdrawPayment(txbuild.WithdrawPaymentParams{
		Source:         a.accountKey,
		SequenceNumber: seqNum + 1,
		AnchorAccount:  successful.Result.AccountID,
		Asset:          successful.Details.Asset.Asset(),
		Amount:         amount.StringFromInt64(amountValue),
		MemoType:       successful.Result.MemoType,
		Memo:           successful.Result.Memo,
	})
	if err != nil {
		return fmt.Errorf("building withdraw payment tx: %w", err)
	}
	tx, err = tx.Sign(a.networkPassphrase, a.accountSigner)
	if err != nil {
		return fmt.Errorf("signing withdraw payment tx: %w", err)
	}
	hash, err := tx.HashHex(a.networkPassphrase)
	if err != nil {
		return fmt.Errorf("hashing withdraw payment tx: %w", err)
	}

	fmt.Fprintln(a.logWriter, "submitting withdraw payment:", hash)
	err = a.submitter.SubmitTx(tx)
	if err != nil {
		return fmt.Errorf("submitting withdraw payment tx %s: %w", hash, err)
	}
	fmt.Fprintln(a.logWriter, "submitted withdraw payment:", hash)

	defer a.snapshot()

	state, err := withdraw.Apply(a.state, withdraw.SubmittedTx{})
	if err != nil {
		return fmt.Errorf("concluding withdrawal: %w", err)
	}
	a.state = state

	if a.events != nil {
		a.events <- SubmittedEvent{TransactionHash: hash}
	}
	return nil
}

// Transaction looks up the anchor's transaction record for the accepted
// withdrawal, using the id the anchor assigned it in the withdraw
// instructions.
func (a *Agent) Transaction() (transfer.Transaction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.withdrawServer == nil {
		return transfer.Transaction{}, fmt.Errorf("no withdraw server configured")
	}
	successful, ok := a.state.(withdraw.SuccessfulKYC)
	if !ok {
		return transfer.Transaction{}, fmt.Errorf("no accepted withdrawal to look up")
	}
	if successful.Result.ID == "" {
		return transfer.Transaction{}, fmt.Errorf("anchor did not assign the withdrawal an id")
	}

	txn, err := a.withdrawServer.Transaction(string(successful.Token), transfer.TransactionRequest{ID: successful.Result.ID})
	if err != nil {
		return transfer.Transaction{}, fmt.Errorf("getting transaction %s: %w", successful.Result.ID, err)
	}
	return txn, nil
}

// Restart returns the agent to the start of the withdrawal lifecycle,
// stopping any KYC watch. Details of a withdrawal that was in flight are kept
// to repopulate the form.
func (a *Agent) Restart() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	defer a.snapshot()

	a.stopWatch()
	state, err := withdraw.Apply(a.state, withdraw.BackToStart{})
	if err != nil {
		return fmt.Errorf("restarting: %w", err)
	}
	a.state = state
	a.attemptID = ""
	fmt.Fprintf(a.logWriter, "restarted\n")

	if a.events != nil {
		a.events <- RestartedEvent{}
	}
	return nil
}

// inFlight is the details and auth token of the withdrawal in flight, for
// states a withdraw request can be made from.
func (a *Agent) inFlight() (*withdraw.Details, webauth.Token, error) {
	switch s := a.state.(type) {
	case withdraw.BeforeWebAuth:
		return nil, "", fmt.Errorf("withdrawal not authenticated yet")
	case withdraw.AfterWebAuth:
		return s.Details, s.Token, nil
	case withdraw.BeforeInteractiveKYC:
		return s.Details, "", nil
	case withdraw.PendingKYC:
		return s.Details, "", nil
	case withdraw.SuccessfulKYC:
		return s.Details, s.Token, nil
	}
	return nil, "", fmt.Errorf("no withdrawal in flight")
}

func (a *Agent) withdrawRequest(details *withdraw.Details, token webauth.Token) transfer.WithdrawRequest {
	return transfer.WithdrawRequest{
		AuthToken: string(token),
		AssetCode: details.Asset.Code(),
		Type:      details.Type,
		Account:   a.accountKey.Address(),
		Fields:    details.Fields,
	}
}

// handleWatched applies a withdraw response from the KYC watch. Responses
// that arrive after the watch ended or after the withdrawal left review are
// stale and dropped.
func (a *Agent) handleWatched(resp transfer.WithdrawResponse) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.watchCancel == nil {
		return
	}
	if _, ok := a.state.(withdraw.PendingKYC); !ok {
		return
	}

	err := a.applyWithdrawResponse(resp)
	if err != nil {
		fmt.Fprintf(a.logWriter, "error handling watched withdraw response: %v\n", err)
		if a.events != nil {
			a.events <- ErrorEvent{Err: err}
		}
	}
}

func (a *Agent) applyWithdrawResponse(resp transfer.WithdrawResponse) error {
	defer a.snapshot()

	switch resp.Type {
	case transfer.WithdrawResponseTypeSuccess:
		state, err := withdraw.Apply(a.state, withdraw.KYCSuccessful{Result: resp.Success})
		if err != nil {
			return fmt.Errorf("recording withdraw success: %w", err)
		}
		a.state = state
		a.stopWatch()
		fmt.Fprintf(a.logWriter, "withdraw accepted, pay to anchor account %s\n", resp.Success.AccountID)
		if a.events != nil {
			a.events <- KYCSucceededEvent{Result: resp.Success}
		}
	case transfer.WithdrawResponseTypeInteractiveKYC:
		state, err := withdraw.Apply(a.state, withdraw.StartInteractiveKYC{KYC: resp.InteractiveKYC})
		if err != nil {
			return fmt.Errorf("recording interactive kyc: %w", err)
		}
		a.state = state
		a.stopWatch()
		fmt.Fprintf(a.logWriter, "interactive kyc required: %s\n", resp.InteractiveKYC.URL)
		if a.events != nil {
			a.events <- InteractiveKYCRequiredEvent{URL: resp.InteractiveKYC.URL, ID: resp.InteractiveKYC.ID}
		}
	case transfer.WithdrawResponseTypeNonInteractiveKYC:
		// The withdrawal stays where it is: the form is re-collected and
		// re-saved with the additional fields.
		a.stopWatch()
		fmt.Fprintf(a.logWriter, "more fields needed: %v\n", resp.NonInteractiveKYC.Fields)
		if a.events != nil {
			a.events <- AdditionalFieldsNeededEvent{Fields: resp.NonInteractiveKYC.Fields}
		}
	case transfer.WithdrawResponseTypeKYCStatus:
		return a.applyKYCStatus(resp.KYCStatus)
	default:
		return fmt.Errorf("unrecognized withdraw response type %d", resp.Type)
	}
	return nil
}

func (a *Agent) applyKYCStatus(status *transfer.KYCStatus) error {
	switch status.Status {
	case transfer.KYCStatusPending:
		state, err := withdraw.Apply(a.state, withdraw.KYCPending{Status: status})
		if err != nil {
			return fmt.Errorf("recording pending kyc: %w", err)
		}
		a.state = state
		fmt.Fprintf(a.logWriter, "kyc pending\n")
		if a.events != nil {
			a.events <- KYCPendingEvent{Status: status}
		}
	case transfer.KYCStatusDenied:
		state, err := withdraw.Apply(a.state, withdraw.KYCDenied{Status: status})
		if err != nil {
			return fmt.Errorf("recording denied kyc: %w", err)
		}
		a.state = state
		a.stopWatch()
		fmt.Fprintf(a.logWriter, "kyc denied\n")
		if a.events != nil {
			a.events <- KYCDeniedEvent{Status: status}
		}
	case transfer.KYCStatusSuccess:
		// Approved, but the withdraw instructions come from re-requesting
		// the withdrawal. Stay in review until they arrive.
		state, err := withdraw.Apply(a.state, withdraw.KYCPending{Status: status})
		if err != nil {
			return fmt.Errorf("recording approved kyc: %w", err)
		}
		a.state = state
		fmt.Fprintf(a.logWriter, "kyc approved, awaiting withdraw instructions\n")
		if a.events != nil {
			a.events <- KYCPendingEvent{Status: status}
		}
	default:
		return fmt.Errorf("unrecognized kyc status %q", status.Status)
	}
	return nil
}

func (a *Agent) stopWatch() {
	if a.watchCancel == nil {
		return
	}
	a.watchCancel()
	a.watchCancel = nil
}
