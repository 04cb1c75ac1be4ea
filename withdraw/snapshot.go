package withdraw

import (
	"fmt"
	"net/http"

	"github.com/stellar/transfer-sdk/transfer"
	"github.com/stellar/transfer-sdk/webauth"
)

// Snapshot is a static copy of a state that can be serialized and restored
// later with StateFromSnapshot. Step identifies the state; the other fields
// hold what that state carries and are zero otherwise. The transfer server
// is recorded by URL, not as a live client.
type Snapshot struct {
	Step Step

	Details   *DetailsSnapshot
	Challenge *webauth.Challenge
	Token     webauth.Token
	KYC       *transfer.InteractiveKYCNeeded
	Status    *transfer.KYCStatus
	Result    *transfer.WithdrawSuccess
}

// DetailsSnapshot is the serializable form of Details.
type DetailsSnapshot struct {
	Asset     transfer.Asset
	Type      string
	Fields    map[string]string
	ServerURL string
}

// SnapshotState returns a static copy of the state. A nil state snapshots
// as an empty initial state.
func SnapshotState(state State) Snapshot {
	if state == nil {
		state = Initial{}
	}
	snapshot := Snapshot{
		Step:    state.Step(),
		Details: snapshotDetails(detailsOf(state)),
	}
	switch s := state.(type) {
	case BeforeWebAuth:
		snapshot.Challenge = s.Challenge
	case AfterWebAuth:
		snapshot.Token = s.Token
	case BeforeInteractiveKYC:
		snapshot.KYC = s.KYC
	case PendingKYC:
		snapshot.Status = s.Status
	case DeniedKYC:
		snapshot.Status = s.Status
	case SuccessfulKYC:
		snapshot.Token = s.Token
		snapshot.Result = s.Result
	}
	return snapshot
}

// StateFromSnapshot restores the state a snapshot was taken of. Snapshots
// record the transfer server by URL, so the HTTP client to use against it
// is the caller's to provide; nil means http.DefaultClient.
func StateFromSnapshot(snapshot Snapshot, httpClient *http.Client) (State, error) {
	details := restoreDetails(snapshot.Details, httpClient)
	switch snapshot.Step {
	case StepInitial:
		return Initial{Details: details}, nil
	case StepBeforeWebAuth:
		if details == nil {
			return nil, errSnapshotMissingDetails(snapshot.Step)
		}
		return BeforeWebAuth{Details: details, Challenge: snapshot.Challenge}, nil
	case StepAfterWebAuth:
		if details == nil {
			return nil, errSnapshotMissingDetails(snapshot.Step)
		}
		return AfterWebAuth{Details: details, Token: snapshot.Token}, nil
	case StepBeforeInteractiveKYC:
		if details == nil {
			return nil, errSnapshotMissingDetails(snapshot.Step)
		}
		return BeforeInteractiveKYC{Details: details, KYC: snapshot.KYC}, nil
	case StepPendingKYC:
		if details == nil {
			return nil, errSnapshotMissingDetails(snapshot.Step)
		}
		return PendingKYC{Details: details, Status: snapshot.Status}, nil
	case StepDeniedKYC:
		if details == nil {
			return nil, errSnapshotMissingDetails(snapshot.Step)
		}
		return DeniedKYC{Details: details, Status: snapshot.Status}, nil
	case StepSuccessfulKYC:
		if details == nil {
			return nil, errSnapshotMissingDetails(snapshot.Step)
		}
		return SuccessfulKYC{Details: details, Token: snapshot.Token, Result: snapshot.Result}, nil
	case StepSubmitted:
		return Submitted{}, nil
	}
	return nil, fmt.Errorf("unrecognized step %q in snapshot", snapshot.Step)
}

func snapshotDetails(details *Details) *DetailsSnapshot {
	if details == nil {
		return nil
	}
	serverURL := ""
	if details.Server != nil {
		serverURL = details.Server.TransferServerURL
	}
	return &DetailsSnapshot{
		Asset:     details.Asset,
		Type:      details.Type,
		Fields:    details.Fields,
		ServerURL: serverURL,
	}
}

func restoreDetails(snapshot *DetailsSnapshot, httpClient *http.Client) *Details {
	if snapshot == nil {
		return nil
	}
	return &Details{
		Asset:  snapshot.Asset,
		Type:   snapshot.Type,
		Fields: snapshot.Fields,
		Server: &transfer.Client{
			TransferServerURL: snapshot.ServerURL,
			HTTP:              httpClient,
		},
	}
}

func errSnapshotMissingDetails(step Step) error {
	return fmt.Errorf("snapshot at step %q has no details", step)
}
