package withdraw

import (
	"errors"
	"fmt"

	"github.com/stellar/transfer-sdk/webauth"
)

// ErrIllegalTransition is wrapped by errors from applying an action to a
// state the action is not legal from. It indicates a mis-sequenced caller,
// not a condition to recover from.
var ErrIllegalTransition = errors.New("illegal transition")

// ErrUnexpectedAction is wrapped by errors from applying an action outside
// the package's closed action set. It is unreachable for actions
// constructed from this package's types.
var ErrUnexpectedAction = errors.New("unexpected action")

// Apply computes the state after an action. It is pure: it performs no I/O,
// retains nothing between calls, and never modifies the given state. A nil
// state is treated as an empty initial state, so a zero value is usable.
//
// Apply is total over actions but partial over (state, action) pairs. An
// action applied to a state it is not legal from returns no new state and
// an error wrapping ErrIllegalTransition, rather than a coerced best-guess
// state.
func Apply(state State, action Action) (State, error) {
	if state == nil {
		state = Initial{}
	}
	switch a := action.(type) {
	case BackToStart:
		return Initial{Details: detailsOf(state)}, nil
	case SaveInitForm:
		details := &Details{
			Asset:  a.Asset,
			Type:   a.Type,
			Fields: a.Fields,
			Server: a.Server,
		}
		if a.Challenge != nil {
			return BeforeWebAuth{Details: details, Challenge: a.Challenge}, nil
		}
		return AfterWebAuth{Details: details}, nil
	case SetAuthToken:
		before, ok := state.(BeforeWebAuth)
		if !ok {
			return nil, errIllegal(a, state)
		}
		return AfterWebAuth{Details: before.Details, Token: a.Token}, nil
	case StartInteractiveKYC:
		details, ok := inFlightDetails(state)
		if !ok {
			return nil, errIllegal(a, state)
		}
		return BeforeInteractiveKYC{Details: details, KYC: a.KYC}, nil
	case KYCPending:
		details, ok := inFlightDetails(state)
		if !ok {
			return nil, errIllegal(a, state)
		}
		return PendingKYC{Details: details, Status: a.Status}, nil
	case KYCDenied:
		details, ok := inFlightDetails(state)
		if !ok {
			return nil, errIllegal(a, state)
		}
		return DeniedKYC{Details: details, Status: a.Status}, nil
	case KYCSuccessful:
		details, ok := inFlightDetails(state)
		if !ok {
			return nil, errIllegal(a, state)
		}
		return SuccessfulKYC{Details: details, Token: authTokenOf(state), Result: a.Result}, nil
	case SubmittedTx:
		return Submitted{}, nil
	}
	return nil, fmt.Errorf("applying %T: %w", action, ErrUnexpectedAction)
}

func errIllegal(action Action, state State) error {
	return fmt.Errorf("applying %s in step %q: %w", action.name(), state.Step(), ErrIllegalTransition)
}

// detailsOf returns the details a state carries, nil when it carries none.
func detailsOf(state State) *Details {
	switch s := state.(type) {
	case Initial:
		return s.Details
	case BeforeWebAuth:
		return s.Details
	case AfterWebAuth:
		return s.Details
	case BeforeInteractiveKYC:
		return s.Details
	case PendingKYC:
		return s.Details
	case DeniedKYC:
		return s.Details
	case SuccessfulKYC:
		return s.Details
	}
	return nil
}

// inFlightDetails returns the details of a state with a withdrawal in
// flight. An initial state has no withdrawal in flight even when it holds
// details preserved for form repopulation, and a submitted state carries
// nothing, so both refuse.
func inFlightDetails(state State) (*Details, bool) {
	if _, ok := state.(Initial); ok {
		return nil, false
	}
	details := detailsOf(state)
	if details == nil {
		return nil, false
	}
	return details, true
}

// authTokenOf returns the auth token a state carries, empty when it carries
// none. Only after-webauth and after-successful-kyc carry a token, so the
// token survives kyc-successful from either but not a detour through the
// KYC steps in between.
func authTokenOf(state State) webauth.Token {
	switch s := state.(type) {
	case AfterWebAuth:
		return s.Token
	case SuccessfulKYC:
		return s.Token
	}
	return ""
}
