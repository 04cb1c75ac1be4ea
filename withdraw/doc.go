/*
Package withdraw contains a state machine for driving a single withdrawal
attempt against an anchor's transfer server.

The state machine is the pure function Apply over a closed set of states and
a closed set of actions. The caller owns all I/O: it talks to the anchor,
authenticates, and polls, and feeds each outcome into Apply as an action.
Apply returns the next state and retains nothing between calls, so one state
value is threaded through the whole flow under the caller's control, and all
persistence is the caller's responsibility.

A withdrawal attempt moves through the following steps:

	initial
	   |
	   | save-init-form
	   |
	before-webauth . . . . skipped when the anchor
	   |                   requires no authentication
	   | set-auth-token    |
	   |                   |
	after-webauth  <-------+
	   |
	   | start-interactive-kyc / kyc-pending,
	   | as the anchor demands
	   |
	before-interactive-kyc / pending-kyc
	   |
	   | kyc-successful        kyc-denied
	   |                          |
	after-successful-kyc    after-denied-kyc (terminal)
	   |
	   | after-tx-submission
	   |
	after-tx-submission (terminal)

back-to-start returns to initial from any step, preserving the details of
the abandoned attempt so a form can be repopulated. Actions that depend on a
withdrawal being in flight are illegal from initial and from
after-tx-submission, and Apply fails loudly rather than fabricating a
withdrawal record.

Apply is pure and safe to call concurrently on distinct state values. A
shared state value is not synchronized by this package and synchronization
must be provided by the caller if one attempt is driven from multiple
goroutines.
*/
package withdraw
