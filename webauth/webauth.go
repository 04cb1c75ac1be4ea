// Package webauth authenticates with anchors that require proof of control
// of a Stellar account before they will serve withdrawals for it.
//
// Authentication is a challenge handshake. The anchor issues a challenge
// transaction that can never be executed on the network, the account holder
// signs it and posts it back, and the anchor exchanges it for a bearer token
// that authenticates later requests. The challenge and token are opaque to
// everything else in this module. The challenge is verified as really coming
// from the anchor before it is signed, so that a signature is never handed
// out over a transaction from anyone else.
package webauth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

// Challenge is an authentication challenge issued by an anchor, held between
// receiving it and signing it.
type Challenge struct {
	TransactionXDR    string
	NetworkPassphrase string
}

// Token is a bearer token an anchor issued for a signed challenge. The zero
// value means not authenticated.
type Token string

// Client authenticates with a single anchor's web auth endpoint.
//
// Client is safe to use from multiple goroutines.
type Client struct {
	// Endpoint is the URL of the anchor's web auth endpoint.
	Endpoint string

	// HTTP is the HTTP client requests are made with. If nil,
	// http.DefaultClient is used.
	HTTP *http.Client

	// ServerKey is the anchor's signing key. Challenges not signed with it
	// are rejected.
	ServerKey *keypair.FromAddress

	// NetworkPassphrase is the network passphrase challenges must be built
	// for.
	NetworkPassphrase string

	// HomeDomain is the home domain challenges must be issued for. If empty
	// the challenge's domain is not checked.
	HomeDomain string
}

// Challenge requests a challenge for the given account and verifies it was
// issued by the anchor before returning it: it must parse, be unexecutable
// (sequence number zero on the anchor's account), be within its validity
// window, place its nonce on the account authenticating, and carry the
// anchor's signature.
func (c *Client) Challenge(account *keypair.FromAddress) (Challenge, error) {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return Challenge{}, fmt.Errorf("parsing web auth endpoint: %w", err)
	}
	q := u.Query()
	q.Set("account", account.Address())
	if c.HomeDomain != "" {
		q.Set("home_domain", c.HomeDomain)
	}
	u.RawQuery = q.Encode()

	resp, err := c.httpClient().Get(u.String())
	if err != nil {
		return Challenge{}, fmt.Errorf("requesting challenge: %w", err)
	}
	defer resp.Body.Close()
	respBody := struct {
		Transaction       string `json:"transaction"`
		NetworkPassphrase string `json:"network_passphrase"`
		Error             string `json:"error"`
	}{}
	decodeErr := json.NewDecoder(resp.Body).Decode(&respBody)
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && respBody.Error != "" {
			return Challenge{}, fmt.Errorf("requesting challenge: anchor responded with status %d: %s", resp.StatusCode, respBody.Error)
		}
		return Challenge{}, fmt.Errorf("requesting challenge: anchor responded with status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return Challenge{}, fmt.Errorf("decoding challenge response: %w", decodeErr)
	}
	if respBody.NetworkPassphrase != "" && respBody.NetworkPassphrase != c.NetworkPassphrase {
		return Challenge{}, fmt.Errorf("challenge is for network %q, want %q", respBody.NetworkPassphrase, c.NetworkPassphrase)
	}

	err = c.verifyChallenge(respBody.Transaction, account)
	if err != nil {
		return Challenge{}, err
	}

	return Challenge{
		TransactionXDR:    respBody.Transaction,
		NetworkPassphrase: c.NetworkPassphrase,
	}, nil
}

// Token signs the challenge with the account's signers, posts it back to the
// anchor, and returns the bearer token the anchor issues for it.
func (c *Client) Token(challenge Challenge, signers ...*keypair.Full) (Token, error) {
	if len(signers) == 0 {
		return "", errors.New("no signers to sign the challenge with")
	}

	gtx, err := txnbuild.TransactionFromXDR(challenge.TransactionXDR)
	if err != nil {
		return "", fmt.Errorf("parsing challenge xdr: %w", err)
	}
	tx, ok := gtx.Transaction()
	if !ok {
		return "", errors.New("challenge is not a simple transaction")
	}
	tx, err = tx.Sign(challenge.NetworkPassphrase, signers...)
	if err != nil {
		return "", fmt.Errorf("signing challenge tx: %w", err)
	}

	// Confirm the signatures produced before handing them to the anchor.
	hash, err := tx.Hash(challenge.NetworkPassphrase)
	if err != nil {
		return "", fmt.Errorf("hashing challenge tx: %w", err)
	}
	sigs := tx.Signatures()
	inputs := make([]signatureVerificationInput, 0, len(signers))
	for i, signer := range signers {
		inputs = append(inputs, signatureVerificationInput{
			TransactionHash: hash,
			Signature:       sigs[len(sigs)-len(signers)+i].Signature,
			Signer:          signer.FromAddress(),
		})
	}
	err = verifySignatures(inputs)
	if err != nil {
		return "", fmt.Errorf("verifying challenge signatures: %w", err)
	}

	txeBase64, err := tx.Base64()
	if err != nil {
		return "", fmt.Errorf("encoding signed challenge as base64: %w", err)
	}
	reqBody, err := json.Marshal(struct {
		Transaction string `json:"transaction"`
	}{Transaction: txeBase64})
	if err != nil {
		return "", fmt.Errorf("encoding token request: %w", err)
	}

	resp, err := c.httpClient().Post(c.Endpoint, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()
	respBody := struct {
		Token string `json:"token"`
		Error string `json:"error"`
	}{}
	decodeErr := json.NewDecoder(resp.Body).Decode(&respBody)
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && respBody.Error != "" {
			return "", fmt.Errorf("anchor rejected the signed challenge: %s", respBody.Error)
		}
		return "", fmt.Errorf("requesting token: anchor responded with status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decoding token response: %w", decodeErr)
	}
	if respBody.Token == "" {
		return "", errors.New("anchor responded without a token")
	}
	return Token(respBody.Token), nil
}

func (c *Client) verifyChallenge(challengeXDR string, account *keypair.FromAddress) error {
	gtx, err := txnbuild.TransactionFromXDR(challengeXDR)
	if err != nil {
		return fmt.Errorf("parsing challenge xdr: %w", err)
	}
	tx, ok := gtx.Transaction()
	if !ok {
		return errors.New("challenge is not a simple transaction")
	}
	if tx.SourceAccount().AccountID != c.ServerKey.Address() {
		return errors.New("challenge source account is not the server")
	}
	if tx.SourceAccount().Sequence != 0 {
		return errors.New("challenge sequence number is not zero")
	}
	tb := tx.Timebounds()
	now := time.Now().UTC().Unix()
	if now < tb.MinTime || (tb.MaxTime != 0 && now > tb.MaxTime) {
		return errors.New("challenge is outside its validity window")
	}
	ops := tx.Operations()
	if len(ops) == 0 {
		return errors.New("challenge has no operations")
	}
	md, ok := ops[0].(*txnbuild.ManageData)
	if !ok {
		return errors.New("challenge first operation is not a manage data operation")
	}
	if md.SourceAccount != account.Address() {
		return errors.New("challenge first operation is not on the account authenticating")
	}
	if c.HomeDomain != "" && md.Name != c.HomeDomain+" auth" {
		return fmt.Errorf("challenge manage data operation has name %q, want %q", md.Name, c.HomeDomain+" auth")
	}
	for _, op := range ops[1:] {
		omd, ok := op.(*txnbuild.ManageData)
		if !ok || omd.SourceAccount != c.ServerKey.Address() {
			return errors.New("challenge has an operation not by the server")
		}
	}
	hash, err := tx.Hash(c.NetworkPassphrase)
	if err != nil {
		return fmt.Errorf("hashing challenge tx: %w", err)
	}
	err = verifySigned(hash, tx.Signatures(), c.ServerKey)
	if err != nil {
		return fmt.Errorf("verifying challenge signature: %w", err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}
