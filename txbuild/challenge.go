package txbuild

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

type ChallengeParams struct {
	ServerSigner      *keypair.Full
	ClientAccountID   *keypair.FromAddress
	HomeDomain        string
	WebAuthDomain     string
	NetworkPassphrase string
	Timeout           time.Duration
	Nonce             []byte
}

// Challenge builds and signs a web auth challenge transaction for the given
// client account: sequence number zero on the server's account, never
// submittable to the network, with a ManageData operation on the client
// account named "<home domain> auth" holding a base64-encoded nonce. The
// nonce is generated when not given. Timeout bounds the window the challenge
// is valid in, five minutes when not set.
func Challenge(p ChallengeParams) (*txnbuild.Transaction, error) {
	nonce := p.Nonce
	if nonce == nil {
		nonce = make([]byte, 48)
		_, err := rand.Read(nonce)
		if err != nil {
			return nil, err
		}
	}
	encodedNonce := make([]byte, base64.StdEncoding.EncodedLen(len(nonce)))
	base64.StdEncoding.Encode(encodedNonce, nonce)

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	ops := []txnbuild.Operation{
		&txnbuild.ManageData{
			SourceAccount: p.ClientAccountID.Address(),
			Name:          p.HomeDomain + " auth",
			Value:         encodedNonce,
		},
	}
	if p.WebAuthDomain != "" {
		ops = append(ops, &txnbuild.ManageData{
			SourceAccount: p.ServerSigner.Address(),
			Name:          "web_auth_domain",
			Value:         []byte(p.WebAuthDomain),
		})
	}

	tx, err := txnbuild.NewTransaction(
		txnbuild.TransactionParams{
			SourceAccount: &txnbuild.SimpleAccount{
				AccountID: p.ServerSigner.Address(),
				Sequence:  0,
			},
			BaseFee:    txnbuild.MinBaseFee,
			Timebounds: txnbuild.NewTimeout(int64(timeout.Seconds())),
			Operations: ops,
		},
	)
	if err != nil {
		return nil, err
	}
	tx, err = tx.Sign(p.NetworkPassphrase, p.ServerSigner)
	if err != nil {
		return nil, err
	}
	return tx, nil
}
