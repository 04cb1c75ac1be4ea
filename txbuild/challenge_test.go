package txbuild

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallenge(t *testing.T) {
	server := keypair.MustRandom()
	client := keypair.MustRandom()
	nonce := make([]byte, 48)
	for i := range nonce {
		nonce[i] = byte(i)
	}

	tx, err := Challenge(ChallengeParams{
		ServerSigner:      server,
		ClientAccountID:   client.FromAddress(),
		HomeDomain:        "example.com",
		WebAuthDomain:     "auth.example.com",
		NetworkPassphrase: "test",
		Timeout:           5 * time.Minute,
		Nonce:             nonce,
	})
	require.NoError(t, err)

	// The challenge is built on the server's account with sequence number
	// zero so it can never be submitted to the network.
	assert.Equal(t, server.Address(), tx.SourceAccount().AccountID)
	assert.Equal(t, int64(0), tx.SourceAccount().Sequence)

	// The challenge expires.
	tb := tx.Timebounds()
	assert.Equal(t, int64(5*60), tb.MaxTime-tb.MinTime)

	// The first operation carries the nonce on the client's account.
	require.Len(t, tx.Operations(), 2)
	md, ok := tx.Operations()[0].(*txnbuild.ManageData)
	require.True(t, ok)
	assert.Equal(t, client.Address(), md.SourceAccount)
	assert.Equal(t, "example.com auth", md.Name)
	assert.Equal(t, base64.StdEncoding.EncodeToString(nonce), string(md.Value))
	assert.Len(t, md.Value, 64)

	// The second operation names the web auth domain on the server's account.
	md, ok = tx.Operations()[1].(*txnbuild.ManageData)
	require.True(t, ok)
	assert.Equal(t, server.Address(), md.SourceAccount)
	assert.Equal(t, "web_auth_domain", md.Name)
	assert.Equal(t, "auth.example.com", string(md.Value))

	// The server has signed the challenge.
	hash, err := tx.Hash("test")
	require.NoError(t, err)
	require.Len(t, tx.Signatures(), 1)
	assert.NoError(t, server.FromAddress().Verify(hash[:], tx.Signatures()[0].Signature))
}

func TestChallenge_generatesNonce(t *testing.T) {
	server := keypair.MustRandom()
	client := keypair.MustRandom()

	build := func() string {
		tx, err := Challenge(ChallengeParams{
			ServerSigner:      server,
			ClientAccountID:   client.FromAddress(),
			HomeDomain:        "example.com",
			NetworkPassphrase: "test",
		})
		require.NoError(t, err)
		require.NotEmpty(t, tx.Operations())
		md, ok := tx.Operations()[0].(*txnbuild.ManageData)
		require.True(t, ok)
		return string(md.Value)
	}

	nonce1 := build()
	nonce2 := build()
	assert.Len(t, nonce1, 64)
	assert.Len(t, nonce2, 64)
	assert.NotEqual(t, nonce1, nonce2)
}

func TestChallenge_webAuthDomainOptional(t *testing.T) {
	server := keypair.MustRandom()
	client := keypair.MustRandom()

	tx, err := Challenge(ChallengeParams{
		ServerSigner:      server,
		ClientAccountID:   client.FromAddress(),
		HomeDomain:        "example.com",
		NetworkPassphrase: "test",
	})
	require.NoError(t, err)
	assert.Len(t, tx.Operations(), 1)
}
