package txbuild

import (
	"encoding/base64"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawPayment(t *testing.T) {
	source := keypair.MustRandom()
	anchor := keypair.MustRandom()

	tx, err := WithdrawPayment(WithdrawPaymentParams{
		Source:         source.FromAddress(),
		SequenceNumber: 101,
		AnchorAccount:  anchor.Address(),
		Asset:          txnbuild.CreditAsset{Code: "USD", Issuer: "GBTYEE5BTST64JCBUXVAEEPQJAY3TNV47A5JFUMQKNDWUJRRT6LUVEQH"},
		Amount:         "100.0000000",
		MemoType:       "text",
		Memo:           "payment 68",
	})
	require.NoError(t, err)

	assert.Equal(t, source.Address(), tx.SourceAccount().AccountID)
	assert.Equal(t, int64(101), tx.SourceAccount().Sequence)
	assert.Equal(t, txnbuild.MemoText("payment 68"), tx.Memo())

	// Fee-less, so that submission fee bumps it.
	assert.Equal(t, int64(0), tx.BaseFee())

	require.Len(t, tx.Operations(), 1)
	payment, ok := tx.Operations()[0].(*txnbuild.Payment)
	require.True(t, ok)
	assert.Equal(t, anchor.Address(), payment.Destination)
	assert.Equal(t, "100.0000000", payment.Amount)
	assert.Equal(t, txnbuild.CreditAsset{Code: "USD", Issuer: "GBTYEE5BTST64JCBUXVAEEPQJAY3TNV47A5JFUMQKNDWUJRRT6LUVEQH"}, payment.Asset)
}

func TestWithdrawPayment_memos(t *testing.T) {
	source := keypair.MustRandom()
	anchor := keypair.MustRandom()

	build := func(memoType, memo string) (*txnbuild.Transaction, error) {
		return WithdrawPayment(WithdrawPaymentParams{
			Source:         source.FromAddress(),
			SequenceNumber: 101,
			AnchorAccount:  anchor.Address(),
			Asset:          txnbuild.NativeAsset{},
			Amount:         "1",
			MemoType:       memoType,
			Memo:           memo,
		})
	}

	// No memo.
	{
		tx, err := build("", "")
		require.NoError(t, err)
		assert.Nil(t, tx.Memo())
	}

	// Id memos are decimal strings.
	{
		tx, err := build("id", "68")
		require.NoError(t, err)
		assert.Equal(t, txnbuild.MemoID(68), tx.Memo())
	}
	{
		_, err := build("id", "abc")
		assert.EqualError(t, err, `parsing id memo "abc": strconv.ParseUint: parsing "abc": invalid syntax`)
	}

	// Hash memos are base64 encoded 32 byte values.
	{
		hash := [32]byte{0x01, 0x02, 0x03}
		tx, err := build("hash", base64.StdEncoding.EncodeToString(hash[:]))
		require.NoError(t, err)
		assert.Equal(t, txnbuild.MemoHash(hash), tx.Memo())
	}
	{
		_, err := build("hash", base64.StdEncoding.EncodeToString([]byte{0x01, 0x02, 0x03}))
		assert.EqualError(t, err, `decoding hash memo "AQID": got 3 bytes, want 32`)
	}

	// A memo value requires a memo type.
	{
		_, err := build("", "68")
		assert.EqualError(t, err, `memo "68" given without a memo type`)
	}

	// Unknown memo types are rejected rather than guessed at.
	{
		_, err := build("return", "68")
		assert.EqualError(t, err, `unrecognized memo type "return"`)
	}
}
