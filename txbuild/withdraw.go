package txbuild

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/txnbuild"
)

type WithdrawPaymentParams struct {
	Source         *keypair.FromAddress
	SequenceNumber int64
	AnchorAccount  string
	Asset          txnbuild.Asset
	Amount         string
	MemoType       string
	Memo           string
}

// WithdrawPayment builds the payment that delivers a withdrawal's asset to
// the anchor's account, carrying the memo the anchor assigned so the anchor
// can match the payment to the withdrawal. The transaction is built fee-less
// and submission wraps it in a fee bump transaction that pays the fee.
func WithdrawPayment(p WithdrawPaymentParams) (*txnbuild.Transaction, error) {
	memo, err := withdrawMemo(p.MemoType, p.Memo)
	if err != nil {
		return nil, err
	}
	tx, err := txnbuild.NewTransaction(
		txnbuild.TransactionParams{
			SourceAccount: &txnbuild.SimpleAccount{
				AccountID: p.Source.Address(),
				Sequence:  p.SequenceNumber,
			},
			BaseFee:    0,
			Timebounds: txnbuild.NewTimeout(300),
			Memo:       memo,
			Operations: []txnbuild.Operation{
				&txnbuild.Payment{
					Destination: p.AnchorAccount,
					Asset:       p.Asset,
					Amount:      p.Amount,
				},
			},
		},
	)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// withdrawMemo maps an anchor's memo and memo_type to the memo the payment
// must carry. Hash memos arrive base64 encoded.
func withdrawMemo(memoType, memo string) (txnbuild.Memo, error) {
	switch memoType {
	case "":
		if memo != "" {
			return nil, fmt.Errorf("memo %q given without a memo type", memo)
		}
		return nil, nil
	case "text":
		return txnbuild.MemoText(memo), nil
	case "id":
		id, err := strconv.ParseUint(memo, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing id memo %q: %w", memo, err)
		}
		return txnbuild.MemoID(id), nil
	case "hash":
		b, err := base64.StdEncoding.DecodeString(memo)
		if err != nil {
			return nil, fmt.Errorf("decoding hash memo %q: %w", memo, err)
		}
		if len(b) != 32 {
			return nil, fmt.Errorf("decoding hash memo %q: got %d bytes, want 32", memo, len(b))
		}
		h := txnbuild.MemoHash{}
		copy(h[:], b)
		return h, nil
	}
	return nil, fmt.Errorf("unrecognized memo type %q", memoType)
}
