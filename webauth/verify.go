package webauth

import (
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/xdr"
	"golang.org/x/sync/errgroup"
)

type signatureVerificationInput struct {
	TransactionHash [32]byte
	Signature       xdr.Signature
	Signer          *keypair.FromAddress
}

func verifySignatures(inputs []signatureVerificationInput) error {
	g := errgroup.Group{}
	for _, i := range inputs {
		i := i
		g.Go(func() error {
			return i.Signer.Verify(i.TransactionHash[:], []byte(i.Signature))
		})
	}
	return g.Wait()
}

// verifySigned confirms at least one of the signatures is the signer's
// signature of the hash.
func verifySigned(hash [32]byte, signatures []xdr.DecoratedSignature, signer *keypair.FromAddress) error {
	for _, sig := range signatures {
		err := signer.Verify(hash[:], sig.Signature)
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("not signed by %s", signer.Address())
}
