package transfer

import (
	"strings"

	"github.com/stellar/go/txnbuild"
)

// Asset is a Stellar asset in canonical code:issuer form, or "native" for the
// native asset. The zero value is the native asset.
//
// Assets key the entries of an anchor's info document and select the asset a
// withdrawal moves.
type Asset string

const NativeAsset = Asset("native")

// IsNative returns true if the asset is the native asset of the stellar
// network.
func (a Asset) IsNative() bool {
	return a.Asset().IsNative()
}

// Code returns the asset code.
func (a Asset) Code() string {
	return a.Asset().GetCode()
}

// Issuer returns the issuer of the asset.
func (a Asset) Issuer() string {
	return a.Asset().GetIssuer()
}

// Asset returns an asset from the stellar/go/txnbuild package with the
// same asset code and issuer, or a native asset if a native asset.
func (a Asset) Asset() txnbuild.Asset {
	parts := strings.SplitN(string(a), ":", 2)
	if len(parts) == 1 {
		return txnbuild.NativeAsset{}
	}
	return txnbuild.CreditAsset{
		Code:   parts[0],
		Issuer: parts[1],
	}
}

// StringCanonical returns a string friendly representation of the asset in
// canonical form.
func (a Asset) StringCanonical() string {
	if a.IsNative() {
		return string(NativeAsset)
	}
	return a.Code() + ":" + a.Issuer()
}
