package domain

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/swap-engine/internal/common"
)

type AssetKind uint8

const (
	AssetKindSpl AssetKind = iota
	AssetKindNativeAlias
)

func (k AssetKind) String() string {
	switch k {
	case AssetKindSpl:
		return "spl"
	case AssetKindNativeAlias:
		return "native-alias"
	default:
		return "UNKNOWN"
	}
}

// CollapseTarget is the concrete on-chain form a native alias takes when a
// transaction is built.
type CollapseTarget uint8

const (
	CollapseNative CollapseTarget = iota
	CollapseWrapped
)

func (c CollapseTarget) String() string {
	if c == CollapseWrapped {
		return "wsol"
	}
	return "sol"
}

type AssetDescriptor struct {
	Mint     solana.PublicKey `json:"mint"`
	Decimals uint8            `json:"decimals"`
	Symbol   string           `json:"symbol"`
	Name     string           `json:"name"`
}

// Asset is either a plain SPL token or the synthetic SOL alias that may present
// as wrapped SOL or native lamports.
type Asset struct {
	Kind       AssetKind       `json:"kind"`
	Descriptor AssetDescriptor `json:"descriptor"`
	Collapse   CollapseTarget  `json:"collapse,omitempty"`
}

func Spl(d AssetDescriptor) Asset {
	return Asset{Kind: AssetKindSpl, Descriptor: d}
}

func NativeAlias(d AssetDescriptor, target CollapseTarget) Asset {
	return Asset{Kind: AssetKindNativeAlias, Descriptor: d, Collapse: target}
}

// NativeSOL is the SOL alias collapsing to native lamports.
func NativeSOL() Asset {
	return NativeAlias(AssetDescriptor{
		Mint:     common.WSOLMint,
		Decimals: common.SOLDecimals,
		Symbol:   "SOL",
		Name:     "solana",
	}, CollapseNative)
}

// DataMint is the mint used to match pool legs.
func (a Asset) DataMint() solana.PublicKey {
	switch a.Kind {
	case AssetKindNativeAlias:
		return common.WSOLMint
	default:
		return a.Descriptor.Mint
	}
}

func (a Asset) Decimals() uint8 {
	if a.Kind == AssetKindNativeAlias {
		return common.SOLDecimals
	}
	return a.Descriptor.Decimals
}

// IsZero reports an unresolved asset.
func (a Asset) IsZero() bool {
	return a.DataMint().IsZero()
}

func (a Asset) IsNative() bool {
	return a.Kind == AssetKindNativeAlias && a.Collapse == CollapseNative
}

func (a Asset) SameMint(other Asset) bool {
	if a.IsZero() || other.IsZero() {
		return false
	}
	return a.DataMint().Equals(other.DataMint())
}

// ResolveAsset maps a client-supplied mint string onto an asset. The "sol"
// pseudo mint and the wrapped SOL mint both become the native alias.
func ResolveAsset(mint string, decimals uint8, collapse CollapseTarget) (Asset, error) {
	if mint == "" {
		return Asset{}, nil
	}
	if mint == common.SOLUrlMint {
		return NativeAlias(NativeSOL().Descriptor, CollapseNative), nil
	}
	pk, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return Asset{}, err
	}
	if pk.Equals(common.WSOLMint) {
		return NativeAlias(NativeSOL().Descriptor, collapse), nil
	}
	return Spl(AssetDescriptor{Mint: pk, Decimals: decimals}), nil
}
