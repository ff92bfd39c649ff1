// Package common contains common constants and variables used across services
package common

import "github.com/gagliardetto/solana-go"

var (
	TokenProgramID = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022ID    = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

	// Raydium AMM v4 and stable swap
	RaydiumAmmProgramID    = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	RaydiumStableProgramID = solana.MustPublicKeyFromBase58("5quBtoiQqxF9Jv6KYKctB59NT3gtJD2Y65kdnB1Uev3h")

	WSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	RAYMint  = solana.MustPublicKeyFromBase58("4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R")
)

const (
	SOLDecimals = 9

	// SOLUrlMint is the pseudo mint used by clients for native SOL.
	SOLUrlMint = "sol"

	DefaultSlippageBps = 50
	MaxSlippageBps     = 10000

	// DefaultMaxSwapSlippageBps caps the slippage a swap signed by the
	// service wallet may carry.
	DefaultMaxSwapSlippageBps = 300
)

// DefaultBridgeMints are the intermediate assets a two-hop route may pass through.
var DefaultBridgeMints = [2]solana.PublicKey{RAYMint, WSOLMint}
