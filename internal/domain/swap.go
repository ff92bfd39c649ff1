package domain

import (
	"github.com/gagliardetto/solana-go"
)

type UnitLabel string

const (
	UnitSetup UnitLabel = "setup"
	UnitTrade UnitLabel = "trade"
)

// TransactionUnit is one unsigned transaction of a swap batch. A unit either
// carries instructions that still have to be compiled against a blockhash and
// fee payer, or a prebuilt transaction that may already be stamped.
type TransactionUnit struct {
	Label        UnitLabel
	Instructions []solana.Instruction
	Tx           *solana.Transaction
	Signers      []solana.PrivateKey
}

// HasCheckpoint reports whether a recent blockhash is already attached.
func (u *TransactionUnit) HasCheckpoint() bool {
	return u.Tx != nil && u.Tx.Message.RecentBlockhash != (solana.Hash{})
}

// ExecutionReport folds per-unit submission outcomes. A nil entry in
// SubmittedIDs marks a unit that produced no signature.
type ExecutionReport struct {
	AllSucceeded bool      `json:"allSucceeded"`
	SubmittedIDs []*string `json:"submittedIds"`
	Errors       []string  `json:"errors,omitempty"`
}

func FailedReport() ExecutionReport {
	return ExecutionReport{AllSucceeded: false, SubmittedIDs: []*string{}}
}

type SwapRequest struct {
	Owner       solana.PublicKey
	Input       Asset
	Output      Asset
	Amount      string
	Slippage    string
	SlippageBps uint16
}

type SwapResponse struct {
	Quote  *QuoteResult    `json:"quote"`
	Report ExecutionReport `json:"report"`
}
