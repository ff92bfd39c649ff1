package wallet

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

const PrivateKeyEnv = "SOLANA_PRIVATE_KEY_BASE58"

var ErrKeyMissing = errors.New(PrivateKeyEnv + " not set")

// Keypair signs swap batches with a single local key.
type Keypair struct {
	key solana.PrivateKey
}

func NewKeypair(key solana.PrivateKey) *Keypair {
	return &Keypair{key: key}
}

func FromBase58(b58 string) (*Keypair, error) {
	if b58 == "" {
		return nil, ErrKeyMissing
	}
	key, err := solana.PrivateKeyFromBase58(b58)
	if err != nil {
		return nil, fmt.Errorf("parse wallet key: %w", err)
	}
	return NewKeypair(key), nil
}

func LoadFromEnv() (*Keypair, error) {
	_ = godotenv.Load() // best-effort
	return FromBase58(os.Getenv(PrivateKeyEnv))
}

func (k *Keypair) PublicKey() solana.PublicKey {
	return k.key.PublicKey()
}

// SignAllTransactions adds the wallet signature to every transaction in
// order. A transaction that does not list the wallet as a signer is refused
// and the whole batch fails.
func (k *Keypair) SignAllTransactions(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error) {
	pub := k.key.PublicKey()
	for i, tx := range txs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if tx == nil {
			return nil, fmt.Errorf("transaction %d is nil", i)
		}
		if !tx.IsSigner(pub) {
			return nil, fmt.Errorf("transaction %d does not require %s", i, pub)
		}
		if _, err := tx.PartialSign(func(pk solana.PublicKey) *solana.PrivateKey {
			if pk.Equals(pub) {
				return &k.key
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("sign transaction %d: %w", i, err)
		}
	}
	return txs, nil
}
