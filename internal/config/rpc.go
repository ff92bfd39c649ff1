package config

import (
	"errors"
	"os"
	"slices"
)

type RPCConfig struct {
	RPCUrl    string
	WSUrl     string
	RPCApiKey string
	// WalletKey is the base58 private key that pays for and signs swaps.
	WalletKey string
}

func (r *RPCConfig) Key() string {
	return RPC_CONFIG_KEY
}

func (r *RPCConfig) Load() error {
	r.RPCUrl = os.Getenv("RPC_URL")
	r.WSUrl = os.Getenv("WS_URL")
	r.RPCApiKey = os.Getenv("RPC_KEY")
	r.WalletKey = os.Getenv("SOLANA_PRIVATE_KEY_BASE58")
	return nil
}

func (r *RPCConfig) Validate() error {
	if slices.Contains([]string{r.WSUrl, r.RPCUrl, r.RPCApiKey}, "") {
		return errors.New("invalid rpc config")
	}
	return nil
}
