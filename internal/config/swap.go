package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andrew-solarstorm/go-packages/common"
	"github.com/gagliardetto/solana-go"

	internalcommon "github.com/hxuan190/swap-engine/internal/common"
)

const DefaultPoolListURL = "https://api.raydium.io/v2/sdk/liquidity/mainnet.json"

type SwapConfig struct {
	// PoolListURL serves the {official, unOfficial} liquidity JSON.
	PoolListURL string
	// PricingURL is the base URL of the pricing engine and trade builder.
	PricingURL string

	BridgeMints        []solana.PublicKey
	DefaultSlippageBps uint16
	// MaxSwapSlippageBps bounds the slippage of swaps signed by the service wallet.
	MaxSwapSlippageBps uint16
	RefreshInterval    time.Duration
	RequestTimeout     time.Duration
}

func (c *SwapConfig) Key() string {
	return SWAP_CONFIG_KEY
}

func (c *SwapConfig) Load() error {
	c.PoolListURL = common.GetEnvOrDefault("POOL_LIST_URL", DefaultPoolListURL)
	c.PricingURL = common.GetEnvOrDefault("PRICING_URL", "http://localhost:9090")
	c.DefaultSlippageBps = uint16(common.GetEnvOrDefaultInt("DEFAULT_SLIPPAGE_BPS", internalcommon.DefaultSlippageBps))
	c.MaxSwapSlippageBps = uint16(common.GetEnvOrDefaultInt("MAX_SWAP_SLIPPAGE_BPS", internalcommon.DefaultMaxSwapSlippageBps))
	c.RefreshInterval = time.Duration(common.GetEnvOrDefaultInt("POOL_REFRESH_INTERVAL_SEC", 300)) * time.Second
	c.RequestTimeout = time.Duration(common.GetEnvOrDefaultInt("REQUEST_TIMEOUT_SEC", 15)) * time.Second

	c.BridgeMints = c.BridgeMints[:0]
	raw := common.GetEnvOrDefault("BRIDGE_MINTS", "")
	if raw == "" {
		c.BridgeMints = append(c.BridgeMints, internalcommon.DefaultBridgeMints[:]...)
		return c.Validate()
	}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		mint, err := solana.PublicKeyFromBase58(p)
		if err != nil {
			return fmt.Errorf("invalid bridge mint %q: %w", p, err)
		}
		c.BridgeMints = append(c.BridgeMints, mint)
	}
	return c.Validate()
}

func (c *SwapConfig) Validate() error {
	if c.PoolListURL == "" || c.PricingURL == "" {
		return errors.New("invalid swap config")
	}
	if len(c.BridgeMints) != 2 {
		return fmt.Errorf("expected 2 bridge mints, got %d", len(c.BridgeMints))
	}
	if c.DefaultSlippageBps > internalcommon.MaxSlippageBps {
		return errors.New("default slippage above 100%")
	}
	if c.MaxSwapSlippageBps == 0 || c.MaxSwapSlippageBps > internalcommon.MaxSlippageBps {
		return errors.New("max swap slippage must be within (0, 100%]")
	}
	if c.RefreshInterval <= 0 {
		return errors.New("pool refresh interval must be positive")
	}
	return nil
}
