package config

import (
	"os"
	"testing"
	"time"

	"github.com/hxuan190/swap-engine/internal/common"
)

func TestSwapConfigDefaults(t *testing.T) {
	for _, k := range []string{"BRIDGE_MINTS", "POOL_REFRESH_INTERVAL_SEC", "DEFAULT_SLIPPAGE_BPS", "MAX_SWAP_SLIPPAGE_BPS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	var c SwapConfig
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if len(c.BridgeMints) != 2 || !c.BridgeMints[0].Equals(common.RAYMint) || !c.BridgeMints[1].Equals(common.WSOLMint) {
		t.Errorf("bridges = %v", c.BridgeMints)
	}
	if c.RefreshInterval != 300*time.Second {
		t.Errorf("refresh interval = %s", c.RefreshInterval)
	}
	if c.DefaultSlippageBps != common.DefaultSlippageBps {
		t.Errorf("slippage = %d", c.DefaultSlippageBps)
	}
	if c.MaxSwapSlippageBps != common.DefaultMaxSwapSlippageBps {
		t.Errorf("max swap slippage = %d", c.MaxSwapSlippageBps)
	}
}

func TestSwapConfigMaxSwapSlippage(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		want    uint16
		wantErr bool
	}{
		{name: "custom cap", env: "100", want: 100},
		{name: "full range", env: "10000", want: 10000},
		{name: "zero", env: "0", wantErr: true},
		{name: "above 100%", env: "10001", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MAX_SWAP_SLIPPAGE_BPS", tt.env)
			var c SwapConfig
			err := c.Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if c.MaxSwapSlippageBps != tt.want {
				t.Errorf("max swap slippage = %d, want %d", c.MaxSwapSlippageBps, tt.want)
			}
		})
	}
}

func TestSwapConfigBridgeMints(t *testing.T) {
	t.Setenv("BRIDGE_MINTS", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v, So11111111111111111111111111111111111111112")
	var c SwapConfig
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if !c.BridgeMints[1].Equals(common.WSOLMint) {
		t.Errorf("bridges = %v", c.BridgeMints)
	}

	t.Setenv("BRIDGE_MINTS", "So11111111111111111111111111111111111111112")
	if err := c.Load(); err == nil {
		t.Error("a single bridge mint should be rejected")
	}

	t.Setenv("BRIDGE_MINTS", "not-a-key,So11111111111111111111111111111111111111112")
	if err := c.Load(); err == nil {
		t.Error("invalid key should be rejected")
	}
}
