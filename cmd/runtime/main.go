package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"
	"github.com/thehyperflames/yellowstone"

	"github.com/hxuan190/swap-engine/internal/adapters/blockchain"
	"github.com/hxuan190/swap-engine/internal/aggregator"
	"github.com/hxuan190/swap-engine/internal/common"
	"github.com/hxuan190/swap-engine/internal/config"
	"github.com/hxuan190/swap-engine/internal/http"
)

// @title Swap Engine API
// @version 1.0
// @description Raydium AMM swap backend for Solana: candidate pool discovery,
// @description quotes and server-side swap execution with the service wallet.
// @description
// @description ## - Amounts
// @description - Request amounts are UI amounts of the input token ("1.5" SOL)
// @description - Response amounts come in both base units and UI form
// @description - "sol" is accepted as an alias for native SOL
// @description - Default slippage is 50 bps (0.5%)
// @description
// @description ## - Quote states
// @description - **not_ready**: input incomplete or a collaborator is missing
// @description - **no_route**: no candidate pool for the pair
// @description - **ready**: amounts and route are set
// @BasePath /
// @schemes https http
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @tag.name quote
// @tag.description Quotes through direct or single-bridge Raydium routes
// @tag.name swap
// @tag.description Sign and submit the setup and trade transactions
// @tag.name pools
// @tag.description Pool list and candidate discovery
// @tag.name wallet
// @tag.description Service wallet holdings
// @tag.name admin
// @tag.description Operator endpoints

func main() {
	// load env
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Error().Err(err).Msg("failed to load env")
		return
	}

	general := &config.GeneralConfig{}
	if err := general.Load(); err != nil {
		log.Error().Err(err).Msg("invalid general config")
		return
	}
	common.InitLogger(general.LogLevel, general.Env)

	// di container config
	conf := container.NewConf(
		general,
		&config.RPCConfig{},
		&yellowstone.Config{},
		&config.SwapConfig{},
		&config.PersistenceConfig{},
	)

	dic, err := container.New(
		conf,

		&yellowstone.Service{},
		&blockchain.BlockhashCacheService{},
		&blockchain.Network{},
		&aggregator.Service{},

		&http.HTTPService{},
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	// Run blocks until SIGINT/SIGTERM
	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
