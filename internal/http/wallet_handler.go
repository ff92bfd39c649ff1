package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/swap-engine/internal/aggregator"
	"github.com/hxuan190/swap-engine/internal/http/httputil"
)

type WalletHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewWalletHandler(aggregatorSvc *aggregator.Service) *WalletHandler {
	return &WalletHandler{aggregatorSvc: aggregatorSvc}
}

func (h *WalletHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/balance", h.getBalance)
}

func (h *WalletHandler) Root() string {
	return "/wallet"
}

// @Summary Wallet balance
// @Description Native SOL and token accounts of owner, or of the service wallet.
// @Tags wallet
// @Produce json
// @Param owner query string false "Owner address"
// @Success 200 {object} aggregator.WalletBalance
// @Failure 400 {object} httputil.Response
// @Failure 503 {object} httputil.Response
// @Router /api/v1/wallet/balance [get]
func (h *WalletHandler) getBalance(c *gin.Context) {
	b, err := h.aggregatorSvc.Balance(c.Request.Context(), c.Query("owner"))
	if err != nil {
		httputil.FromError(c, err)
		return
	}
	httputil.Success(c, b)
}
