package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/swap-engine/internal/aggregator"
	"github.com/hxuan190/swap-engine/internal/http/httputil"
)

type SwapHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewSwapHandler(aggregatorSvc *aggregator.Service) *SwapHandler {
	return &SwapHandler{aggregatorSvc: aggregatorSvc}
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	private.POST("", h.swap)
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

type SwapHandlerRequest struct {
	InputMint  string `json:"inputMint" binding:"required" example:"sol"`
	OutputMint string `json:"outputMint" binding:"required" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	// Amount in UI units of the input token
	Amount            string `json:"amount" binding:"required" example:"1.5"`
	Slippage          string `json:"slippage" example:"0.5"`
	SlippageIsPercent bool   `json:"slippageIsPercent" example:"true"`

	// Owner must be the service wallet; empty means the service wallet.
	Owner string `json:"owner" example:"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"`
}

// @Summary Execute a swap
// @Description Quotes the pair, builds the setup and trade transactions, signs
// @Description them with the service wallet and submits them concurrently.
// @Description
// @Description The report lists one id per transaction in order; a failed
// @Description submission leaves a null entry and the batch still returns 200
// @Description with allSucceeded=false.
// @Description
// @Description **Errors:**
// @Description - 400: invalid input, a quote that is not ready, or slippage above the service cap
// @Description - 401: missing or invalid api key
// @Description - 422: wallet refused to sign, or amount out of range
// @Description - 503: wallet, network or pricing engine unavailable
// @Tags swap
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body SwapHandlerRequest true "Swap request"
// @Success 200 {object} SwapResponse
// @Failure 400 {object} httputil.Response
// @Failure 401 {object} httputil.Response
// @Failure 422 {object} httputil.Response
// @Failure 503 {object} httputil.Response
// @Router /api/v1/swap [post]
func (h *SwapHandler) swap(c *gin.Context) {
	var req SwapHandlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.aggregatorSvc.Swap(c.Request.Context(), aggregator.SwapRequest{
		QuoteRequest: aggregator.QuoteRequest{
			InputMint:         req.InputMint,
			OutputMint:        req.OutputMint,
			Amount:            req.Amount,
			Slippage:          req.Slippage,
			SlippageIsPercent: req.SlippageIsPercent,
		},
		Owner: req.Owner,
	})
	if err != nil {
		if resp != nil {
			httputil.ErrorWithData(c, err, toSwapResponse(resp))
			return
		}
		httputil.FromError(c, err)
		return
	}
	httputil.Success(c, toSwapResponse(resp))
}
