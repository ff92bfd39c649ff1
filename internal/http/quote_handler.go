package http

import (
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/swap-engine/internal/aggregator"
	"github.com/hxuan190/swap-engine/internal/http/httputil"
)

type QuoteHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewQuoteHandler(aggregatorSvc *aggregator.Service) *QuoteHandler {
	return &QuoteHandler{aggregatorSvc: aggregatorSvc}
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

// QuoteRequest holds the quote query parameters.
type QuoteRequest struct {
	// Input token mint, or "sol" for native SOL
	InputMint string `form:"inputMint" example:"sol"`

	// Output token mint, or "sol" for native SOL
	OutputMint string `form:"outputMint" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`

	// Amount in UI units of the input token, e.g. "1.5" SOL
	Amount string `form:"amount" example:"1.5"`

	// Slippage tolerance as a fraction ("0.005"), or a percentage ("0.5")
	// when slippageIsPercent is set. Defaults to the configured tolerance.
	Slippage          string `form:"slippage" example:"0.5"`
	SlippageIsPercent bool   `form:"slippageIsPercent" example:"true"`
}

func (r QuoteRequest) toAggregator() aggregator.QuoteRequest {
	return aggregator.QuoteRequest{
		InputMint:         r.InputMint,
		OutputMint:        r.OutputMint,
		Amount:            r.Amount,
		Slippage:          r.Slippage,
		SlippageIsPercent: r.SlippageIsPercent,
	}
}

// @Summary Get swap quote
// @Description Runs one calculation cycle for the pair. Incomplete input is not
// @Description an error: the response state is not_ready with a reason. A pair
// @Description without candidate pools yields state no_route.
// @Tags quote
// @Produce json
// @Param inputMint query string true "Input mint or sol"
// @Param outputMint query string true "Output mint or sol"
// @Param amount query string true "UI amount of the input token"
// @Param slippage query string false "Slippage tolerance"
// @Param slippageIsPercent query bool false "Read slippage as a percentage"
// @Success 200 {object} QuoteResponse
// @Failure 422 {object} httputil.Response "Amount out of range"
// @Failure 503 {object} httputil.Response "Pricing engine unavailable"
// @Router /api/v1/quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	q, err := h.aggregatorSvc.Quote(c.Request.Context(), req.toAggregator())
	if err != nil {
		httputil.FromError(c, err)
		return
	}
	httputil.Success(c, toQuoteResponse(q))
}
