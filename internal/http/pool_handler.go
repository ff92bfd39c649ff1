package http

import (
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/swap-engine/internal/aggregator"
	"github.com/hxuan190/swap-engine/internal/domain"
	"github.com/hxuan190/swap-engine/internal/http/httputil"
)

type PoolHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewPoolHandler(aggregatorSvc *aggregator.Service) *PoolHandler {
	return &PoolHandler{aggregatorSvc: aggregatorSvc}
}

func (h *PoolHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("/stats", h.getStats)
	pub.GET("/list", h.listPools)
	pub.GET("/candidates", h.getCandidates)
	pub.GET("/:address", h.getPool)
	admin.POST("/refresh", h.refresh)
}

func (h *PoolHandler) Root() string {
	return "/pools"
}

// @Summary Pool list status
// @Tags pools
// @Produce json
// @Success 200 {object} aggregator.Status
// @Router /api/v1/pools/stats [get]
func (h *PoolHandler) getStats(c *gin.Context) {
	httputil.Success(c, h.aggregatorSvc.Status())
}

type PoolInfo struct {
	ID        string `json:"id" example:"58oQChx4yWmvKdwLLZzBi4ChoCc2fqCUWBkwMihLYQo2"`
	BaseMint  string `json:"baseMint" example:"So11111111111111111111111111111111111111112"`
	QuoteMint string `json:"quoteMint" example:"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"`
	LpMint    string `json:"lpMint"`
	// Base and quote decimals as published by the pool list.
	BaseDecimals  uint8 `json:"baseDecimals" example:"9"`
	QuoteDecimals uint8 `json:"quoteDecimals" example:"6"`
}

func toPoolInfo(p domain.LiquidityPool) PoolInfo {
	return PoolInfo{
		ID:            p.ID.String(),
		BaseMint:      p.BaseMint.String(),
		QuoteMint:     p.QuoteMint.String(),
		LpMint:        p.LpMint.String(),
		BaseDecimals:  p.BaseDecimals,
		QuoteDecimals: p.QuoteDecimals,
	}
}

type PoolListResponse struct {
	Pools []PoolInfo `json:"pools"`
	Total int        `json:"total" example:"1247"`
	Page  int        `json:"page" example:"1"`
	// Number of pools per page (max 500)
	Limit int `json:"limit" example:"100"`
	Pages int `json:"pages" example:"13"`
}

// @Summary List known pools
// @Tags pools
// @Produce json
// @Param page query int false "Page, 1-indexed"
// @Param limit query int false "Page size, max 500"
// @Success 200 {object} PoolListResponse
// @Router /api/v1/pools/list [get]
func (h *PoolHandler) listPools(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}

	all := h.aggregatorSvc.Pools()
	total := len(all)

	pages := (total + limit - 1) / limit
	offset := (page - 1) * limit
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	pools := make([]PoolInfo, 0, end-offset)
	for _, p := range all[offset:end] {
		pools = append(pools, toPoolInfo(p))
	}

	httputil.Success(c, PoolListResponse{
		Pools: pools,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	})
}

// @Summary Get one pool
// @Tags pools
// @Produce json
// @Param address path string true "Pool id"
// @Success 200 {object} PoolInfo
// @Failure 400 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /api/v1/pools/{address} [get]
func (h *PoolHandler) getPool(c *gin.Context) {
	id, err := solana.PublicKeyFromBase58(c.Param("address"))
	if err != nil {
		httputil.BadRequest(c, "invalid pool address")
		return
	}
	for _, p := range h.aggregatorSvc.Pools() {
		if p.ID.Equals(id) {
			httputil.Success(c, toPoolInfo(p))
			return
		}
	}
	httputil.NotFound(c, "pool not found")
}

type PoolStateInfo struct {
	ID           string `json:"id"`
	Status       uint64 `json:"status"`
	BaseReserve  string `json:"baseReserve"`
	QuoteReserve string `json:"quoteReserve"`
	LpSupply     string `json:"lpSupply"`
}

type CandidatesResponse struct {
	Pools  []PoolInfo      `json:"pools"`
	States []PoolStateInfo `json:"states,omitempty"`
}

// @Summary Candidate pools for a pair
// @Description Pools whose legs are the pair or a bridge asset. withState=true
// @Description also returns their on-chain state.
// @Tags pools
// @Produce json
// @Param inputMint query string true "Input mint or sol"
// @Param outputMint query string true "Output mint or sol"
// @Param withState query bool false "Fetch on-chain state"
// @Success 200 {object} CandidatesResponse
// @Failure 400 {object} httputil.Response
// @Router /api/v1/pools/candidates [get]
func (h *PoolHandler) getCandidates(c *gin.Context) {
	inputMint, outputMint := c.Query("inputMint"), c.Query("outputMint")
	if inputMint == "" || outputMint == "" {
		httputil.BadRequest(c, "inputMint and outputMint are required")
		return
	}

	pools, err := h.aggregatorSvc.FindCandidates(inputMint, outputMint)
	if err != nil {
		httputil.FromError(c, err)
		return
	}

	resp := CandidatesResponse{Pools: make([]PoolInfo, 0, len(pools))}
	for _, p := range pools {
		resp.Pools = append(resp.Pools, toPoolInfo(p))
	}
	if withState, _ := strconv.ParseBool(c.Query("withState")); withState && len(pools) > 0 {
		for _, s := range h.aggregatorSvc.PoolStates(c.Request.Context(), pools) {
			resp.States = append(resp.States, PoolStateInfo{
				ID:           s.ID.String(),
				Status:       s.Status,
				BaseReserve:  bigString(s.BaseReserve),
				QuoteReserve: bigString(s.QuoteReserve),
				LpSupply:     bigString(s.LpSupply),
			})
		}
	}
	httputil.Success(c, resp)
}

type RefreshResponse struct {
	PoolCount int `json:"poolCount"`
}

// @Summary Reload the pool list
// @Description Fetches the pool list, persists it and drops cached pool state.
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} RefreshResponse
// @Failure 401 {object} httputil.Response
// @Failure 503 {object} httputil.Response
// @Router /api/v1/admin/pools/refresh [post]
func (h *PoolHandler) refresh(c *gin.Context) {
	n, err := h.aggregatorSvc.RefreshPools(c.Request.Context())
	if err != nil {
		httputil.FromError(c, err)
		return
	}
	httputil.Success(c, RefreshResponse{PoolCount: n})
}
