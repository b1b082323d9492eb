package api

import (
	"net/http"

	"quanturnic/internal/engine"
	"quanturnic/internal/events"
	"quanturnic/internal/rpc"

	"github.com/gin-gonic/gin"
)

// Each procedure answers with its bare result; procedures without a result
// answer 204. Only update_config and analyze_market read a body.

type configResponse struct {
	Strategy  string    `json:"strategy"`
	Threshold jsonFloat `json:"threshold"`
}

type tradeLogResponse struct {
	Timestamp uint64    `json:"timestamp"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason"`
	Price     jsonFloat `json:"price"`
}

type balanceChangeResponse struct {
	Balance jsonFloat `json:"balance"`
	Delta   jsonFloat `json:"delta"`
}

type updateConfigRequest struct {
	Strategy  *string    `json:"strategy" binding:"required"`
	Threshold *jsonFloat `json:"threshold" binding:"required"`
}

type analyzeMarketRequest struct {
	PriceHistory []jsonFloat `json:"price_history" binding:"required"`
}

func toConfigResponse(cfg engine.BotConfig) configResponse {
	return configResponse{Strategy: cfg.Strategy, Threshold: jsonFloat(cfg.Threshold)}
}

func toTradeLogResponse(e engine.TradeLog) tradeLogResponse {
	return tradeLogResponse{
		Timestamp: e.Timestamp,
		Action:    string(e.Action),
		Reason:    e.Reason,
		Price:     jsonFloat(e.Price),
	}
}

// wireMessage rewrites event payloads that carry reals into their JSON-safe
// form.
func wireMessage(msg events.Message) events.Message {
	switch p := msg.Payload.(type) {
	case engine.TradeLog:
		msg.Payload = toTradeLogResponse(p)
	case engine.BotConfig:
		msg.Payload = toConfigResponse(p)
	case events.BalanceChange:
		msg.Payload = balanceChangeResponse{Balance: jsonFloat(p.Balance), Delta: jsonFloat(p.Delta)}
	}
	return msg
}

func (s *Server) describe(c *gin.Context) {
	c.JSON(http.StatusOK, rpc.Describe())
}

func (s *Server) startBot(c *gin.Context) {
	s.Engine.StartBot(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (s *Server) stopBot(c *gin.Context) {
	s.Engine.StopBot(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (s *Server) isBotActive(c *gin.Context) {
	c.JSON(http.StatusOK, s.Engine.IsBotActive(c.Request.Context()))
}

func (s *Server) getTradeLogs(c *gin.Context) {
	logs := s.Engine.GetTradeLogs(c.Request.Context())
	out := make([]tradeLogResponse, len(logs))
	for i, e := range logs {
		out[i] = toTradeLogResponse(e)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getBotConfig(c *gin.Context) {
	c.JSON(http.StatusOK, toConfigResponse(s.Engine.GetBotConfig(c.Request.Context())))
}

func (s *Server) updateConfig(c *gin.Context) {
	var req updateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be {\"strategy\": string, \"threshold\": number}")
		return
	}
	s.Engine.UpdateConfig(c.Request.Context(), *req.Strategy, float64(*req.Threshold))
	c.Status(http.StatusNoContent)
}

func (s *Server) getBalance(c *gin.Context) {
	c.JSON(http.StatusOK, jsonFloat(s.Engine.GetBalance(c.Request.Context())))
}

func (s *Server) analyzeMarket(c *gin.Context) {
	var req analyzeMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be {\"price_history\": [number, ...]}")
		return
	}
	prices := make([]float64, len(req.PriceHistory))
	for i, p := range req.PriceHistory {
		prices[i] = float64(p)
	}
	c.JSON(http.StatusOK, s.Engine.AnalyzeMarket(c.Request.Context(), prices))
}
