package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

const (
	detailQueryRequired      = "query parameter is required"
	detailProductsNotLoaded  = "Product knowledge base not loaded. Check API key and vector index."
	detailOutletsNotLoaded   = "Outlet Text2SQL service not loaded. Check database DSN or API key."
	detailChatNotInitialized = "LLM or Agent not initialized."
)

type ProductResponse struct {
	Summary          string   `json:"summary"`
	RetrievedSources []string `json:"retrieved_sources"`
}

type OutletResponse struct {
	QueryResult       string   `json:"query_result"`
	IntermediateSteps []string `json:"intermediate_steps"`
}

type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Answer            string   `json:"answer"`
	ToolUsed          *string  `json:"tool_used"`
	IntermediateSteps []string `json:"intermediate_steps"`
}

type Handler struct {
	deps Deps
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) QueryProducts(c *gin.Context) {
	query, ok := requiredQuery(c)
	if !ok {
		return
	}
	if h.deps.Products == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": detailProductsNotLoaded})
		return
	}

	answer, err := h.deps.Products.Answer(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		log.Error().Err(err).Str("query", query).Msg("product query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}
	c.JSON(http.StatusOK, ProductResponse{Summary: answer.Summary, RetrievedSources: sources})
}

func (h *Handler) QueryOutlets(c *gin.Context) {
	query, ok := requiredQuery(c)
	if !ok {
		return
	}
	if h.deps.Outlets == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": detailOutletsNotLoaded})
		return
	}

	answer, err := h.deps.Outlets.Query(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		log.Error().Err(err).Str("query", query).Msg("outlet query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": fmt.Sprintf("Text2SQL Agent Error: %v", err)})
		return
	}

	steps := answer.Steps
	if steps == nil {
		steps = []string{}
	}
	c.JSON(http.StatusOK, OutletResponse{QueryResult: answer.Result, IntermediateSteps: steps})
}

func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if h.deps.Chat == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": detailChatNotInitialized})
		return
	}

	resp, err := h.deps.Chat.HandleMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, contractx.ErrValidation) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
			return
		}
		log.Error().Err(err).Str("session_id", req.SessionID).Msg("chat failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	out := ChatResponse{Answer: resp.Answer, IntermediateSteps: resp.IntermediateSteps}
	if resp.ToolUsed != "" {
		toolUsed := resp.ToolUsed
		out.ToolUsed = &toolUsed
	}
	c.JSON(http.StatusOK, out)
}

func requiredQuery(c *gin.Context) (string, bool) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detailQueryRequired})
		return "", false
	}
	return query, true
}
