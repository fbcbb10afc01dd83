package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	chatx "github.com/tanpawarit/zus-chat-assistant/agent/agents/chat"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	metricsx "github.com/tanpawarit/zus-chat-assistant/pkg/metrics"
)

// AllowedOrigins are the browser frontends permitted by CORS.
var AllowedOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:8000",
	"http://127.0.0.1:8000",
}

type ChatHandler interface {
	HandleMessage(ctx context.Context, sessionID, message string) (chatx.Response, error)
}

// Deps holds the collaborators behind each endpoint. A nil collaborator makes its
// endpoint answer 503.
type Deps struct {
	Products contractx.ProductAnswerer
	Outlets  contractx.OutletQuerier
	Chat     ChatHandler
}

func NewRouter(deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), AccessLog(), Metrics(), CORS(AllowedOrigins))

	h := &Handler{deps: deps}
	engine.GET("/", h.Health)
	engine.GET("/products", h.QueryProducts)
	engine.GET("/outlets", h.QueryOutlets)
	engine.POST("/chat", h.Chat)
	engine.GET("/metrics", gin.WrapH(metricsx.Handler()))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
	return engine
}
