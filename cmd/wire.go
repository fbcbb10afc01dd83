package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	chromem "github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	chatx "github.com/tanpawarit/zus-chat-assistant/agent/agents/chat"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	llmx "github.com/tanpawarit/zus-chat-assistant/agent/llm"
	normalizex "github.com/tanpawarit/zus-chat-assistant/agent/normalize"
	outletx "github.com/tanpawarit/zus-chat-assistant/agent/outlet"
	plannerx "github.com/tanpawarit/zus-chat-assistant/agent/planner"
	productx "github.com/tanpawarit/zus-chat-assistant/agent/product"
	promptx "github.com/tanpawarit/zus-chat-assistant/agent/prompt"
	sessionx "github.com/tanpawarit/zus-chat-assistant/agent/session"
	toolx "github.com/tanpawarit/zus-chat-assistant/agent/tool"
	configx "github.com/tanpawarit/zus-chat-assistant/pkg/config"
	metricsx "github.com/tanpawarit/zus-chat-assistant/pkg/metrics"
	openaix "github.com/tanpawarit/zus-chat-assistant/pkg/openai"
	outletdbx "github.com/tanpawarit/zus-chat-assistant/pkg/outletdb"
	vectorstorex "github.com/tanpawarit/zus-chat-assistant/pkg/vectorstore"
	"github.com/tanpawarit/zus-chat-assistant/server"
)

const (
	sessionBackendMemory  = "memory"
	sessionBackendUpstash = "upstash"
)

// Components are the collaborators built at startup. Any of them may be nil when
// its configuration is missing; the matching endpoint then answers 503.
type Components struct {
	Products contractx.ProductAnswerer
	Outlets  contractx.OutletQuerier
	Chat     *chatx.Service

	outletDB *outletdbx.DB
}

func (c *Components) Deps() server.Deps {
	deps := server.Deps{Products: c.Products, Outlets: c.Outlets}
	if c.Chat != nil {
		deps.Chat = c.Chat
	}
	return deps
}

func (c *Components) Close() {
	if c.outletDB != nil {
		if err := c.outletDB.Close(); err != nil {
			log.Warn().Err(err).Msg("close outlet database")
		}
	}
}

func loadAppConfig() (*AppConfig, error) {
	return configx.New[AppConfig]("")
}

func loadLLMConfig() (*llmx.Config, error) {
	return configx.New[llmx.Config]("LLM")
}

// openProductIndex opens the persistent product index with OpenAI embeddings.
func openProductIndex() (*vectorstorex.Store, int, error) {
	llmCfg, err := loadLLMConfig()
	if err != nil {
		return nil, 0, err
	}
	if err := llmCfg.Validate(); err != nil {
		return nil, 0, err
	}
	vsCfg, err := configx.New[vectorstorex.Config]("PRODUCTS")
	if err != nil {
		return nil, 0, err
	}

	embed, err := openaix.NewEmbedFunc(openaix.NewClient(llmCfg.ClientConfig()), llmCfg.EmbeddingModel)
	if err != nil {
		return nil, 0, err
	}
	store, err := vectorstorex.New(*vsCfg, chromem.EmbeddingFunc(embed))
	if err != nil {
		return nil, 0, err
	}
	return store, vsCfg.TopK, nil
}

func buildComponents(ctx context.Context, app *AppConfig) (*Components, error) {
	store, err := buildSessionStore(app.SessionBackend)
	if err != nil {
		return nil, err
	}

	c := &Components{}
	prompts := promptx.LoadPromptSet()

	llmCfg, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}
	if err := llmCfg.Validate(); err != nil {
		log.Error().Err(err).Msg("language model unavailable; /products, /outlets and /chat will answer 503")
		return c, nil
	}

	// Typed nils must not leak into the interfaces below.
	var products contractx.ProductAnswerer
	if svc, err := buildProductService(ctx, llmCfg, prompts); err != nil {
		log.Error().Err(err).Msg("product knowledge base unavailable")
	} else {
		products = svc
		c.Products = svc
	}

	var outlets contractx.OutletQuerier
	if svc, db, err := buildOutletService(ctx, llmCfg, prompts); err != nil {
		log.Error().Err(err).Msg("outlet database unavailable")
	} else {
		outlets = svc
		c.Outlets = svc
		c.outletDB = db
	}

	chat, err := buildChatService(ctx, app, llmCfg, prompts, store, products, outlets)
	if err != nil {
		log.Error().Err(err).Msg("chat agent unavailable")
		return c, nil
	}
	c.Chat = chat
	log.Info().
		Bool("products", c.Products != nil).
		Bool("outlets", c.Outlets != nil).
		Str("session_backend", app.SessionBackend).
		Msg("components ready")
	return c, nil
}

func buildSessionStore(backend string) (sessionx.Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", sessionBackendMemory:
		return sessionx.NewMemoryStore(), nil
	case sessionBackendUpstash:
		cfg, err := configx.New[sessionx.UpstashRedisConfig]("UPSTASH_REDIS")
		if err != nil {
			return nil, err
		}
		return sessionx.NewUpstashRedisStore(*cfg)
	default:
		return nil, fmt.Errorf("%w: unknown session backend %q", contractx.ErrValidation, backend)
	}
}

func chatModel(ctx context.Context, llmCfg *llmx.Config, role llmx.Role) (einomodel.ToolCallingChatModel, error) {
	cfg := llmCfg.ChatModelFor(role)
	return cfg.New(ctx)
}

func buildProductService(ctx context.Context, llmCfg *llmx.Config, prompts promptx.PromptSet) (*productx.Service, error) {
	store, topK, err := openProductIndex()
	if err != nil {
		return nil, err
	}
	if store.Count() == 0 {
		return nil, fmt.Errorf("%w: product index is empty, run `ingest products` first", contractx.ErrUnavailable)
	}
	m, err := chatModel(ctx, llmCfg, llmx.RoleSummary)
	if err != nil {
		return nil, err
	}
	return productx.NewService(ctx, m, productx.NewStoreRetriever(store), prompts.ProductSummary, topK)
}

func buildOutletService(ctx context.Context, llmCfg *llmx.Config, prompts promptx.PromptSet) (*outletx.Service, *outletdbx.DB, error) {
	dbCfg, err := configx.New[outletdbx.Config]("OUTLETS")
	if err != nil {
		return nil, nil, err
	}
	db, err := outletdbx.Open(ctx, *dbCfg)
	if err != nil {
		if errors.Is(err, outletdbx.ErrNotConfigured) {
			return nil, nil, fmt.Errorf("%w: %v", contractx.ErrUnavailable, err)
		}
		return nil, nil, err
	}
	m, err := chatModel(ctx, llmCfg, llmx.RoleSQL)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	svc, err := outletx.NewService(ctx, m, db, prompts.Text2SQL)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return svc, db, nil
}

func buildChatService(
	ctx context.Context,
	app *AppConfig,
	llmCfg *llmx.Config,
	prompts promptx.PromptSet,
	store sessionx.Store,
	products contractx.ProductAnswerer,
	outlets contractx.OutletQuerier,
) (*chatx.Service, error) {
	catalog, err := toolx.NewCatalog(products, outlets)
	if err != nil {
		return nil, err
	}
	m, err := chatModel(ctx, llmCfg, llmx.RolePlanner)
	if err != nil {
		return nil, err
	}
	planner, err := plannerx.New(ctx, m, catalog, prompts.System,
		plannerx.WithToolObserver(func(name string, capability contractx.Capability) {
			metricsx.ToolCallsTotal.WithLabelValues(name, string(capability)).Inc()
		}),
	)
	if err != nil {
		return nil, err
	}
	return chatx.New(store, planner, normalizex.New(), chatx.WithTimeout(app.ChatTimeout))
}
