package main

import (
	"context"

	"github.com/rs/zerolog/log"

	handlerx "github.com/dhabaai/dhaba/agent/handler"
	llmx "github.com/dhabaai/dhaba/agent/llm"
	memoryx "github.com/dhabaai/dhaba/agent/memory"
	menux "github.com/dhabaai/dhaba/agent/menu"
	orderx "github.com/dhabaai/dhaba/agent/order"
	"github.com/dhabaai/dhaba/agent/orchestrator"
	routerx "github.com/dhabaai/dhaba/agent/router"
	"github.com/dhabaai/dhaba/httpapi"
	configx "github.com/dhabaai/dhaba/pkg/config"
	_ "github.com/dhabaai/dhaba/pkg/logger/autoload"
	openrouterx "github.com/dhabaai/dhaba/pkg/openrouter"
)

type AppConfig struct {
	MenuPath       string `envconfig:"MENU_PATH" split_words:"true" default:"data/menu.csv"`
	ListenAddr     string `envconfig:"LISTEN_ADDR" split_words:"true" default:":8000"`
	MemoryTokens   int    `envconfig:"MEMORY_TOKENS" split_words:"true" default:"2000"`
	MemoryMaxUsers int    `envconfig:"MEMORY_MAX_USERS" split_words:"true" default:"1024"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("APP")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}

	menu, err := menux.Load(appCfg.MenuPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", appCfg.MenuPath).Msg("failed to load menu")
	}

	routerModelCfg := llmCfg.OpenRouterFor(llmx.RoleRouter)
	routerModel, err := routerModelCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router model")
	}

	handlerModelCfg := llmCfg.OpenRouterFor(llmx.RoleHandler)
	handlerModel, err := handlerModelCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build handler model")
	}

	summarizer, err := memoryx.NewOpenAISummarizer(
		openrouterx.NewClient(handlerModelCfg),
		llmCfg.SummaryModelName(),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build summarizer")
	}

	memory, err := memoryx.NewStore(summarizer, memoryx.Config{
		MaxTokens: appCfg.MemoryTokens,
		MaxUsers:  appCfg.MemoryMaxUsers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build memory store")
	}

	ledger := orderx.NewLedger(menu)

	registry, err := handlerx.NewRegistry(ctx, handlerModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build handler registry")
	}

	router, err := routerx.New(ctx, routerModel, handlerx.DestinationCatalog(), handlerx.Destinations())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	chat, err := orchestrator.New(router, registry, memory, menu, ledger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	server, err := httpapi.NewServer(httpapi.Config{
		ListenAddr: appCfg.ListenAddr,
		Chat:       chat,
		Orders:     ledger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build http server")
	}

	log.Info().
		Str("addr", appCfg.ListenAddr).
		Int("menu_items", len(menu.Entries())).
		Msg("ordering assistant listening")

	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("http server exited")
	}
}
