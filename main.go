package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	orchestratorx "github.com/lyrebird-labs/concierge/agent/agents/orchestrator"
	specialistx "github.com/lyrebird-labs/concierge/agent/agents/specialist"
	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	identityx "github.com/lyrebird-labs/concierge/agent/identity"
	llmx "github.com/lyrebird-labs/concierge/agent/llm"
	musicdbx "github.com/lyrebird-labs/concierge/agent/musicdb"
	statex "github.com/lyrebird-labs/concierge/agent/state"
	toolx "github.com/lyrebird-labs/concierge/agent/tool"
	configx "github.com/lyrebird-labs/concierge/pkg/config"
	_ "github.com/lyrebird-labs/concierge/pkg/logger/autoload"
	openrouterx "github.com/lyrebird-labs/concierge/pkg/openrouter"
)

type AppConfig struct {
	DatabasePath string `envconfig:"DATABASE_PATH" split_words:"true" default:":memory:"`
	StepBudget   int    `envconfig:"STEP_BUDGET" split_words:"true" default:"8"`
	StoreBackend string `envconfig:"STORE_BACKEND" split_words:"true" default:"memory"`
	StartupCheck bool   `envconfig:"STARTUP_CHECK" split_words:"true" default:"false"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("CONCIERGE")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")

	if appCfg.StartupCheck {
		if err := openrouterx.Ping(ctx, llmCfg.OpenRouterFor(contractx.AgentTypeSupervisor)); err != nil {
			log.Warn().Err(err).Msg("provider startup check failed")
		}
	}

	db, err := musicdbx.Open(appCfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", appCfg.DatabasePath).Msg("open store database")
	}
	defer db.Close()

	if err := db.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed store database")
	}
	if err := db.Verify(ctx); err != nil {
		log.Fatal().Err(err).Msg("verify store database")
	}

	checkpoints, memory, err := buildStores(appCfg.StoreBackend)
	if err != nil {
		log.Fatal().Err(err).Str("backend", appCfg.StoreBackend).Msg("build stores")
	}

	registry, err := specialistx.NewRegistry(ctx, *llmCfg, toolx.NewGateway(db))
	if err != nil {
		log.Fatal().Err(err).Msg("build agent registry")
	}

	svc, err := orchestratorx.New(checkpoints, memory, registry, identityx.NewResolver(db), orchestratorx.Config{
		StepBudget: appCfg.StepBudget,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	repl(ctx, svc)
}

func buildStores(backend string) (statex.CheckpointStore, statex.MemoryStore, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "memory":
		return statex.NewInMemoryCheckpointStore(), statex.NewInMemoryMemoryStore(), nil
	case "redis":
		redisCfg := configx.MustNew[statex.RedisConfig]("UPSTASH_REDIS")
		checkpoints, err := statex.NewRedisCheckpointStore(*redisCfg)
		if err != nil {
			return nil, nil, err
		}
		memory, err := statex.NewRedisMemoryStore(*redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return checkpoints, memory, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

func repl(ctx context.Context, svc *orchestratorx.Orchestrator) {
	threadID := orchestratorx.NewThreadID()
	fmt.Printf("Support concierge ready. Thread %s. Type 'exit' to quit, 'new' for a fresh thread.\n", threadID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "":
			continue
		case text == "exit":
			return
		case text == "new":
			threadID = orchestratorx.NewThreadID()
			fmt.Printf("Started thread %s.\n", threadID)
			continue
		}

		result, err := svc.RunTurn(ctx, threadID, text)
		if err != nil {
			log.Error().Err(err).Str("thread", threadID).Msg("turn rejected")
			continue
		}

		fmt.Println(result.Answer)
		if result.AwaitingInput {
			fmt.Println("(waiting for your reply to continue)")
		}
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("read input")
	}
}
