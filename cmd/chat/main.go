package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"cloess-chatbot-be/internal/bootstrap"
	"cloess-chatbot-be/internal/config"
	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/pkg/logger"
	"cloess-chatbot-be/internal/repository/unitofwork"
	"cloess-chatbot-be/internal/service"
	"cloess-chatbot-be/pkg/database"
	"cloess-chatbot-be/pkg/observability"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	sessionID := flag.String("session", "", "reuse an existing session id")
	debug := flag.Bool("debug", false, "print the classified intent and grounding for each turn")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, "silent")
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	sysLogger := logger.NewIsolatedLogger("logs/chat_cli.log")
	defer func() { _ = sysLogger.Sync() }()

	metrics := observability.NewMetrics(cfg.App.MetricsNamespace, prometheus.NewRegistry())
	pipeline := bootstrap.NewChatPipeline(unitofwork.NewRepositoryFactory(db), cfg, nil, nil, metrics, sysLogger)

	sid := *sessionID
	if sid == "" {
		sid = service.NewSessionId()
	}

	color.Cyan("CLOESS assistant (session %s)\n", sid)
	if !pipeline.Configured {
		color.Yellow("No LLM credential found; replies are rendered without the generator.")
	}
	color.Cyan("Type 'exit' to quit.\n")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		ctx := context.Background()
		if !pipeline.Configured {
			reply, err := direct(ctx, pipeline, sid, line, *debug)
			if err != nil {
				color.Red("Failed: %v", err)
				continue
			}
			color.Green("%s", reply)
			continue
		}

		resp, err := pipeline.Chatbot.SendChat(ctx, &dto.ChatRequest{Message: line, SessionId: sid})
		if err != nil {
			color.Red("Failed: %v", err)
			continue
		}
		color.Green("%s", resp.Response)
	}

	if err := scanner.Err(); err != nil {
		color.Red("Input error: %v", err)
	}
}

// direct runs one turn through the orchestrator and renders it without a
// generator.
func direct(ctx context.Context, p *bootstrap.ChatPipeline, sid, line string, debug bool) (string, error) {
	outcome, err := p.Orchestrator.Process(ctx, sid, line)
	if err != nil {
		return "", err
	}
	if debug {
		color.Yellow("[intent] %s (%s, %.2f) mode=%s", outcome.Intent.Kind, outcome.Intent.Source, outcome.Intent.Confidence, outcome.Mode)
		if outcome.Grounding != nil {
			color.Yellow("[grounding]\n%s", outcome.Grounding.Text())
		}
	}
	return p.Orchestrator.Direct(ctx, sid, outcome)
}
