package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/debatearena/internal/arena"
	"github.com/user/debatearena/internal/config"
	"github.com/user/debatearena/internal/debate"
	"github.com/user/debatearena/internal/httpapi"
	"github.com/user/debatearena/internal/ingest"
	"github.com/user/debatearena/internal/judge"
	"github.com/user/debatearena/internal/match"
	"github.com/user/debatearena/internal/notify"
	"github.com/user/debatearena/internal/state"
	"github.com/user/debatearena/internal/types"
	"github.com/user/debatearena/pkg/llm"
	"github.com/user/debatearena/pkg/llm/openai"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the debate arena server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func newProvider(cfg *config.Config) llm.Provider {
	client := openai.New(&llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.TimeoutSeconds,
	})
	return llm.WithRetry(client, llm.DefaultRetryPolicy())
}

func newMatchService(cfg *config.Config, stores *state.Stores, provider llm.Provider) (*match.Service, error) {
	engine, err := debate.New(provider, cfg.LLM.Model, cfg.Debate.KnowledgeTokens)
	if err != nil {
		return nil, fmt.Errorf("create debate engine: %w", err)
	}
	panel := judge.NewPanel(judge.New(provider), cfg.Debate.Judges)
	rounds := make([]types.RoundName, 0, len(cfg.Debate.Rounds))
	for _, r := range cfg.Debate.Rounds {
		rounds = append(rounds, types.RoundName(r))
	}
	return match.NewService(stores.Agents, stores.Packs, stores.Matches, engine, panel, rounds, cfg.Debate.EloK), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	stores := state.Open(cfg.DataDir)
	provider := newProvider(cfg)

	matchSvc, err := newMatchService(cfg, stores, provider)
	if err != nil {
		return err
	}

	if cfg.Telegram.Token != "" {
		announcer, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return fmt.Errorf("create telegram announcer: %w", err)
		}
		matchSvc.SetAnnouncer(announcer)
		slog.Info("telegram announcer enabled")
	} else {
		slog.Warn("telegram announcer disabled (no token)")
	}

	arenaSvc := arena.NewService(stores.Arenas, stores.Matches, matchSvc, cfg.Arena.CodeLength, cfg.Arena.CodeAttempts)

	sweeper := arena.NewSweeper(stores.Arenas, time.Duration(cfg.Arena.RoomTTLMin)*time.Minute)
	if err := sweeper.Start(cfg.Arena.SweepSchedule); err != nil {
		return fmt.Errorf("start room sweeper: %w", err)
	}
	defer sweeper.Stop()

	srv := httpapi.NewServer(stores.Agents, stores.Packs, stores.Matches, matchSvc, arenaSvc, ingest.NewFetcher())
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("debatearena started",
			"listen", cfg.ListenAddr,
			"data_dir", cfg.DataDir,
			"log_level", cfg.LogLevel,
			"llm_provider", cfg.LLM.Provider,
			"llm_model", cfg.LLM.Model,
			"judges", cfg.Debate.Judges,
			"rounds", cfg.Debate.Rounds,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-sigChan:
		slog.Info("shutting down", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
