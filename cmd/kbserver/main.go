package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/onlysaid/onlysaid-kb/pkg/api"
	"github.com/onlysaid/onlysaid-kb/pkg/config"
	"github.com/onlysaid/onlysaid-kb/pkg/llm"
	"github.com/onlysaid/onlysaid-kb/pkg/log"
	"github.com/onlysaid/onlysaid-kb/pkg/manager"
	"github.com/onlysaid/onlysaid-kb/pkg/statestore"
	"github.com/onlysaid/onlysaid-kb/pkg/vectorstore"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kbserver",
	Short: "Multi-tenant knowledge base orchestration service",
	Long: `kbserver manages the lifecycle of workspace knowledge bases:
registration, background ingestion, vector index builds, multi-KB
retrieval, and streaming RAG answers.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"kbserver version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the knowledge base server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func serve(cfg *config.Config) error {
	log.Init(log.Config{
		Level:      log.Level(cfg.Log.Level),
		JSONOutput: cfg.Log.JSON,
	})
	logger := log.WithComponent("main")

	ctx := context.Background()

	store, err := statestore.NewRedisStore(ctx, &statestore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer store.Close()

	vectors, err := vectorstore.NewQdrantStore(&vectorstore.QdrantConfig{
		URL:    cfg.Qdrant.URL,
		APIKey: cfg.Qdrant.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create vector store: %w", err)
	}

	embedder, err := llm.NewOllamaEmbedder(&llm.EmbedderConfig{
		Model:   cfg.Embed.Model,
		BaseURL: cfg.Embed.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	model, err := llm.NewOpenAICompatible(&llm.OpenAIConfig{
		Model:   cfg.LLM.Model,
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}

	mgr := manager.NewManager(&manager.Config{
		Store:    store,
		Vectors:  vectors,
		Embedder: embedder,
		Model:    model,
	})
	mgr.Start()
	defer mgr.Stop()

	server := api.NewServer(mgr, cfg.Server.ListenAddr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}

	return nil
}
