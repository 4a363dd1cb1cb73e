package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"tfcraft/internal/collect"
	"tfcraft/internal/config"
	"tfcraft/internal/docstore"
	"tfcraft/internal/embed"
	"tfcraft/internal/fields"
	"tfcraft/internal/generate"
	"tfcraft/internal/ingest"
	"tfcraft/internal/llm"
	"tfcraft/internal/pipeline"
	"tfcraft/internal/resolver"
	"tfcraft/internal/validate"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "tfcraft",
		Short: "AI-powered Terraform generator for CloudStack",
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(resourcesCmd)
}

// initStore connects to Milvus with the configured collection. Callers own
// the Close.
func initStore(ctx context.Context, cfg *config.Config) (*docstore.MilvusStore, error) {
	return docstore.NewMilvusStore(ctx, docstore.MilvusOptions{
		Address:    cfg.MilvusAddress(),
		Collection: cfg.Milvus.Collection,
		BatchSize:  cfg.Milvus.BatchSize,
		RowCap:     cfg.Milvus.RowCap,
		Dimension:  cfg.Milvus.Dimension,
	})
}

// initCaller builds the retry-wrapped LLM caller from configuration.
func initCaller(ctx context.Context, cfg *config.Config) (*llm.Caller, error) {
	if cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("AI API key not configured (set GROQ_API_KEY or ai.api_key)")
	}
	client, err := llm.NewClient(ctx, llm.Options{
		Provider: cfg.AI.Provider,
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return llm.NewCaller(client, llm.RetryPolicy{
		Retries: cfg.AI.Retries,
		Backoff: time.Duration(cfg.AI.RetryBackoffMS) * time.Millisecond,
	}), nil
}

// stdinAsker reads one response line per prompt from the terminal.
type stdinAsker struct {
	reader *bufio.Reader
}

func newStdinAsker() *stdinAsker {
	return &stdinAsker{reader: bufio.NewReader(os.Stdin)}
}

func (a *stdinAsker) Ask(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := a.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var generateCmd = &cobra.Command{
	Use:   "generate [request]",
	Short: "Turn a free-text request into a validated Terraform snippet",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		asker := newStdinAsker()

		request := strings.TrimSpace(strings.Join(args, " "))
		if request == "" {
			request, err = asker.Ask("What do you want to provision? ")
			if err != nil {
				log.Fatalf("Failed to read request: %v", err)
			}
			request = strings.TrimSpace(request)
		}
		if request == "" {
			fmt.Println("Nothing provided, exiting.")
			return
		}

		caller, err := initCaller(ctx, cfg)
		if err != nil {
			log.Fatalf("Setup failed: %v", err)
		}

		store, err := initStore(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Milvus: %v", err)
		}
		defer store.Close()

		advisor := fields.NewAdvisor(caller)
		validator := fields.NewValidator(caller)

		var runner *validate.TerraformRunner
		if cfg.Terraform.ValidationEnabled {
			runner = validate.NewTerraformRunner(
				time.Duration(cfg.Terraform.InitTimeoutSec)*time.Second,
				time.Duration(cfg.Terraform.ValidateTimeoutSec)*time.Second,
			)
		}

		p := &pipeline.Pipeline{
			Store:         store,
			Resolver:      resolver.NewDefault(caller),
			Extractor:     fields.NewExtractor(caller),
			Collector:     collect.New(advisor, validator, asker, os.Stdout),
			Generator:     generate.NewGenerator(caller, cfg.AI.ContextChunks),
			Engine:        validate.NewEngine(cfg.Terraform.ValidationEnabled, runner),
			Asker:         asker,
			Out:           os.Stdout,
			OutputDir:     cfg.Output.Dir,
			ContextChunks: cfg.AI.ContextChunks,
		}

		fmt.Println("Milvus RAG Terraform Agent")
		if err := p.Run(ctx, request); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
	},
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [cleaned-dir]",
	Short: "Embed cleaned documentation pages and populate the Milvus index",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		dir := "cleaned_docs"
		if len(args) > 0 {
			dir = args[0]
		}

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		fmt.Printf("🔄 Loading embedding provider (%s)...\n", cfg.Embedding.Provider)
		embedder, err := embed.NewEmbedder(ctx, embed.Options{
			Provider:  cfg.Embedding.Provider,
			APIKey:    cfg.Embedding.APIKey,
			Model:     cfg.Embedding.Model,
			Dimension: cfg.Embedding.Dimension,
			BaseURL:   cfg.Embedding.BaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create embedder: %v", err)
		}

		store, err := initStore(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Milvus: %v", err)
		}
		defer store.Close()

		fmt.Println("📁 Preparing Milvus collection...")
		if err := store.EnsureCollection(ctx); err != nil {
			log.Fatalf("Failed to prepare collection: %v", err)
		}

		ig := ingest.NewIngestor(store, embedder, os.Stdout)
		stats, err := ig.Run(ctx, dir)
		if err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}

		if err := store.Flush(ctx); err != nil {
			log.Fatalf("Failed to flush collection: %v", err)
		}
		fmt.Printf("\n🚀 Ingestion complete. Files: %d, Chunks: %d\n", stats.Files, stats.Chunks)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [scraped-dir] [cleaned-dir]",
	Short: "Strip boilerplate from scraped documentation pages",
	Args:  cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		src := "scraped_docs"
		dst := "cleaned_docs"
		if len(args) > 0 {
			src = args[0]
		}
		if len(args) > 1 {
			dst = args[1]
		}

		n, err := ingest.CleanDir(src, dst, os.Stdout)
		if err != nil {
			log.Fatalf("Cleaning failed: %v", err)
		}
		fmt.Printf("\n✅ Cleaning complete. %d files written to '%s/'.\n", n, dst)
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "List the resource types known to the index",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		store, err := initStore(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Milvus: %v", err)
		}
		defer store.Close()

		names, err := store.ListResources(ctx)
		if err != nil {
			log.Fatalf("Failed to list resources: %v", err)
		}
		if len(names) == 0 {
			fmt.Println("⚠ No resources found in the index. Did you ingest docs?")
			return
		}
		for _, name := range names {
			fmt.Println("  -", name)
		}
	},
}
