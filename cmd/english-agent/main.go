// Command english-agent is an interactive English text improvement tool. It
// reads an operation selector and a line of text per turn, dispatches to the
// retrieval-augmented correction pipeline or the local summarizer, and
// prints the outcome.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abamaxa/llm-english-agent/internal/agent"
	"github.com/abamaxa/llm-english-agent/internal/config"
	"github.com/abamaxa/llm-english-agent/internal/corpus"
	"github.com/abamaxa/llm-english-agent/internal/domain"
	"github.com/abamaxa/llm-english-agent/internal/embedding/openai"
	"github.com/abamaxa/llm-english-agent/internal/exchange"
	"github.com/abamaxa/llm-english-agent/internal/generation"
	"github.com/abamaxa/llm-english-agent/internal/retriever"
	"github.com/abamaxa/llm-english-agent/internal/summarizer"
	"github.com/abamaxa/llm-english-agent/internal/vectorindex/memory"
	"github.com/abamaxa/llm-english-agent/internal/vectorindex/qdrant"
)

const banner = `This is a demo English text improvement tool.

It routes each request to a retrieval-augmented correction pipeline backed
by a knowledge base of English language rules, or to a local summarizer.

The tool provides 3 functions:

  1 write_properly: enhances both grammar and style of the input message.
  2 write_grammar_fixed: corrects only the grammatical errors in the input message.
  3 summarize: provides a concise summary of the input message.
`

const menu = `
Enter 1, 2 or 3 (or an operation name), or anything else to quit: `

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		logDir  string
		debug   bool
	)
	cmd := &cobra.Command{
		Use:          "english-agent",
		Short:        "Conversational English correction agent",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfgPath, logDir, debug)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to YAML config file (default: ./config.yaml, then ~/.config/english-agent/config.yaml)")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "override the exchange log directory")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, cfgPath, logDir string, debug bool) error {
	_ = godotenv.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "english-agent"})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logDir != "" {
		cfg.ExchangeLog.Dir = logDir
	}

	// Assemble components
	var embedder domain.Embedder
	switch cfg.Embedder.Type {
	case "openai", "":
		embedder, err = openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return fmt.Errorf("init embedder: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown embedder %q", domain.ErrConfiguration, cfg.Embedder.Type)
	}

	var index domain.VectorIndex
	switch cfg.VectorIndex.Type {
	case "memory", "":
		index = memory.New()
	case "qdrant":
		if cfg.VectorIndex.Qdrant == nil {
			return fmt.Errorf("%w: qdrant config missing", domain.ErrConfiguration)
		}
		index = qdrant.New(qdrant.Config{
			URL:        cfg.VectorIndex.Qdrant.URL,
			APIKey:     cfg.VectorIndex.Qdrant.APIKey,
			Collection: cfg.VectorIndex.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorIndex.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		return fmt.Errorf("%w: unknown vector index %q", domain.ErrConfiguration, cfg.VectorIndex.Type)
	}

	fmt.Print(banner + "\n")
	fmt.Println("Loading models...")

	rules, err := corpus.LoadFile(cfg.Corpus.Path)
	if err != nil {
		return fmt.Errorf("load rule corpus: %w", err)
	}
	if err := rules.EmbedAll(ctx, embedder); err != nil {
		return fmt.Errorf("embed rule corpus: %w", err)
	}
	if err := index.Build(ctx, rules.IDs(), rules.Vectors()); err != nil {
		return fmt.Errorf("build vector index: %w", err)
	}
	logger.Debug("rule corpus indexed", "rules", rules.Len(), "embedding_model", embedder.Model())

	generator, err := generation.NewClient(generation.Config{
		BaseURL:     cfg.Generator.BaseURL,
		APIKeyEnv:   cfg.Generator.APIKeyEnv,
		Model:       cfg.Generator.Model,
		Temperature: cfg.Generator.Temperature,
		Timeout:     time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
		MaxRetries:  cfg.Generator.MaxRetries,
	}, logger)
	if err != nil {
		return fmt.Errorf("init generation client: %w", err)
	}

	store, err := exchange.NewStore(cfg.ExchangeLog.Dir)
	if err != nil {
		return fmt.Errorf("init exchange log: %w", err)
	}

	sum := summarizer.NewFrequency(summarizer.Config{
		MinWords:      cfg.Summarizer.MinWords,
		MaxWords:      cfg.Summarizer.MaxWords,
		ContextWindow: cfg.Summarizer.ContextWindowWords,
	})

	dispatcher := agent.New(
		retriever.New(embedder, index, rules),
		generator, sum, store, cfg.Retriever.TopK, logger,
	)

	return loop(ctx, dispatcher)
}

// loop reads one operation selector plus one line of text per turn until the
// user quits or input ends. Normal termination exits zero.
func loop(ctx context.Context, dispatcher *agent.Dispatcher) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print(menu)
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		op, err := domain.ParseOperation(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return nil
		}

		fmt.Print("Enter text: ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		outcome := dispatcher.Process(ctx, op, text)
		switch outcome.Status {
		case domain.StatusAnswered:
			fmt.Printf("\nResult: %s\n", outcome.Answer)
		case domain.StatusAmbiguous:
			fmt.Printf("\n%s\n", outcome.Explanation)
		case domain.StatusFailed:
			fmt.Printf("\nSorry, something went wrong (%s). Please try again.\n",
				domain.ErrorKind(outcome.Err))
		}
	}
}
