package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/six-degrees/internal/common"
	"github.com/Veraticus/six-degrees/internal/extract"
	"github.com/Veraticus/six-degrees/internal/filter"
	"github.com/Veraticus/six-degrees/internal/llm"
	"github.com/Veraticus/six-degrees/internal/loader"
	"github.com/Veraticus/six-degrees/internal/model"
	"github.com/Veraticus/six-degrees/internal/pipeline"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Extract relationships from a batch of emails",
		Long: `Run a batch of emails through the filter and extraction pipeline.

Messages come from a JSON file (--input) or directly from Gmail (--gmail).
The resulting bundle of people, companies, and interactions can be written
to a file (--out) and saved to the database (--save).`,
		RunE: runProcess,
	}

	cmd.Flags().String("input", "", "JSON file containing an array of raw messages")
	cmd.Flags().Bool("gmail", false, "fetch messages from Gmail instead of a file")
	cmd.Flags().String("query", "", "Gmail search query (with --gmail)")
	cmd.Flags().Int("max-messages", 0, "maximum messages to fetch (with --gmail)")
	cmd.Flags().String("account", "", "account holder email (required with --input)")
	cmd.Flags().String("provider", "", "extraction provider (heuristic, openai, anthropic)")
	cmd.Flags().String("model", "", "model name override")
	cmd.Flags().String("out", "", "write the processed bundle to this JSON file")
	cmd.Flags().Bool("save", false, "persist the bundle to the database")
	cmd.Flags().Bool("skip-processed", false, "skip messages already recorded in the database")
	cmd.Flags().Int("concurrency", 0, "threads processed in parallel")

	_ = viper.BindPFlag("llm.provider", cmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("llm.model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("pipeline.concurrency", cmd.Flags().Lookup("concurrency"))

	return cmd
}

func runProcess(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	inputFile, _ := cmd.Flags().GetString("input")
	useGmail, _ := cmd.Flags().GetBool("gmail")
	accountEmail, _ := cmd.Flags().GetString("account")
	outFile, _ := cmd.Flags().GetString("out")
	save, _ := cmd.Flags().GetBool("save")
	skipProcessed, _ := cmd.Flags().GetBool("skip-processed")

	if (inputFile == "") == (!useGmail) {
		return fmt.Errorf("%w: exactly one of --input and --gmail is required", common.ErrInvalidConfig)
	}

	var (
		msgs []model.RawMessage
		err  error
	)
	switch {
	case useGmail:
		msgs, accountEmail, err = fetchFromGmail(cmd)
	default:
		if accountEmail == "" {
			return fmt.Errorf("%w: --account is required with --input", common.ErrInvalidConfig)
		}
		msgs, err = readMessages(inputFile)
	}
	if err != nil {
		return err
	}

	backend, cleanup, err := buildBackend()
	if err != nil {
		return err
	}
	defer cleanup()

	classifier, err := filter.New()
	if err != nil {
		return fmt.Errorf("failed to build classifier: %w", err)
	}

	if skipProcessed {
		msgs, err = dropProcessed(ctx, msgs, accountEmail)
		if err != nil {
			return err
		}
	}

	p := pipeline.NewWithConfig(classifier, backend, slog.Default(), pipeline.Config{
		Concurrency: viper.GetInt("pipeline.concurrency"),
	})

	bundle, err := p.Run(ctx, msgs, accountEmail)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	slog.Info("✅ Batch processed",
		"account", bundle.AccountEmail,
		"total", bundle.Stats.TotalMessages,
		"kept", bundle.Stats.KeptMessages,
		"filtered", bundle.Stats.FilteredMessages,
		"threads", bundle.Stats.Threads,
		"failed_threads", bundle.Stats.FailedThreads,
		"degraded", bundle.Stats.Degraded,
		"people", len(bundle.People),
		"companies", len(bundle.Companies),
		"interactions", len(bundle.Interactions))

	if outFile != "" {
		if err := writeBundle(outFile, bundle); err != nil {
			return err
		}
		slog.Info("Bundle written", "file", outFile)
	}

	if save {
		store, err := initStorage(ctx)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = store.Close() }()

		result, err := loader.New(store, slog.Default()).LoadBundle(ctx, bundle)
		if err != nil {
			return fmt.Errorf("failed to save bundle: %w", err)
		}
		slog.Info("💾 Bundle saved",
			"people", result.People,
			"companies", result.Companies,
			"interactions", result.Interactions,
			"expertise", result.Expertise)
	}

	return nil
}

// buildBackend picks the extraction backend from config. The heuristic
// backend needs no credentials; the model providers wrap a heuristic
// fallback.
func buildBackend() (extract.Backend, func(), error) {
	provider := viper.GetString("llm.provider")
	if provider == "" || provider == "heuristic" {
		return extract.NewHeuristicBackend(), func() {}, nil
	}

	client, err := llm.NewClient(llm.Config{
		Provider:    provider,
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	cfg := extract.DefaultModelBackendConfig()
	if rpm := viper.GetInt("llm.rate_limit"); rpm > 0 {
		cfg.RateLimit = rpm
	}
	backend := extract.NewModelBackendWithConfig(client, slog.Default(), cfg)
	return backend, func() { backend.Close() }, nil
}

func readMessages(path string) ([]model.RawMessage, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var msgs []model.RawMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}
	return msgs, nil
}

func writeBundle(path string, bundle *model.ProcessedBundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}
	return nil
}

// dropProcessed removes messages the database has already seen for this
// account, extracted or filtered alike.
func dropProcessed(ctx context.Context, msgs []model.RawMessage, accountEmail string) ([]model.RawMessage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	userID, err := store.CreateOrGetUser(ctx, accountEmail, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	fresh := make([]model.RawMessage, 0, len(msgs))
	for _, msg := range msgs {
		seen, err := store.IsMessageProcessed(ctx, userID, msg.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check message %q: %w", msg.ID, err)
		}
		if !seen {
			fresh = append(fresh, msg)
		}
	}

	if skipped := len(msgs) - len(fresh); skipped > 0 {
		slog.Info("Skipping already processed messages", "skipped", skipped, "remaining", len(fresh))
	}
	return fresh, nil
}
