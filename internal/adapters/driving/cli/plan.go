package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	configfile "github.com/praxis-labs/irrigo/internal/adapters/driven/config/file"
	"github.com/praxis-labs/irrigo/internal/adapters/driven/hashing"
	ingestfile "github.com/praxis-labs/irrigo/internal/adapters/driven/ingest/file"
	"github.com/praxis-labs/irrigo/internal/adapters/driven/metrics/prom"
	questionnairefile "github.com/praxis-labs/irrigo/internal/adapters/driven/questionnaire/file"
	"github.com/praxis-labs/irrigo/internal/adapters/driven/signals/static"
	"github.com/praxis-labs/irrigo/internal/adapters/driven/storage/sqlite"
	"github.com/praxis-labs/irrigo/internal/core/domain"
	"github.com/praxis-labs/irrigo/internal/core/services"
)

var (
	planChunksFlag        string
	planQuestionnaireFlag string
	planSignalsFlag       string
	planAlgorithmFlag     string
	planOutputFlag        string
	planArchiveFlag       bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Build an execution plan from a chunk document and a questionnaire",
	Long: `Validates the chunk document into the complete 10x6 grid, routes
every question to its chunk, resolves signals, checks schema
compatibility, and assembles the deterministic execution plan.

Any validation failure aborts the run; partial plans are never
produced.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planChunksFlag, "chunks", "", "chunk document JSON file")
	planCmd.Flags().StringVar(&planQuestionnaireFlag, "questionnaire", "", "questionnaire YAML file")
	planCmd.Flags().StringVar(&planSignalsFlag, "signals", "", "signal fixture JSON file")
	planCmd.Flags().StringVar(&planAlgorithmFlag, "algorithm", "", "integrity hash algorithm (blake3 or sha256)")
	planCmd.Flags().StringVarP(&planOutputFlag, "output", "o", "", "write the serialized plan to this file")
	planCmd.Flags().BoolVar(&planArchiveFlag, "archive", false, "archive the plan in the local database")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	chunksPath := firstNonEmpty(planChunksFlag, cfg.GetString(configfile.KeyChunksPath))
	questionnairePath := firstNonEmpty(planQuestionnaireFlag, cfg.GetString(configfile.KeyQuestionnairePath))
	signalsPath := firstNonEmpty(planSignalsFlag, cfg.GetString(configfile.KeySignalsPath))
	if chunksPath == "" || questionnairePath == "" || signalsPath == "" {
		return fmt.Errorf("chunk document, questionnaire and signal fixture are required (flags or config at %s)", cfg.Path())
	}

	doc, err := ingestfile.NewIngestor(chunksPath).Ingest(ctx)
	if err != nil {
		return err
	}
	grid, _, err := services.NewGridBuilder().Build(doc)
	if err != nil {
		return err
	}

	questions, err := questionnairefile.NewLoader(questionnairePath).Load(ctx)
	if err != nil {
		return err
	}

	registry, err := static.LoadRegistry(signalsPath)
	if err != nil {
		return err
	}

	algorithm := firstNonEmpty(planAlgorithmFlag, cfg.GetString(configfile.KeyIntegrityAlgorithm))
	hasher, err := hashing.New(algorithm)
	if err != nil {
		return err
	}

	recorder := prom.NewRecorder(prometheus.NewRegistry())
	synchronizer := services.NewSynchronizer(grid, registry, hasher, recorder)

	plan, err := synchronizer.Synchronize(ctx, questions)
	if err != nil {
		return fmt.Errorf("synchronization failed: %w", err)
	}

	cmd.Printf("plan %s\n", plan.PlanID())
	cmd.Printf("  tasks:     %d (from %d questions over %d chunks)\n",
		plan.TaskCount(), plan.QuestionCount(), plan.ChunkCount())
	cmd.Printf("  integrity: %s:%s\n", hasher.Name(), plan.IntegrityHash())
	cmd.Printf("  run:       %s\n", plan.CorrelationID())

	if planOutputFlag != "" {
		payload, err := domain.MarshalPlan(plan)
		if err != nil {
			return fmt.Errorf("serializing plan: %w", err)
		}
		if err := os.WriteFile(planOutputFlag, payload, 0600); err != nil {
			return fmt.Errorf("writing plan to %s: %w", planOutputFlag, err)
		}
		cmd.Printf("  written:   %s\n", planOutputFlag)
	}

	if planArchiveFlag {
		store, err := sqlite.NewStore(cfg.GetString(configfile.KeyDataDir))
		if err != nil {
			return fmt.Errorf("opening plan archive: %w", err)
		}
		defer store.Close()
		if err := store.Save(ctx, plan); err != nil {
			return fmt.Errorf("archiving plan: %w", err)
		}
		cmd.Printf("  archived:  %s\n", store.Path())
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
