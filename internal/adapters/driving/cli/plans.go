package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/praxis-labs/irrigo/internal/adapters/driven/config/file"
	"github.com/praxis-labs/irrigo/internal/adapters/driven/storage/sqlite"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List archived plans",
	RunE:  runPlans,
}

func init() {
	rootCmd.AddCommand(plansCmd)
}

func runPlans(cmd *cobra.Command, _ []string) error {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := sqlite.NewStore(cfg.GetString(configfile.KeyDataDir))
	if err != nil {
		return fmt.Errorf("opening plan archive: %w", err)
	}
	defer store.Close()

	entries, err := store.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing plans: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("no archived plans")
		return nil
	}

	for _, entry := range entries {
		cmd.Printf("%s  %3d task(s)  %s  run %s\n",
			entry.PlanID, entry.TaskCount,
			entry.ArchivedAt.Format("2006-01-02 15:04:05"), entry.CorrelationID)
	}
	return nil
}
