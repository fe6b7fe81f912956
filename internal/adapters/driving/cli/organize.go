package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tidymark-labs/tidymark-cli/internal/core/domain"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driven"
	"github.com/tidymark-labs/tidymark-cli/internal/core/ports/driving"
	"github.com/tidymark-labs/tidymark-cli/internal/core/services"
	"github.com/tidymark-labs/tidymark-cli/internal/logger"
)

var (
	organizeBatchSize  int
	organizeSinglePass bool
	organizeOptimize   bool
	organizeDryRun     bool
	organizeYes        bool
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Plan and apply an organization of the bookmark library",
	Long: `Organize classifies every bookmark in the library with the configured
LLM provider and applies the resulting folder plan to the store.

By default the three-stage pipeline runs: structure planning, batched
classification, and merge. Use --single-pass for the simpler one-shot
mode and --optimize to add the review pass. --dry-run prints the plan
without touching the store.`,
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().IntVar(&organizeBatchSize, "batch-size", 0, "bookmarks per batch (default from config)")
	organizeCmd.Flags().BoolVar(&organizeSinglePass, "single-pass", false, "use the single-pass organizer")
	organizeCmd.Flags().BoolVar(&organizeOptimize, "optimize", false, "run the optimization review pass")
	organizeCmd.Flags().BoolVar(&organizeDryRun, "dry-run", false, "print the plan without applying it")
	organizeCmd.Flags().BoolVarP(&organizeYes, "yes", "y", false, "apply without confirmation")
	rootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := openConfig()
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	prompts, err := openPrompts()
	if err != nil {
		return fmt.Errorf("open prompts: %w", err)
	}
	// Pick up prompt edits made while a long run is in flight.
	if err := prompts.Watch(); err != nil {
		logger.Warn("Prompt watching disabled: %v", err)
	}
	defer prompts.Close()

	store, err := openStore()
	if err != nil {
		return fmt.Errorf("open bookmark store: %w", err)
	}
	defer store.Close()

	client, err := buildLLM(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	bookmarks, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}
	if len(bookmarks) == 0 {
		return fmt.Errorf("%w: the bookmark library is empty; run 'tidymark import' first", domain.ErrInvalidInput)
	}

	settings := cfg.PipelineSettings()
	if organizeBatchSize > 0 {
		settings.BatchSize = organizeBatchSize
	}
	if organizeSinglePass {
		settings.ThreeStage = false
	}
	if organizeOptimize {
		settings.EnableOptimization = true
	}

	merger := services.NewResultMerger(cfg.SentinelLabels(), cfg.PriorityLabels())

	var organizer driving.Organizer
	if settings.ThreeStage {
		organizer = services.NewThreeStageOrganizer(client, prompts, merger)
	} else {
		organizer = services.NewSinglePassOrganizer(client, prompts, merger, cfg.SubcategoryKeywords())
	}

	fmt.Printf("Organizing %d bookmarks with %s...\n", len(bookmarks), client.ModelName())

	plan, err := organizer.Organize(ctx, bookmarks, driving.OrganizeOptions{
		BatchSize:          settings.BatchSize,
		EnableOptimization: settings.EnableOptimization,
		OnProgress:         printProgress,
	})
	if err != nil {
		return fmt.Errorf("organize: %w", err)
	}

	printPlan(plan)

	if organizeDryRun {
		fmt.Println("\nDry run: plan not applied.")
		return nil
	}

	if !organizeYes && !confirm("Apply this plan to the bookmark library?") {
		fmt.Println("Aborted.")
		return nil
	}

	backup, err := snapshotLibrary(ctx, store, bookmarks)
	if err != nil {
		return fmt.Errorf("snapshot library: %w", err)
	}
	fmt.Printf("Library snapshot saved to %s\n", backup)

	applier := services.NewStorePlanApplier(store, cfg.PreservedLabels())
	stats, err := applier.Apply(ctx, plan)
	if err != nil {
		return fmt.Errorf("apply plan: %w", err)
	}

	fmt.Printf("\nApplied: %d folders created, %d bookmarks moved, %d titles updated, %d duplicates removed\n",
		stats.FoldersCreated, stats.BookmarksMoved, stats.TitlesUpdated, stats.DuplicatesRemoved)
	for _, msg := range stats.Errors {
		fmt.Fprintln(os.Stderr, "warning:", msg)
	}
	return nil
}

// printProgress renders one progress update on a single line.
func printProgress(p driving.Progress) {
	if p.TotalBatches > 0 && p.CurrentBatch > 0 {
		fmt.Printf("  [stage %d] %s (%.0f%%)\n", p.Stage, p.Message, p.Progress)
		return
	}
	fmt.Printf("  [stage %d] %s\n", p.Stage, p.Message)
}

// printPlan renders the plan as an indented folder tree with counts.
func printPlan(plan *domain.OrganizationPlan) {
	fmt.Printf("\nPlan: %d/%d bookmarks categorized (%.1f%%), %d batches\n",
		plan.Stats.TotalCategorized, plan.Stats.TotalBookmarks,
		plan.Stats.CategorizedRate, plan.Stats.BatchCount)

	for _, folder := range plan.Folders {
		fmt.Printf("  %s (%d)\n", folder.Name, folder.Count())
		for _, child := range folder.Children {
			fmt.Printf("    %s (%d)\n", child.Name, child.Count())
		}
	}
	if len(plan.Duplicates) > 0 {
		fmt.Printf("  %d duplicates flagged for removal\n", len(plan.Duplicates))
	}
	if len(plan.Unclassified) > 0 {
		fmt.Printf("  %d bookmarks unclassified\n", len(plan.Unclassified))
		if logger.IsVerbose() {
			for _, u := range plan.Unclassified {
				logger.Debug("unclassified: %s (%s)", u.Title, u.Reason)
			}
		}
	}
}

// confirm asks a yes/no question on stdin.
func confirm(question string) bool {
	fmt.Printf("\n%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// snapshotLibrary writes the current bookmark list to a timestamped
// JSON file so a run can be undone by hand if needed.
func snapshotLibrary(ctx context.Context, store driven.BookmarkStore, bookmarks []domain.Bookmark) (string, error) {
	dir := configDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".tidymark")
	}
	backupDir := filepath.Join(dir, "backups")
	if err := os.MkdirAll(backupDir, 0700); err != nil {
		return "", err
	}

	folders, err := store.Folders(ctx)
	if err != nil {
		return "", err
	}

	snapshot := struct {
		TakenAt   time.Time             `json:"taken_at"`
		Folders   []driven.StoredFolder `json:"folders"`
		Bookmarks []domain.Bookmark     `json:"bookmarks"`
	}{
		TakenAt:   time.Now().UTC(),
		Folders:   folders,
		Bookmarks: bookmarks,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(backupDir, "backup-"+time.Now().UTC().Format("20060102-150405")+".json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}
