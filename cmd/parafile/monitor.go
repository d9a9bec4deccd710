package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parafile/parafile/internal/cli"
	"github.com/parafile/parafile/internal/common"
	"github.com/parafile/parafile/internal/config"
	"github.com/parafile/parafile/internal/extract"
	"github.com/parafile/parafile/internal/organize"
	"github.com/parafile/parafile/internal/rules"
)

func monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch the configured folder and organize new documents",
		Long: `Watch the configured folder and file every new document as it arrives.

Documents are read, classified into one of your categories, renamed
from the category's naming pattern, and moved into the category's
folder. Press Ctrl-C to stop.`,
		RunE: runMonitor,
	}

	cmd.Flags().Int("workers", 4, "Number of documents processed concurrently")
	_ = viper.BindPFlag("monitor.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	doc, path, err := loadRules()
	if err != nil {
		return err
	}
	if doc.WatchedFolder == "" {
		return common.NewUserError(
			fmt.Sprintf("no watched folder configured; set watched_folder in %s", path),
			common.ErrMissingConfig,
		)
	}

	pipeline, history, err := buildPipeline(ctx, doc)
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
	}

	folder := config.ExpandPath(doc.WatchedFolder)
	watcher := organize.NewWatcher(pipeline, extract.NewRegistry(), organize.WatcherConfig{
		Root:    folder,
		Workers: viper.GetInt("monitor.workers"),
	})

	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	mode := "organizing into category folders"
	if !doc.EnableOrganization {
		mode = "renaming in place"
	}
	content := fmt.Sprintf("Folder: %s\nCategories: %s\nMode: %s\n\nPress Ctrl-C to stop.",
		folder, categoryNames(doc), mode)
	fmt.Println(cli.RenderBox(cli.FolderIcon+" Watching for documents", content))

	<-ctx.Done()
	return watcher.Stop()
}

func categoryNames(doc *rules.Document) string {
	names := make([]string, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}
