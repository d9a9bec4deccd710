package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/parafile/parafile/internal/cli"
	"github.com/parafile/parafile/internal/common"
	"github.com/parafile/parafile/internal/config"
	"github.com/parafile/parafile/internal/extract"
	"github.com/parafile/parafile/internal/model"
)

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Organize the documents already in the watched folder",
		Long: `Organize every supported document currently sitting in the watched
folder. Use this once after setup, or to catch up after the monitor
has been offline. Subfolders are left alone.`,
		RunE: runSweep,
	}
}

func runSweep(cmd *cobra.Command, _ []string) error {
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

	folder := config.ExpandPath(doc.WatchedFolder)
	registry := extract.NewRegistry()

	entries, err := os.ReadDir(folder)
	if err != nil {
		return fmt.Errorf("failed to read watched folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !registry.Supported(strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}
		files = append(files, filepath.Join(folder, entry.Name()))
	}

	if len(files) == 0 {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("No documents to organize in %s", folder)))
		return nil
	}

	pipeline, history, err := buildPipeline(ctx, doc)
	if err != nil {
		return err
	}
	if history != nil {
		defer history.Close()
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Organizing documents...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	var organized, failed int
	for _, file := range files {
		if ctx.Err() != nil {
			fmt.Println(cli.FormatWarning("Sweep interrupted"))
			break
		}

		record, err := pipeline.Process(ctx, file)
		if err != nil {
			failed++
		} else if record.Status == model.StatusOrganized {
			organized++
		}

		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Organized %d of %d documents", organized, len(files))))
	if failed > 0 {
		fmt.Println(cli.FormatError(fmt.Sprintf("%d documents failed; see 'parafile history --failed'", failed)))
	}

	return nil
}
