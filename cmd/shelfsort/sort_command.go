package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shelfsort/internal/config"
	"shelfsort/internal/scanner"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var sourceFlag string
	var targetFlag string

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Scan the source directory and classify its files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCfg, err := overridePaths(cfg, sourceFlag, targetFlag)
			if err != nil {
				return err
			}

			if err := scanner.CheckAccess(runCfg.Paths.SourceDir); err != nil {
				return err
			}
			if err := runCfg.EnsureDirectories(); err != nil {
				return err
			}

			files, err := scanner.New(runCfg.Sort.Extensions).Scan(runCfg.Paths.SourceDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No classifiable files found in %s\n", runCfg.Paths.SourceDir)
				return nil
			}

			rt, err := openRuntime(runCfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			taskID := newTaskID(time.Now())
			if _, err := rt.store.CreateTask(cmd.Context(), taskID, files); err != nil {
				return fmt.Errorf("create task: %w", err)
			}
			fmt.Fprintf(out, "Created %s with %d files\n", taskID, len(files))

			ctrl, err := rt.newController()
			if err != nil {
				return err
			}
			task, err := ctrl.Run(cmd.Context(), taskID)
			if err != nil {
				return fmt.Errorf("run %s: %w", taskID, err)
			}

			fmt.Fprintf(out, "Processed %d of %d files into %s\n",
				task.ProcessedFiles, task.TotalFiles, runCfg.Paths.TargetDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Override the configured source directory")
	cmd.Flags().StringVar(&targetFlag, "target", "", "Override the configured target directory")
	return cmd
}

// overridePaths applies flag overrides onto a copy so the shared config stays
// untouched for other commands in the same invocation.
func overridePaths(cfg *config.Config, source, target string) (*config.Config, error) {
	runCfg := *cfg
	if source != "" {
		expanded, err := config.ExpandPath(source)
		if err != nil {
			return nil, err
		}
		runCfg.Paths.SourceDir = expanded
	}
	if target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return nil, err
		}
		runCfg.Paths.TargetDir = expanded
	}
	return &runCfg, nil
}

// newTaskID mints the task identifier from the wall clock. Second granularity
// matches the one-run-at-a-time locking model.
func newTaskID(now time.Time) string {
	return "task_" + now.Format("20060102_150405")
}
