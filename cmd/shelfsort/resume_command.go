package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resume [task-id]",
		Short: "Resume an interrupted classification task",
		Long:  "Resume picks up where a previous run stopped. With a task id it resumes that task; without one it resumes every incomplete task in creation order.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rt, err := openRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctrl, err := rt.newController()
			if err != nil {
				return err
			}

			var taskIDs []string
			if len(args) == 1 {
				taskIDs = args
			} else {
				pending, err := rt.store.ListPending(cmd.Context())
				if err != nil {
					return err
				}
				for _, task := range pending {
					taskIDs = append(taskIDs, task.TaskID)
				}
			}

			out := cmd.OutOrStdout()
			if len(taskIDs) == 0 {
				fmt.Fprintln(out, "No pending tasks to resume")
				return nil
			}

			for _, taskID := range taskIDs {
				task, err := ctrl.Run(cmd.Context(), taskID)
				if err != nil {
					return fmt.Errorf("resume %s: %w", taskID, err)
				}
				fmt.Fprintf(out, "Completed %s: %d of %d files processed\n",
					taskID, task.ProcessedFiles, task.TotalFiles)
			}
			return nil
		},
	}
}
