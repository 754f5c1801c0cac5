package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"shelfsort/internal/ledger"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List classification tasks and their progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var tasks []*ledger.Task
			if pendingOnly {
				tasks, err = store.ListPending(cmd.Context())
			} else {
				tasks, err = store.ListTasks(cmd.Context())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found")
				return nil
			}

			rows := make([][]string, 0, len(tasks))
			for _, task := range tasks {
				rows = append(rows, []string{
					task.TaskID,
					strconv.Itoa(task.TotalFiles),
					strconv.Itoa(task.ProcessedFiles),
					fmt.Sprintf("%.1f%%", task.ProgressPercent()),
					taskStatus(task),
					task.CreatedAt.Local().Format(time.DateTime),
				})
			}

			headers := []string{"TASK", "TOTAL", "DONE", "PROGRESS", "STATUS", "CREATED"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Show only incomplete tasks")
	return cmd
}

func taskStatus(task *ledger.Task) string {
	if task.IsCompleted {
		return "completed"
	}
	return "pending"
}
