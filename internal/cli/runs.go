package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func runsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "runs",
		Short: "Inspect saved pipeline runs",
	}

	c.AddCommand(runsListCmd())
	return c
}

func runsListCmd() *cobra.Command {
	var workspace string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			runs, err := ws.store.ListRuns()
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("(no runs found)")
				return nil
			}

			fmt.Printf("Workspace: %s\n\n", ws.root)
			for i, r := range runs {
				if limit > 0 && i >= limit {
					break
				}
				verdict := "ok"
				if n := r.Failures(); n > 0 {
					verdict = fmt.Sprintf("%d failed", n)
				} else if !r.GatePassed() {
					verdict = "gate failed"
				}
				fmt.Printf("- %s  %s  %d stage(s)  %s\n",
					r.ID, r.StartedAt.Format(time.RFC3339), len(r.Stages), verdict)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most N runs (0 = all)")
	return cmd
}
