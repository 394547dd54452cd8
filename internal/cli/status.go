package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suraj-yadav-aiml/ctpipe/internal/usecase"
)

func statusCmd() *cobra.Command {
	var workspace string
	var pipeline string

	c := &cobra.Command{
		Use:   "status",
		Short: "Show which stages would run on the next repro, and why",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			uc := usecase.NewPipelineStatus(ws.pipelines, ws.configs, ws.stater)
			rows, err := uc.Execute(ws.pipelinePath(pipeline), ws.configPath(), ws.paramsPath())
			if err != nil {
				return err
			}

			stale := 0
			for _, r := range rows {
				if r.Fresh {
					fmt.Fprintf(os.Stdout, "- %s: up to date\n", r.Name)
					continue
				}
				stale++
				fmt.Fprintf(os.Stdout, "- %s: stale (%s)\n", r.Name, r.Reason)
			}

			if stale == 0 {
				fmt.Fprintln(os.Stdout, "\nPipeline is up to date.")
			} else {
				fmt.Fprintf(os.Stdout, "\n%d stage(s) would run on `ctpipe repro`.\n", stale)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&pipeline, "pipeline", "p", "", "Pipeline file (optional; defaults to the workspace pipeline)")
	return c
}
