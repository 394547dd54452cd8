package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/suraj-yadav-aiml/ctpipe/internal/domain"
	ucgate "github.com/suraj-yadav-aiml/ctpipe/internal/usecase/gate"
)

func gateCmd() *cobra.Command {
	var workspace string
	var pipeline string
	var scores string

	c := &cobra.Command{
		Use:   "gate",
		Short: "Evaluate the gate rules against the current scores file",
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			p, err := ws.pipelines.LoadPipeline(ws.pipelinePath(pipeline))
			if err != nil {
				return err
			}
			if len(p.Gate) == 0 {
				fmt.Fprintln(os.Stdout, "(pipeline declares no gate rules)")
				return nil
			}

			scoresPath := scores
			if scoresPath == "" {
				project, cerr := ws.configs.LoadProject(ws.configPath())
				if cerr != nil {
					return cerr
				}
				scoresPath = project.Evaluation.ScoresFile
			}
			if !filepath.IsAbs(scoresPath) {
				scoresPath = filepath.Join(ws.root, scoresPath)
			}

			b, err := os.ReadFile(scoresPath)
			if err != nil {
				return &domain.OpError{
					Op:   "cli.gate",
					Kind: domain.KindNotFound,
					Path: scoresPath,
					Err:  err,
				}
			}

			results := ucgate.Evaluate(p.Gate, b)
			failed := 0
			for _, r := range results {
				mark := "✓"
				if !r.Passed {
					mark = "✗"
					failed++
				}
				fmt.Fprintf(os.Stdout, "%s %s — %s\n", mark, r.Name, r.Message)
			}

			if failed > 0 {
				return &domain.OpError{
					Op:   "cli.gate",
					Kind: domain.KindGate,
					Path: scoresPath,
					Err:  fmt.Errorf("%d gate rule(s) failed", failed),
				}
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&pipeline, "pipeline", "p", "", "Pipeline file (optional; defaults to the workspace pipeline)")
	c.Flags().StringVar(&scores, "scores", "", "Scores file (optional; defaults to the configured evaluation output)")
	return c
}
