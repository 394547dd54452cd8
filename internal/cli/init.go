package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/suraj-yadav-aiml/ctpipe/internal/infra/fsworkspace"
	"github.com/suraj-yadav-aiml/ctpipe/internal/usecase"
)

func initCmd() *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Scaffold a ctpipe workspace (config, params, pipeline, dirs)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root := path
			if len(args) == 1 {
				root = args[0]
			}
			if root == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("get working directory: %w", err)
				}
				root = wd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			if err := uc.Execute(root, force); err != nil {
				return err
			}

			fmt.Printf("Workspace ready at %s\n", root)
			fmt.Println("Next: edit config/config.yaml and params.yaml, then `ctpipe repro`.")
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", "", "Directory to initialize (defaults to the current directory)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing template files")
	return c
}
