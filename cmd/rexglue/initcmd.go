package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCommand() *cobra.Command {
	var (
		appName    string
		appRoot    string
		appDesc    string
		appAuthor  string
		sdkExample bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new recompilation project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if appName == "" {
				return fmt.Errorf("--app_name is required for init command")
			}
			if appRoot == "" {
				return fmt.Errorf("--app_root is required for init command")
			}
			return initProject(appName, appRoot, appDesc, appAuthor, sdkExample, flagForce)
		},
	}

	cmd.Flags().StringVar(&appName, "app_name", "", "project name")
	cmd.Flags().StringVar(&appRoot, "app_root", "", "project root directory")
	cmd.Flags().StringVar(&appDesc, "app_desc", "", "project description (optional)")
	cmd.Flags().StringVar(&appAuthor, "app_author", "", "project author (optional)")
	cmd.Flags().BoolVar(&sdkExample, "sdk_example", false, "create as SDK example")
	return cmd
}

const projectConfigTemplate = `{
	"codegen": {
		"project_name": %q,
		"out_directory_path": "generated",
		"skip_lr": false,
		"skip_msr": false
	},
	"image": {
		"path": "image.bin",
		"base_address": 2147483648,
		"entry_point": 2147483648,
		"sections": []
	},
	"functions": []
}
`

func initProject(name, root, desc, author string, sdkExample, force bool) error {
	projectDir := filepath.Join(root, name)
	configPath := filepath.Join(projectDir, name+".json")

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("project %s already exists (use --force to overwrite)", configPath)
	}

	for _, dir := range []string{projectDir, filepath.Join(projectDir, "generated")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if err := os.WriteFile(configPath,
		[]byte(fmt.Sprintf(projectConfigTemplate, name)), 0o644); err != nil {
		return err
	}

	readme := fmt.Sprintf("# %s\n\n%s\n", name, desc)
	if author != "" {
		readme += fmt.Sprintf("\nAuthor: %s\n", author)
	}
	if !sdkExample {
		readme += "\nGenerated with rexglue init.\n"
	}
	if err := os.WriteFile(filepath.Join(projectDir, "README.md"), []byte(readme), 0o644); err != nil {
		return err
	}

	logMain.Info("Initialized project %s at %s", name, projectDir)
	return nil
}
