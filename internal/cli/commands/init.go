package commands

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/dbtstyle/internal/cli/config"
	"github.com/leapstack-labs/dbtstyle/internal/cli/output"
	"github.com/leapstack-labs/dbtstyle/internal/loader"
)

//go:embed all:templates
var templateFS embed.FS

const initTemplate = "templates/init"

// DefaultConfig returns the commented dbtstyle.yaml written by init.
func DefaultConfig() string {
	return templateFile(config.FileNames[0])
}

// ExampleRule returns the custom rule written by init.
func ExampleRule() string {
	return templateFile("dbtstyle_rules/no_select_star.star")
}

func templateFile(name string) string {
	data, err := templateFS.ReadFile(initTemplate + "/" + name)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Force  bool
	Format string
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	opts := &InitOptions{}
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a dbtstyle.yaml for a dbt project",
		Long: `Write a commented dbtstyle.yaml and an example custom rule into a dbt
project. Existing files are left alone unless --force is given.`,
		Example: `  # Configure the project in the current directory
  dbtstyle init

  # Configure another project
  dbtstyle init ../analytics

  # Overwrite an existing configuration
  dbtstyle init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r, err := initRenderer(cmd, opts.Format)
			if err != nil {
				return err
			}
			return runInit(r, dir, opts.Force)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite existing files")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown")

	return cmd
}

// initRenderer builds a renderer without loading the project config, which
// may not exist yet or may be the file being replaced.
func initRenderer(cmd *cobra.Command, format string) (*output.Renderer, error) {
	mode := output.ModeAuto
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed && format == "" {
		format = f.Value.String()
	}
	if format != "" {
		m, err := output.ParseMode(format)
		if err != nil {
			return nil, fmt.Errorf("--format: %w", err)
		}
		mode = m
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode), nil
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	for _, name := range config.FileNames {
		existing := filepath.Join(dir, name)
		if _, err := os.Stat(existing); err == nil && !force {
			return fmt.Errorf("%s already exists. Use --force to overwrite", existing)
		}
	}

	written, skipped, err := copyTemplate(initTemplate, dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	r.Header(1, "dbtstyle initialized")
	for _, f := range written {
		r.Success(f)
	}
	for _, f := range skipped {
		r.Muted(f + " exists, skipped")
	}

	if _, err := os.Stat(filepath.Join(dir, loader.ProjectFileName)); errors.Is(err, fs.ErrNotExist) {
		r.Warning(fmt.Sprintf("no %s in %s; dbtstyle lints dbt projects", loader.ProjectFileName, dir))
	}

	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Review the settings in dbtstyle.yaml")
	r.Println("  2. Run 'dbtstyle lint' to check the project")
	r.Println("  3. Run 'dbtstyle rules' to see every rule")
	return nil
}

// copyTemplate copies an embedded template directory into targetDir and
// returns the written and skipped files, relative to targetDir.
func copyTemplate(root, targetDir string, force bool) (written, skipped []string, err error) {
	err = fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, ok := relSlash(root, p)
		if !ok {
			return nil
		}
		target := filepath.Join(targetDir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0750)
		}

		if !force {
			if _, err := os.Stat(target); err == nil {
				skipped = append(skipped, rel)
				return nil
			}
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, content, 0600); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	sort.Strings(written)
	sort.Strings(skipped)
	return written, skipped, err
}

// relSlash returns p relative to root for slash-separated embed paths.
func relSlash(root, p string) (string, bool) {
	if rest, ok := strings.CutPrefix(p, root+"/"); ok && rest != "" {
		return rest, true
	}
	return "", false
}
