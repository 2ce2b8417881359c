package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/bqlint/internal/cli/config"
	"github.com/leapstack-labs/bqlint/pkg/lint"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// initConfig is the document written by bqlint init.
type initConfig struct {
	Dialect   string             `yaml:"dialect"`
	StatePath string             `yaml:"state_path"`
	Output    string             `yaml:"output"`
	Lint      *config.LintConfig `yaml:"lint"`
}

// defaultInitConfig lists every registered rule at its default severity so
// the file documents what can be tuned.
func defaultInitConfig() initConfig {
	lc := &config.LintConfig{
		Disabled: []string{},
		Severity: make(map[string]string),
		Rules:    make(map[string]map[string]any),
	}
	for _, rule := range lint.GetAllSQLRules() {
		lc.Severity[rule.ID()] = rule.DefaultSeverity().String()
		for _, key := range rule.ConfigKeys() {
			if lc.Rules[rule.ID()] == nil {
				lc.Rules[rule.ID()] = make(map[string]any)
			}
			lc.Rules[rule.ID()][key] = []string{}
		}
	}
	return initConfig{
		Dialect:   config.DefaultDialect,
		StatePath: config.DefaultStateFile,
		Output:    config.DefaultOutput,
		Lint:      lc,
	}
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a .bqlint.yaml configuration file",
		Long: `Create a .bqlint.yaml configuration file with every rule listed at its
default severity.

The file is looked up from the working directory upwards, so it is usually
placed at the repository root.`,
		Example: `  # Initialize in current directory
  bqlint init

  # Initialize in another directory
  bqlint init queries/

  # Overwrite an existing config
  bqlint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	cmdCtx := NewCommandContext(cmd, "")
	r := cmdCtx.Renderer

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	for _, name := range config.ConfigFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil && !force {
			return fmt.Errorf("%s already exists. Use --force to overwrite", name)
		}
	}

	content, err := yaml.Marshal(defaultInitConfig())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	header := "# bqlint configuration\n# Severity levels: error, warning, info, hint\n"

	path := filepath.Join(dir, config.ConfigFileNames[0])
	if err := os.WriteFile(path, append([]byte(header), content...), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	r.StatusLine(path, "success", "")
	r.Println("")
	r.Success("bqlint initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Tune rule severities in " + config.ConfigFileNames[0])
	r.Println("  2. Run 'bqlint lint .' to check your SQL")
	r.Println("  3. Run 'bqlint baseline update .' to accept existing findings")

	cmdCtx.Logger.Debug("wrote config", slog.String("path", path), slog.Int("rules", lint.Count()))
	return nil
}
