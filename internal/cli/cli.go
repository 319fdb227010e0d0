// Package cli implements the traitforge command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Every
// command shares one [CLI] value holding the logger; --verbose (-v) switches
// it to debug level. The logger is also attached to each command's context
// so helpers deeper in the call tree can retrieve it.
//
// # Commands
//
//   - generate: Build metadata and images for a collection
//   - validate: Check a configuration and its assets without writing anything
//   - rarity: Show the trait distribution of a generated collection
//   - rules: Render the incompatibility rules as a graph
//   - assets: Normalize file names and resize layer images
//   - serve: Serve a generated collection over HTTP
//   - version, completion
//
// # Environment
//
// Run defaults can be set through TRAITFORGE_* environment variables; flags
// take precedence. See [envDefaults].
package cli

import (
	"io"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/traitforge/pkg/buildinfo"
	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
	"github.com/matzehuels/traitforge/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "traitforge"

	// defaultConfig is the configuration file looked up when --config is not given.
	defaultConfig = "config.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "traitforge generates layered generative-art collections",
		Long:         `traitforge combines weighted trait layers into unique, reproducible tokens: it draws one value per layer from a seed, enforces incompatibility rules, writes metadata and composites the layer images.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.rarityCommand())
	root.AddCommand(c.rulesCommand())
	root.AddCommand(c.assetsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Environment Defaults
// =============================================================================

// envDefaults are run defaults read from the environment.
type envDefaults struct {
	Workers     int    `env:"TRAITFORGE_WORKERS" envDefault:"25"`
	MaxAttempts int    `env:"TRAITFORGE_MAX_ATTEMPTS" envDefault:"10000"`
	Output      string `env:"TRAITFORGE_OUTPUT" envDefault:"output"`
	Addr        string `env:"TRAITFORGE_ADDR" envDefault:":8080"`
}

// loadEnvDefaults parses envDefaults from the process environment.
func loadEnvDefaults() (envDefaults, error) {
	var d envDefaults
	if err := env.Parse(&d); err != nil {
		return envDefaults{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse environment")
	}
	return d, nil
}

// mustEnvDefaults returns the environment defaults, falling back to the
// built-in defaults when the environment is malformed. The error surfaces
// again when the command runs.
func mustEnvDefaults() envDefaults {
	d, err := loadEnvDefaults()
	if err != nil {
		return envDefaults{
			Workers:     pipeline.DefaultWorkers,
			MaxAttempts: pipeline.DefaultMaxAttempts,
			Output:      pipeline.DefaultOutput,
			Addr:        ":8080",
		}
	}
	return d
}

// =============================================================================
// Config Helpers
// =============================================================================

// loadConfig loads and validates the collection configuration at path.
func (c *CLI) loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = defaultConfig
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded configuration", "path", path, "layers", len(cfg.Layers), "rules", len(cfg.Incompatibilities))
	return cfg, nil
}
