// Package cli implements the satzkarte command-line interface: card
// generation, lookup, stone maintenance and spreadsheet export on top of the
// local card database.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/satzkarte/internal/logging"
	"github.com/mesh-intelligence/satzkarte/internal/paths"
	"github.com/mesh-intelligence/satzkarte/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the per-invocation state shared by the subcommands.
type app struct {
	flags     rootFlags
	configDir string
	config    settings
	logger    *zap.Logger
}

// NewRootCmd creates the top-level "satzkarte" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "satzkarte",
		Short: "Generate and track set cards for drawing-die stones",
		Long: `satzkarte prints set cards (Satzkarten) for drawing-die stone sets,
records every generated card with its stones in a local SQLite database,
and exports the records as spreadsheets.`,
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.satzkarte-db)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newCreateCmd(a),
		newPDFCmd(a),
		newLabelCmd(a),
		newListCmd(a),
		newStonesCmd(a),
		newAddStoneCmd(a),
		newStatusCmd(a),
		newDeleteCmd(a),
		newDeleteStoneCmd(a),
		newExportCmd(a),
		newExportCardCmd(a),
		newSetsCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
	)
	return root
}

// setup resolves the config directory, loads config.yaml and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if a.flags.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return usageErrorf("%v", err)
	}

	a.configDir = configDir
	a.config = cfg
	a.logger = logger.Named("satzkarte")
	return nil
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}

// usageError marks a failure caused by the caller's input.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCode maps an error to 1 for caller mistakes (bad input, unknown ids)
// and 2 for storage, rendering and filesystem failures.
func exitCode(err error) int {
	var ue *usageError
	switch {
	case errors.As(err, &ue),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrItemNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidSet),
		errors.Is(err, types.ErrDiameterNotInSet),
		errors.Is(err, types.ErrTimezoneUnknown):
		return exitUserError
	case types.IsStorageError(err), types.IsRenderError(err):
		return exitSysError
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return exitSysError
	}
	// Remaining errors come from cobra flag and argument parsing.
	return exitUserError
}
