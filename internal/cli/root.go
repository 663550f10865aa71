// Package cli implements the marks command tree.
package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nikbrunner/marks/internal/manager"
	"github.com/nikbrunner/marks/internal/picker"
	"github.com/nikbrunner/marks/internal/storage"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string
	Backend string
	Data    string
	JSON    bool
	Verbose bool
}

// app carries the dependencies shared by all commands. The function fields
// are replaced in tests.
type app struct {
	flags  GlobalFlags
	out    io.Writer
	errOut io.Writer
	log    *zap.Logger
	config *storage.Config

	openURL   func(url string) error
	copyURL   func(url string) error
	runPicker func(p picker.Picker) (picker.Picker, error)
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:       out,
		errOut:    errOut,
		log:       zap.NewNop(),
		openURL:   openURL,
		copyURL:   clipboard.WriteAll,
		runPicker: runPicker,
	}
}

// NewRootCommand builds the command tree writing to the given streams.
func NewRootCommand(version string, out, errOut io.Writer) *cobra.Command {
	return newRootCommand(version, newApp(out, errOut))
}

func newRootCommand(version string, a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "marks",
		Short: "Categorized bookmark manager with browser HTML import/export",
		Long: `marks keeps bookmarks in categories and round-trips them through the
Netscape bookmark HTML format every browser can import and export.

Importing a file replaces all existing bookmarks and categories.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.Config, "config", "", "Path to config file (.json or .yaml)")
	pf.StringVar(&a.flags.Backend, "backend", "", "Storage backend: json | sqlite")
	pf.StringVar(&a.flags.Data, "data", "", "Path to the bookmark data file")
	pf.BoolVar(&a.flags.JSON, "json", false, "Output in JSON format")
	pf.BoolVarP(&a.flags.Verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newImportCommand(a),
		newExportCommand(a),
		newAddCommand(a),
		newUpdateCommand(a),
		newDeleteCommand(a),
		newClearCommand(a),
		newListCommand(a),
		newCountCommand(a),
		newCategoryCommand(a),
		newSearchCommand(a),
		newFindCommand(a),
		newCheckCommand(a),
	)

	return root
}

// Execute runs the command tree against os.Args.
func Execute(version string) error {
	return NewRootCommand(version, os.Stdout, os.Stderr).Execute()
}

// setup builds the logger and loads configuration.
func (a *app) setup() error {
	level := zapcore.WarnLevel
	if a.flags.Verbose {
		level = zapcore.DebugLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	a.log = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(a.errOut),
		level,
	))

	path := a.flags.Config
	if path == "" {
		var err error
		path, err = storage.DefaultConfigFilePath()
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
	}
	config, err := storage.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	a.config = config
	a.log.Debug("config loaded", zap.String("path", path), zap.String("backend", config.Backend))
	return nil
}

// openManager opens the configured storage and loads the bookmark store.
// The returned close function must be called when done.
func (a *app) openManager() (*manager.Manager, func() error, error) {
	backend := a.config.Backend
	if a.flags.Backend != "" {
		backend = a.flags.Backend
	}
	path := a.config.DataPath
	if a.flags.Data != "" {
		path = a.flags.Data
	}

	s, closeFn, err := storage.Open(backend, path)
	if err != nil {
		return nil, closeFn, err
	}

	m, err := manager.New(manager.Params{Storage: s, Logger: a.log})
	if err != nil {
		closeFn()
		return nil, func() error { return nil }, err
	}
	return m, closeFn, nil
}

// withManager runs fn against an opened store and closes it afterwards.
func (a *app) withManager(fn func(m *manager.Manager) error) error {
	m, closeFn, err := a.openManager()
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(m)
}

// runPicker runs the picker full screen until the user chooses or cancels.
func runPicker(p picker.Picker) (picker.Picker, error) {
	finalModel, err := tea.NewProgram(p).Run()
	if err != nil {
		return p, err
	}
	return finalModel.(picker.Picker), nil
}

// openURL opens a URL in the default browser.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("opening URLs is not supported on %s", runtime.GOOS)
	}
	return cmd.Start()
}
