package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/cfgkit/internal/codec"
	"github.com/joshuapare/cfgkit/internal/logger"
	"github.com/joshuapare/cfgkit/pkg/editcfg"
)

const envPrefix = "EDITCFG"

var (
	// Global flags
	cfgFile string
	verbose bool
	quiet   bool
	jsonOut bool
	yamlOut bool
)

// stdin is swapped by tests.
var stdin io.Reader = os.Stdin

var rootCmd = &cobra.Command{
	Use:   "editcfg",
	Short: "Edit Klipper printer.cfg files in place",
	Long: `editcfg reads and edits Klipper style printer.cfg files while keeping
every untouched line, comment and blank exactly as it was.

Sections are addressed by label ("stepper_x", "gcode_macro start_print"),
by glob ("stepper_*") or by a line inside them ("@42").

Settings come from flags, EDITCFG_* environment variables or .editcfg.yaml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "settings file (default is .editcfg.yaml)")
	flags.StringP("file", "f", editcfg.DefaultPath, "printer.cfg to edit")
	flags.String("compression", string(codec.Bzip2), "transport compression (bzip2, zstd)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-dir", "", "write logs to a dated file in this directory instead of stderr")
	flags.Bool("backup", false, "Keep a .bak copy of the file before the first change")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	flags.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	flags.BoolVar(&yamlOut, "yaml", false, "Output in YAML format")

	for _, name := range []string{"file", "compression", "log-level", "log-dir", "backup"} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".editcfg")
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		printVerbose("Using settings file: %s\n", viper.ConfigFileUsed())
	}
}

func initLogging() error {
	level, err := logger.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	if verbose {
		level = min(level, slog.LevelDebug)
	}
	format := logger.FormatText
	if jsonOut {
		format = logger.FormatJSON
	}
	return logger.Init(logger.Options{
		Enabled: true,
		Level:   level,
		Format:  format,
		Output:  os.Stderr,
		LogDir:  viper.GetString("log-dir"),
	})
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for settings

func targetPath() string {
	if p := viper.GetString("file"); p != "" {
		return p
	}
	return editcfg.DefaultPath
}

func openEditor() (*editcfg.Editor, error) {
	path := targetPath()
	printVerbose("Opening config: %s\n", path)
	ed, err := editcfg.Open(path, &editcfg.Options{Backup: viper.GetBool("backup")})
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	return ed, nil
}

func newCodec() (*codec.Codec, error) {
	alg, err := codec.ParseAlgorithm(viper.GetString("compression"))
	if err != nil {
		return nil, err
	}
	return codec.New(&codec.Options{Algorithm: alg})
}

// readInput returns the lines of name, or of stdin for "" and "-".
func readInput(name string) ([]string, error) {
	var r io.Reader = stdin
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		out = append(out, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return out, sc.Err()
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printYAML outputs data as YAML
func printYAML(v any) error {
	encoder := yaml.NewEncoder(os.Stdout)
	encoder.SetIndent(2)
	defer encoder.Close()
	return encoder.Encode(v)
}

// printStructured prints v as JSON or YAML when requested and reports
// whether it did.
func printStructured(v any) (bool, error) {
	switch {
	case jsonOut:
		return true, printJSON(v)
	case yamlOut:
		return true, printYAML(v)
	}
	return false, nil
}

// saved reports a successful change.
func saved(ed *editcfg.Editor, what string) error {
	if err := ed.Save(); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	if ok, err := printStructured(map[string]any{"file": targetPath(), "action": what, "success": true}); ok {
		return err
	}
	printInfo("%s: %s\n", what, targetPath())
	return nil
}
