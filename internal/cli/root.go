// Package cli is the command surface around the summarizer core.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pyglance/internal/peek"
)

var cfgFile string

// rootCmd summarizes the files given as arguments.
var rootCmd = &cobra.Command{
	Use:   "pyglance [paths...]",
	Short: "Structural summaries of Python source files",
	Long: `pyglance prints a structural map of Python source files: classes and
their methods, top-level functions, the main entry point, docstrings,
return statements, and whether the file runs as a script.

Directories are walked for .py files. Files that cannot be parsed are
skipped with a notice so the rest of the run continues.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSummarizer()
		if err != nil {
			return err
		}
		defer s.Close()

		count, err := s.Run(cmd.Context(), args, os.Stdout)
		if err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("no files could be summarized")
		}
		return nil
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pyglance.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "show conditional branches inside functions")
	rootCmd.PersistentFlags().Bool("json", false, "emit the structural model as JSON")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable ANSI colors")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "glob patterns of files to skip")
	rootCmd.PersistentFlags().Int("jobs", 0, "max files processed in parallel (0 = GOMAXPROCS)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	viper.BindPFlag("jobs", rootCmd.PersistentFlags().Lookup("jobs"))
}

// newSummarizer builds a summarizer from the effective configuration.
func newSummarizer() (*peek.Summarizer, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return peek.New(peek.Options{
		Verbose: viper.GetBool("verbose"),
		JSON:    viper.GetBool("json"),
		Color:   !viper.GetBool("no_color"),
		Exclude: viper.GetStringSlice("exclude"),
		Jobs:    viper.GetInt("jobs"),
	}, logger)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pyglance")
	}

	viper.SetEnvPrefix("PYGLANCE")
	viper.AutomaticEnv()

	// A missing config file is fine; flags and defaults carry the run.
	_ = viper.ReadInConfig()
}
