package timetable

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dasdy/timetable/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

var logCtx = logging.PackageCtx("cmd")

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Scroll text over a board of lamps",
	Long: `Timetable renders text on a split-flap style board made of lamps, seven per column.
Text can be shown in place or scrolled across the board, on the terminal, on a
serial LED panel or in the browser.`,
	PersistentPreRun: bindFlags,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.timetable.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
}

func initConfig() {
	if cfgFile != "" {
		slog.DebugContext(logCtx, "Using config file", "path", cfgFile)
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".timetable" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(".timetable")
	}

	viper.SetEnvPrefix("timetable")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			createExampleConfig()
		} else {
			slog.ErrorContext(logCtx, "Error reading config file", "error", err)
			os.Exit(1)
		}
	}
}

func createExampleConfig() {
	exampleConfig := `
language = "eng"
boardHeight = 100
boardBgColor = "#1b1b1b"
lampColorOn = "#ffcc00"
lampColorOff = "#3a3a3a"
tickInterval = "100ms"
columnsInBoard = 30
port = 9000
storage = "./glyphs.sqlite"
`
	configPath := "./.timetable.toml"

	err := os.WriteFile(configPath, []byte(exampleConfig), 0o644)
	if err != nil {
		slog.ErrorContext(logCtx, "Error creating example config file", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(logCtx, "Example config file created", "path", configPath)
}

// set values to the PFlag variables from config, if they are set. Priority is still given to explicitly provided CLI flags.
func bindFlags(cmd *cobra.Command, _ []string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Viper compares keys case-insensitively, so dropping the hyphens is enough to match camelCase keys.
		configName := strings.ReplaceAll(f.Name, "-", "")

		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)

			err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val))
			if err != nil {
				slog.ErrorContext(logCtx, "Error setting flag", "flag", f.Name, "error", err)
				panic(err)
			}

			slog.DebugContext(logCtx, "Flag set to config value", "flag", f.Name, "value", val)
		}
	})

	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, logging.ParseLevel(logLevel))))
}
