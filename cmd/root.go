package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/BrandRap-LLC/scorecards-sub002/internal/contract"
	"github.com/BrandRap-LLC/scorecards-sub002/internal/iocache"
	"github.com/BrandRap-LLC/scorecards-sub002/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profilePrefix is the file prefix for CPU and memory profiles. Empty disables profiling.
var profilePrefix string

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager

// startProfiling starts CPU profiling if enabled.
func startProfiling() error {
	if profilePrefix == "" {
		return nil
	}

	cpuFile, err := os.Create(profilePrefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Memory profiling will be captured at the end
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profilePrefix, profilePrefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if profilePrefix == "" {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profilePrefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profilePrefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "scorecards",
	Short:              "Format clinic marketing metrics and color them as percentile heatmaps.",
	Long:               `Scorecards turns the executive report tables into heatmap grids, so a glance shows which clinics or periods lead and which lag.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSource()

	// Set environment variable prefix
	viper.SetEnvPrefix("SCORECARDS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", string(schema.TextOut))
	viper.SetDefault("color", "yes")
	viper.SetDefault("report-backend", string(schema.SQLiteBackend))
	viper.SetDefault("report-db-connect", "")
	viper.SetDefault("run-backend", "")
	viper.SetDefault("run-db-connect", "")
	viper.SetDefault("grain", string(contract.DefaultGrain))
	viper.SetDefault("axis", string(contract.DefaultAxis))
	viper.SetDefault("absent-policy", string(contract.DefaultAbsentPolicy))
}

// setConfigSource points viper at --config or the default .scorecards.yaml locations.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".scorecards") // Name of config file (without extension)
	viper.SetConfigType("yaml")        // We'll use YAML format
	viper.AddConfigPath(".")           // Look in the current directory
	viper.AddConfigPath("$HOME")       // Look in the home directory
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigSource()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// configSetup merges every config source into cfg without touching storage.
func configSetup() error {
	profilePrefix = viper.GetString("profile")
	if err := startProfiling(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing.
	return contract.ProcessAndValidate(cfg, input)
}

// configSetupWrapper wraps configSetup to provide PreRunE for commands that need no storage.
func configSetupWrapper(_ *cobra.Command, _ []string) error {
	return configSetup()
}

// sharedSetup unmarshals config, runs validation and opens the stores.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := configSetup(); err != nil {
		return err
	}

	// Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.ReportBackend, cfg.ReportDBConnect, cfg.RunBackend, cfg.RunDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// backendFromViper reads a backend key, treating an empty value as disabled.
func backendFromViper(key string) schema.DatabaseBackend {
	raw := strings.ToLower(viper.GetString(key))
	if raw == "" {
		return schema.NoneBackend
	}
	return schema.DatabaseBackend(raw)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
