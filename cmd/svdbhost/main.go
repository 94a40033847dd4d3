// Command svdbhost runs a hardware-simulation guest compiled to WebAssembly
// and gives it access to a SQLite database through the svdb host module. The
// guest opens its own connections by path; --db is exported to it as the
// SVDB_PATH environment variable by convention.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/tetratelabs/wazero"
	"gopkg.in/yaml.v3"

	"github.com/icverimeter/svdb/boundary"
	"github.com/icverimeter/svdb/host"
	"github.com/icverimeter/svdb/logging"
)

type config struct {
	WASM     string `yaml:"wasm"`
	Database string `yaml:"database"`
	Verbose  bool   `yaml:"verbose"`
}

// loadConfig merges an optional YAML file with command-line flags; flags the
// user set explicitly win over file values.
func loadConfig(flags *pflag.FlagSet, configPath string) (config, error) {
	var cfg config
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	if flags.Changed("wasm") {
		cfg.WASM, _ = flags.GetString("wasm")
	}
	if flags.Changed("db") {
		cfg.Database, _ = flags.GetString("db")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	return cfg, nil
}

func main() {
	flags := pflag.NewFlagSet("svdbhost", pflag.ExitOnError)
	flags.String("wasm", "", "Path to the simulation guest WASM file")
	flags.String("db", "", "SQLite database path exported to the guest as SVDB_PATH")
	flags.String("config", "", "Path to a YAML config file")
	flags.Bool("verbose", false, "Enable per-operation debug logging")
	flags.Parse(os.Args[1:])

	configPath, _ := flags.GetString("config")
	cfg, err := loadConfig(flags, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "svdbhost: %v\n", err)
		os.Exit(1)
	}
	if cfg.WASM == "" {
		fmt.Fprintln(os.Stderr, "svdbhost: a guest WASM file must be provided via --wasm or the config file")
		os.Exit(1)
	}

	level := logging.LevelInfo
	if cfg.Verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(os.Stderr, level)

	wasmBytes, err := os.ReadFile(cfg.WASM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "svdbhost: read guest: %v\n", err)
		os.Exit(1)
	}

	moduleConfig := wazero.NewModuleConfig().
		WithStdout(os.Stdout).
		WithStderr(os.Stderr)
	if cfg.Database != "" {
		moduleConfig = moduleConfig.WithEnv("SVDB_PATH", cfg.Database)
	}

	adapter := boundary.NewAdapter(logger)
	status, err := host.Run(context.Background(), wasmBytes, adapter, logger, moduleConfig)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	if status != 0 {
		logger.Error("guest reported failure status %d", status)
		os.Exit(1)
	}
}
