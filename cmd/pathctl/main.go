package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	gp "nickandperla.net/genetic_paths"
	"nickandperla.net/genetic_paths/world"
)

var (
	configPath string
	worldPath  string
	logLevel   string

	log *logrus.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "pathctl",
		Short: "Evolve, inspect and replay paths",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = gp.NewCommandLogger(logLevel)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "run config (toml or yaml), defaults when empty")
	root.PersistentFlags().StringVar(&worldPath, "world", "./world.toml", "world to evolve paths through")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(runCommand(), replayCommand(), shellCommand(), configCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*gp.Config, error) {
	if configPath == "" {
		return gp.DefaultConfig(), nil
	}
	return gp.LoadConfig(configPath)
}

// newController loads config and world and wires a controller logging
// through the command logger.
func newController(withStore bool) (*gp.Controller, *gp.Persistence, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	env, err := world.Load(worldPath)
	if err != nil {
		return nil, nil, err
	}
	gp.InitRNG(config.Run.Seed)

	var store *gp.Persistence
	if withStore && config.Persistence != nil {
		if store, err = gp.NewPersistence(config.Persistence); err != nil {
			return nil, nil, fmt.Errorf("opening persistence: %w", err)
		}
	}
	diag := gp.NewDiagnostics(gp.LogSubscriber(log))
	ctl, err := gp.NewController(config, env, store, diag)
	if err != nil {
		if store != nil {
			store.Shutdown()
		}
		return nil, nil, err
	}
	return ctl, store, nil
}

func runCommand() *cobra.Command {
	var generations uint32
	var seed int64
	var withProfile bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a number of generations and persist the history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if withProfile {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
			}
			ctl, store, err := newController(true)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Shutdown()
			}
			if seed != 0 {
				gp.InitRNG(seed)
			}

			if err := ctl.RequestStateChange(gp.Play); err != nil {
				return err
			}
			dt := ctl.Config.TimeBetweenGenerations + 1
			for ctl.GenerationCount() < generations {
				if err := ctl.Tick(dt); err != nil {
					return err
				}
			}
			fmt.Print(ctl.GenerationInfoText())

			if err := ctl.RequestStateChange(gp.Stop); err != nil {
				return err
			}
			if err := ctl.Tick(0); err != nil {
				return err
			}
			if run := ctl.LastRun(); run != nil {
				fmt.Printf("Saved run %s\n", run.UUID)
			}
			return nil
		},
	}
	cmd.Flags().Uint32VarP(&generations, "generations", "n", 100, "generations to run")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, overrides the config when non-zero")
	cmd.Flags().BoolVar(&withProfile, "profile", false, "write a CPU profile to the working directory")
	return cmd
}

func configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Validate the run config and print it with defaults filled in",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Validate(); err != nil {
				return err
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(config)
		},
	}
}
