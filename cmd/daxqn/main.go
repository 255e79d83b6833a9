// Command daxqn trains a DQN or DecQN agent on a classic control
// environment, from state or pixel observations.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
	"github.com/samuelfneumann/daxqn/agent"
	"github.com/samuelfneumann/daxqn/initwfn"
	"github.com/samuelfneumann/daxqn/loop"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfg        = agent.Default()
	configFile string
	episodes   int
	maxSteps   int
	logEvery   int
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "daxqn",
	Short: "Deep Q-learning agents on classic control tasks",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Train a deep Q-learning agent",
	Long: `run trains a deep Q-learning agent on cartpole or pendulum.

Discrete action environments are learned with DQN. Continuous action
environments are discretized per dimension and learned with decoupled
Q-networks. With --pixels, the agent observes rendered frames through a
convolutional encoder instead of the environment state.

Every flag can also be set with a DAXQN_ prefixed environment variable
or in a config file.`,
	RunE: runAgent,
}

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"env":                    "env",
	"episode-steps":          "episode_steps",
	"discount":               "discount",
	"seed":                   "seed",
	"pixels":                 "pixels",
	"image-size":             "image_size",
	"bottleneck":             "bottleneck",
	"hidden-sizes":           "hidden_sizes",
	"epsilon":                "epsilon",
	"bins":                   "bins",
	"n-step":                 "n_step",
	"solver":                 "solver",
	"gradient-clip":          "gradient_clip",
	"batch-size":             "batch_size",
	"min-replay":             "min_replay",
	"max-replay":             "max_replay",
	"learning-rate":          "learning_rate",
	"tau":                    "tau",
	"target-update-interval": "target_update_interval",
	"update-period":          "update_period",
	"episodes":               "episodes",
	"max-steps":              "max_steps",
	"log-every":              "log_every",
	"log-level":              "log_level",
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.StringVar(&configFile, "config", "", "Config file (json, yaml or toml)")

	// Environment
	flags.StringVar(&cfg.Env, "env", cfg.Env, "Environment (cartpole, pendulum)")
	flags.IntVar(&cfg.EpisodeSteps, "episode-steps", cfg.EpisodeSteps, "Maximum steps per episode")
	flags.Float64Var(&cfg.Discount, "discount", cfg.Discount, "Environment discount")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")

	// Observations
	flags.BoolVar(&cfg.Pixels, "pixels", cfg.Pixels, "Learn from rendered pixels")
	flags.IntVar(&cfg.ImageSize, "image-size", cfg.ImageSize, "Height and width of pixel observations")
	flags.IntVar(&cfg.Bottleneck, "bottleneck", cfg.Bottleneck, "Vision encoder output size")

	// Agent
	flags.IntSliceVar(&cfg.HiddenSizes, "hidden-sizes", cfg.HiddenSizes, "Hidden layer sizes of the Q-network")
	flags.Float64Var(&cfg.Epsilon, "epsilon", cfg.Epsilon, "Exploration rate")
	flags.IntVar(&cfg.Bins, "bins", cfg.Bins, "Bins per action dimension for continuous actions")
	flags.IntVar(&cfg.NStep, "n-step", cfg.NStep, "Number of steps in n-step returns")
	flags.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "Learner batch size")
	flags.IntVar(&cfg.MinReplay, "min-replay", cfg.MinReplay, "Transitions required before learning")
	flags.IntVar(&cfg.MaxReplay, "max-replay", cfg.MaxReplay, "Replay buffer capacity")
	flags.StringVar(&cfg.Solver, "solver", cfg.Solver, "Solver (Adam, RMSProp, Vanilla)")
	flags.Float64Var(&cfg.LearningRate, "learning-rate", cfg.LearningRate, "Solver step size")
	flags.Float64Var(&cfg.GradientClip, "gradient-clip", cfg.GradientClip, "Gradient clipping value (<= 0 for none)")
	flags.Float64Var(&cfg.Tau, "tau", cfg.Tau, "Polyak averaging rate of the target network")
	flags.IntVar(&cfg.TargetUpdateInterval, "target-update-interval", cfg.TargetUpdateInterval, "Gradient steps between target network updates")
	flags.IntVar(&cfg.UpdatePeriod, "update-period", cfg.UpdatePeriod, "Actor steps between variable fetches")

	// Run
	flags.IntVar(&episodes, "episodes", 100, "Episodes to run (0 for unlimited)")
	flags.IntVar(&maxSteps, "max-steps", 0, "Total environment steps to run (0 for unlimited)")
	flags.IntVar(&logEvery, "log-every", 1, "Log every n episodes")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	for flag, key := range flagKeys {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
	viper.SetEnvPrefix("DAXQN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfig merges the config file, environment and flags into cfg
func loadConfig() error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("could not read config file: %v", err)
		}
	}
	hooks := mapstructure.ComposeDecodeHookFunc(
		initWFnHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := viper.Unmarshal(cfg, viper.DecodeHook(hooks)); err != nil {
		return fmt.Errorf("could not decode config: %v", err)
	}

	episodes = viper.GetInt("episodes")
	maxSteps = viper.GetInt("max_steps")
	logEvery = viper.GetInt("log_every")
	logLevel = viper.GetString("log_level")
	return cfg.Validate()
}

// initWFnHook decodes a weight initializer given in a config file as
//
//	init_wfn:
//	  type: GlorotU
//	  config:
//	    gain: 1.0
func initWFnHook(from, to reflect.Type, data interface{}) (interface{},
	error) {
	if to != reflect.TypeOf(&initwfn.InitWFn{}) &&
		to != reflect.TypeOf(initwfn.InitWFn{}) {
		return data, nil
	}
	if from.Kind() != reflect.Map {
		return data, nil
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("init_wfn: %v", err)
	}
	var init initwfn.InitWFn
	if err := json.Unmarshal(encoded, &init); err != nil {
		return nil, fmt.Errorf("init_wfn: %v", err)
	}
	return &init, nil
}

func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level: %v", err)
	}
	output := zerolog.ConsoleWriter{Out: os.Stdout}
	return zerolog.New(output).Level(level).With().Timestamp().Logger(), nil
}

func runAgent(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	logger.Info().
		Str("env", cfg.Env).
		Bool("pixels", cfg.Pixels).
		Uint64("seed", cfg.Seed).
		Msg("starting agent")

	a, err := agent.New(cfg)
	if err != nil {
		return fmt.Errorf("could not create agent: %v", err)
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info().Msg("shutdown signal received, stopping agent")
		cancel()
	}()

	l := loop.New(a.Env, a.Actor, a.Learner, loop.Config{
		MaxEpisodes: episodes,
		MaxSteps:    maxSteps,
		LogEvery:    logEvery,
	}, logger)

	results, err := l.Run(ctx)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("training failed: %v", err)
	}

	var total float64
	for _, r := range results {
		total += r.Return
	}
	event := logger.Info().
		Int("episodes", len(results)).
		Int("steps", l.Steps()).
		Int("gradient_steps", a.Learner.GradientSteps())
	if len(results) > 0 {
		event = event.Float64("mean_return", total/float64(len(results)))
	}
	event.Msg("agent stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
