// Package agent assembles a training agent, made of an environment, a
// feed forward actor, an n-step adder, a replay buffer, a DeepQ learner
// and the variable client connecting learner and actor, from a Config.
package agent

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/daxqn/initwfn"
	"github.com/samuelfneumann/daxqn/solver"
)

// Environments which can be created
const (
	Cartpole = "cartpole"
	Pendulum = "pendulum"
)

// Config configures an agent
type Config struct {
	// Environment
	Env          string  `mapstructure:"env"`
	EpisodeSteps int     `mapstructure:"episode_steps"`
	Discount     float64 `mapstructure:"discount"`
	Seed         uint64  `mapstructure:"seed"`

	// Pixel observations
	Pixels     bool `mapstructure:"pixels"`
	ImageSize  int  `mapstructure:"image_size"`
	Bottleneck int  `mapstructure:"bottleneck"`

	// Q-network and policy
	HiddenSizes []int            `mapstructure:"hidden_sizes"`
	InitWFn     *initwfn.InitWFn `mapstructure:"init_wfn"`
	Epsilon     float64          `mapstructure:"epsilon"`
	Bins        int              `mapstructure:"bins"`

	// Experience
	NStep     int `mapstructure:"n_step"`
	BatchSize int `mapstructure:"batch_size"`
	MinReplay int `mapstructure:"min_replay"`
	MaxReplay int `mapstructure:"max_replay"`

	// Learner
	Solver               string  `mapstructure:"solver"`
	LearningRate         float64 `mapstructure:"learning_rate"`
	GradientClip         float64 `mapstructure:"gradient_clip"` // <= 0 for none
	Tau                  float64 `mapstructure:"tau"`
	TargetUpdateInterval int     `mapstructure:"target_update_interval"`
	UpdatePeriod         int     `mapstructure:"update_period"`
}

// Default returns a config with sensible defaults
func Default() *Config {
	init, err := initwfn.NewHeU(math.Sqrt2)
	if err != nil {
		panic(fmt.Sprintf("default: %v", err))
	}

	return &Config{
		Env:          Cartpole,
		EpisodeSteps: 500,
		Discount:     0.99,
		Seed:         1,

		Pixels:     false,
		ImageSize:  84,
		Bottleneck: 50,

		HiddenSizes: []int{64, 64},
		InitWFn:     init,
		Epsilon:     0.1,
		Bins:        11,

		NStep:     3,
		BatchSize: 32,
		MinReplay: 500,
		MaxReplay: 5000,

		Solver:               string(solver.Adam),
		LearningRate:         1e-3,
		GradientClip:         -1,
		Tau:                  0.01,
		TargetUpdateInterval: 1,
		UpdatePeriod:         10,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Env != Cartpole && c.Env != Pendulum {
		return fmt.Errorf("validate: unknown environment %q", c.Env)
	}
	if c.EpisodeSteps < 1 {
		return fmt.Errorf("validate: episode_steps must be positive")
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1] "+
			"\n\thave(%v)", c.Discount)
	}
	if c.Pixels && (c.ImageSize < 1 || c.Bottleneck < 1) {
		return fmt.Errorf("validate: image_size and bottleneck must be " +
			"positive")
	}
	for _, size := range c.HiddenSizes {
		if size < 1 {
			return fmt.Errorf("validate: hidden layer sizes must be "+
				"positive \n\thave(%v)", c.HiddenSizes)
		}
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: a weight initializer is required")
	}
	switch solver.Type(c.Solver) {
	case solver.Adam, solver.RMSProp, solver.Vanilla:
	default:
		return fmt.Errorf("validate: unknown solver %q", c.Solver)
	}
	if c.NStep < 1 {
		return fmt.Errorf("validate: n_step must be positive")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning_rate must be positive")
	}
	if c.UpdatePeriod < 1 {
		return fmt.Errorf("validate: update_period must be positive")
	}
	return nil
}
