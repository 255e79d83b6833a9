// Package loop runs an actor, and optionally a learner, in an
// environment.
package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samuelfneumann/daxqn/environment"
	"github.com/samuelfneumann/daxqn/timestep"
	"gonum.org/v1/gonum/mat"
)

// Actor selects actions and observes their outcome
type Actor interface {
	SelectAction(observation mat.Vector) (*mat.VecDense, error)
	ObserveFirst(timestep.TimeStep) error
	Observe(action mat.Vector, next timestep.TimeStep) error
	Update(wait bool) error
}

// Learner takes a learning step. It reports whether a step was taken.
type Learner interface {
	Step() (bool, error)
}

// Config configures an EnvironmentLoop
type Config struct {
	MaxEpisodes int // <= 0 for unlimited
	MaxSteps    int // <= 0 for unlimited

	// LogEvery logs a summary every LogEvery episodes. Each episode is
	// logged at debug level.
	LogEvery int
}

// EpisodeResult summarizes a finished episode
type EpisodeResult struct {
	ID       uuid.UUID
	Return   float64
	Length   int
	Duration time.Duration

	// Truncated is true if the step limit of the loop ended the episode
	Truncated bool
}

// EnvironmentLoop runs episodes of an actor in an environment
type EnvironmentLoop struct {
	env     environment.Environment
	actor   Actor
	learner Learner
	config  Config
	logger  zerolog.Logger

	episodes      int
	steps         int
	learnerSteps  int
	totalDuration time.Duration
}

// New returns a new EnvironmentLoop. learner may be nil.
func New(env environment.Environment, actor Actor, learner Learner,
	config Config, logger zerolog.Logger) *EnvironmentLoop {
	return &EnvironmentLoop{
		env:     env,
		actor:   actor,
		learner: learner,
		config:  config,
		logger:  logger.With().Str("component", "loop").Logger(),
	}
}

// Run runs episodes until the episode or step limit is reached or ctx
// is done.
func (l *EnvironmentLoop) Run(ctx context.Context) ([]EpisodeResult, error) {
	var results []EpisodeResult
	for !l.done() {
		result, err := l.RunEpisode(ctx)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		if l.config.LogEvery > 0 && l.episodes%l.config.LogEvery == 0 {
			l.logger.Info().
				Int("episodes", l.episodes).
				Int("steps", l.steps).
				Int("learner_steps", l.learnerSteps).
				Float64("return", result.Return).
				Dur("elapsed", l.totalDuration).
				Msg("progress")
		}
	}

	l.logger.Info().
		Int("episodes", l.episodes).
		Int("steps", l.steps).
		Msg("loop finished")
	return results, nil
}

func (l *EnvironmentLoop) done() bool {
	if l.config.MaxEpisodes > 0 && l.episodes >= l.config.MaxEpisodes {
		return true
	}
	return l.config.MaxSteps > 0 && l.steps >= l.config.MaxSteps
}

// RunEpisode runs a single episode
func (l *EnvironmentLoop) RunEpisode(ctx context.Context) (EpisodeResult,
	error) {
	result := EpisodeResult{ID: uuid.New()}
	start := time.Now()
	logger := l.logger.With().Str("episode_id", result.ID.String()).Logger()

	step, err := l.env.Reset()
	if err != nil {
		return result, fmt.Errorf("runepisode: could not reset "+
			"environment: %v", err)
	}
	if err := l.actor.ObserveFirst(step); err != nil {
		return result, fmt.Errorf("runepisode: actor could not observe "+
			"first step: %v", err)
	}

	for !step.Last() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if l.config.MaxSteps > 0 && l.steps >= l.config.MaxSteps {
			result.Truncated = true
			break
		}

		action, err := l.actor.SelectAction(step.Observation)
		if err != nil {
			return result, fmt.Errorf("runepisode: %v", err)
		}

		step, _, err = l.env.Step(action)
		if err != nil {
			return result, fmt.Errorf("runepisode: could not step "+
				"environment: %v", err)
		}
		if err := l.actor.Observe(action, step); err != nil {
			return result, fmt.Errorf("runepisode: actor could not "+
				"observe step: %v", err)
		}

		if l.learner != nil {
			stepped, err := l.learner.Step()
			if err != nil {
				return result, fmt.Errorf("runepisode: %v", err)
			}
			if stepped {
				l.learnerSteps++
			}
		}
		if err := l.actor.Update(false); err != nil {
			return result, fmt.Errorf("runepisode: %v", err)
		}

		result.Return += step.Reward
		result.Length++
		l.steps++
	}

	result.Duration = time.Since(start)
	l.totalDuration += result.Duration
	l.episodes++

	logger.Debug().
		Float64("return", result.Return).
		Int("length", result.Length).
		Bool("truncated", result.Truncated).
		Dur("duration", result.Duration).
		Msg("episode finished")

	return result, nil
}

// Episodes returns the number of episodes finished
func (l *EnvironmentLoop) Episodes() int {
	return l.episodes
}

// Steps returns the number of environment steps taken
func (l *EnvironmentLoop) Steps() int {
	return l.steps
}
