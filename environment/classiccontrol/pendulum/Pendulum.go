// Package pendulum implements the pendulum swing-up classic control
// environment
package pendulum

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/daxqn/environment"
	"github.com/samuelfneumann/daxqn/timestep"
	"github.com/samuelfneumann/daxqn/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// default physical constants
const (
	AngleBound  float64 = math.Pi // +/- Angle bounds
	SpeedBound  float64 = 8.0     // +/- Speed bounds
	TorqueBound float64 = 2.0     // +/- Torque bounds

	MaxContinuousAction float64 = TorqueBound
	MinContinuousAction float64 = -MaxContinuousAction

	dt              float64 = 0.05
	Gravity         float64 = 9.8
	Mass            float64 = 1.0
	Length          float64 = 1.0
	ActionDims      int     = 1
	ObservationDims int     = 2
)

// Pendulum implements the classic control environment Pendulum. In this
// environment, a pendulum is attached to a fixed base. An agent can
// swing the pendulum back and forth, but the swinging torque is
// underpowered. In order to be able to swing the pendulum straight up,
// it must first be rocked back and forth, using the momentum to
// gradually climb higher.
//
// State features consist of the angle of the pendulum from the positive
// y-axis, normalized to [-π, π), and the angular velocity of the
// pendulum, clipped to [-SpeedBound, SpeedBound].
//
// Actions are continuous and 1-dimensional and determine the torque
// applied at the base. Actions are clipped to [-2, 2]. The reward is
// the negative cost -(θ² + 0.1θ̇² + 0.001u²). Episodes only end when
// the Ender says so.
type Pendulum struct {
	environment.Starter
	environment.Ender
	lastStep timestep.TimeStep
	discount float64
}

// New creates and returns a new Pendulum environment
func New(s environment.Starter, e environment.Ender,
	discount float64) *Pendulum {
	return &Pendulum{Starter: s, Ender: e, discount: discount}
}

// Reset resets the environment to a new starting state
func (p *Pendulum) Reset() (timestep.TimeStep, error) {
	state := p.Start()
	if state.Len() != ObservationDims {
		return timestep.TimeStep{}, fmt.Errorf("reset: invalid starting "+
			"state \n\twant(%v)\n\thave(%v)", ObservationDims, state.Len())
	}

	obs := mat.NewVecDense(ObservationDims, []float64{
		normalizeAngle(state.AtVec(0)),
		floatutils.Clip(state.AtVec(1), -SpeedBound, SpeedBound),
	})
	p.lastStep = timestep.New(timestep.First, 0, p.discount, obs, 0)
	return p.lastStep, nil
}

// Step takes one environmental step given action a and returns the next
// timestep and whether or not the episode has ended.
func (p *Pendulum) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if p.lastStep.Observation == nil {
		return timestep.TimeStep{}, false, fmt.Errorf("step: environment " +
			"must be reset before stepping")
	}
	if action.Len() != ActionDims {
		return timestep.TimeStep{}, false, fmt.Errorf("step: actions should "+
			"be 1-dimensional \n\twant(%v)\n\thave(%v)", ActionDims,
			action.Len())
	}

	torque := floatutils.Clip(action.AtVec(0), MinContinuousAction,
		MaxContinuousAction)

	th := p.lastStep.Observation.AtVec(0)
	thDot := p.lastStep.Observation.AtVec(1)

	cost := th*th + 0.1*thDot*thDot + 0.001*torque*torque

	thDot += (3*Gravity/(2*Length)*math.Sin(th) +
		3.0/(Mass*Length*Length)*torque) * dt
	thDot = floatutils.Clip(thDot, -SpeedBound, SpeedBound)
	th = normalizeAngle(th + thDot*dt)

	obs := mat.NewVecDense(ObservationDims, []float64{th, thDot})
	nextStep := timestep.New(timestep.Mid, -cost, p.discount, obs,
		p.lastStep.Number+1)
	if p.Ender != nil {
		p.End(&nextStep)
	}

	p.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// ActionSpec returns the action specification of the environment
func (p *Pendulum) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{MinContinuousAction})
	upperBound := mat.NewVecDense(ActionDims, []float64{MaxContinuousAction})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment
func (p *Pendulum) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)
	lowerBound := mat.NewVecDense(ObservationDims,
		[]float64{-AngleBound, -SpeedBound})
	upperBound := mat.NewVecDense(ObservationDims,
		[]float64{AngleBound, SpeedBound})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (p *Pendulum) DiscountSpec() environment.Spec {
	return environment.NewDiscountSpec(p.discount)
}

// RewardSpec returns the reward specification of the environment
func (p *Pendulum) RewardSpec() environment.Spec {
	maxCost := AngleBound*AngleBound + 0.1*SpeedBound*SpeedBound +
		0.001*TorqueBound*TorqueBound
	return environment.NewRewardSpec(-maxCost, 0)
}

// Render draws the pendulum onto dc
func (p *Pendulum) Render(dc *gg.Context) {
	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if p.lastStep.Observation == nil {
		return
	}
	th := p.lastStep.Observation.AtVec(0)
	r := math.Min(w, h) * 0.4

	dc.SetRGB(0.8, 0.3, 0.3)
	dc.SetLineWidth(math.Max(1, w/20))
	dc.DrawLine(w/2, h/2, w/2+r*math.Sin(th), h/2-r*math.Cos(th))
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.DrawCircle(w/2, h/2, math.Max(1, w/40))
	dc.Fill()
}

func (p *Pendulum) String() string {
	if p.lastStep.Observation == nil {
		return "Pendulum  |  not reset"
	}
	str := "Pendulum  |  theta: %v  |  theta dot: %v"
	theta := p.lastStep.Observation.AtVec(0)
	thetadot := p.lastStep.Observation.AtVec(1)

	return fmt.Sprintf(str, theta, thetadot)
}

// normalizeAngle wraps an angle into [-π, π)
func normalizeAngle(th float64) float64 {
	return math.Mod(math.Mod(th+math.Pi, 2*math.Pi)+2*math.Pi,
		2*math.Pi) - math.Pi
}
