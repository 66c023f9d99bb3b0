package fuzzy

import (
	"fmt"
	"math"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/monitoring"
)

// Feature names the engine pulls from a parameter artifact, and the
// conventional term names of each variable.
const (
	AccelFeature = "impact_g"
	GyroFeature  = "omega_peak"
	ScoreFeature = "fall_score"
)

// Rule maps a conjunction of one acceleration term and one rotation term to
// an output term. Rule strength is the min of the two antecedent degrees.
type Rule struct {
	Accel string
	Gyro  string
	Out   string
}

// DefaultRules is the fixed hand-authored rule base. Rules are
// order-independent; each fires on its own inputs.
func DefaultRules() []Rule {
	return []Rule{
		{Accel: "high", Gyro: "fast", Out: "high"},
		{Accel: "high", Gyro: "medium", Out: "medium"},
		{Accel: "medium", Gyro: "fast", Out: "medium"},
		{Accel: "low", Gyro: "fast", Out: "medium"},
		{Accel: "medium", Gyro: "medium", Out: "medium"},
		{Accel: "medium", Gyro: "slow", Out: "low"},
		{Accel: "low", Gyro: "slow", Out: "low"},
		{Accel: "high", Gyro: "slow", Out: "medium"},
	}
}

// DefaultOutputVariable returns the hand-authored fall-score universe.
// Calibration embeds it in the artifact; the engine falls back to it when an
// artifact predates the fall_score variable.
func DefaultOutputVariable() Variable {
	return Variable{
		Name: ScoreFeature,
		Lo:   0,
		Hi:   1,
		Sets: map[string]Triangle{
			"low":    {A: 0.0, B: 0.2, C: 0.5},
			"medium": {A: 0.3, B: 0.5, C: 0.7},
			"high":   {A: 0.6, B: 0.85, C: 1.0},
		},
	}
}

// defaultResolution matches a 0.01 step over the unit output universe.
const defaultResolution = 101

// Option adjusts engine construction.
type Option func(*Engine) error

// WithResolution sets the number of points the output universe is
// discretized into for defuzzification. Fewer points trade centroid
// precision for cheaper evaluation; at least two are required.
func WithResolution(n int) Option {
	return func(e *Engine) error {
		if n < 2 {
			return fmt.Errorf("resolution must be at least 2, got %d", n)
		}
		e.resolution = n
		return nil
	}
}

// negligibleMass is the aggregated-area floor below which defuzzification
// is considered to have no support and the safe default applies.
const negligibleMass = 1e-9

// Engine is a fixed-structure Mamdani evaluator over two inputs. It is a
// pure function of its inputs plus the parameter set and is safe for
// concurrent use; only the fallback counter mutates, atomically.
type Engine struct {
	accel Variable
	gyro  Variable
	out   Variable
	rules []Rule

	resolution int

	// Fallbacks counts evaluations that returned the safe default score
	// because no rule fired or the computation degenerated. The score 0
	// contract is deliberate (availability over correctness for a safety
	// consumer); the counter keeps it from being silently wrong.
	Fallbacks monitoring.Counter
}

// NewEngine builds an engine from a calibration artifact and a rule list.
// Every rule term must resolve against the corresponding variable.
func NewEngine(ps *ParameterSet, rules []Rule, opts ...Option) (*Engine, error) {
	accel, ok := ps.Variable(AccelFeature)
	if !ok {
		return nil, fmt.Errorf("parameter set has no %q variable", AccelFeature)
	}
	gyro, ok := ps.Variable(GyroFeature)
	if !ok {
		return nil, fmt.Errorf("parameter set has no %q variable", GyroFeature)
	}
	out, ok := ps.Variable(ScoreFeature)
	if !ok {
		out = DefaultOutputVariable()
	}
	return NewEngineFromVariables(accel, gyro, out, rules, opts...)
}

// NewEngineFromVariables builds an engine from explicit variables, which
// lets tests drive it with synthetic partitions.
func NewEngineFromVariables(accel, gyro, out Variable, rules []Rule, opts ...Option) (*Engine, error) {
	for _, v := range []Variable{accel, gyro, out} {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("empty rule base")
	}
	for _, r := range rules {
		if _, ok := accel.Sets[r.Accel]; !ok {
			return nil, fmt.Errorf("rule references unknown %s term %q", accel.Name, r.Accel)
		}
		if _, ok := gyro.Sets[r.Gyro]; !ok {
			return nil, fmt.Errorf("rule references unknown %s term %q", gyro.Name, r.Gyro)
		}
		if _, ok := out.Sets[r.Out]; !ok {
			return nil, fmt.Errorf("rule references unknown output term %q", r.Out)
		}
	}
	e := &Engine{
		accel:      accel,
		gyro:       gyro,
		out:        out,
		rules:      rules,
		resolution: defaultResolution,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Evaluate computes the fall score for an acceleration magnitude (g) and a
// rotation-rate magnitude (deg/s). Inputs outside the universes are clamped
// silently. The score is in [0, 1]. No failure escapes: any internal
// numeric degeneration maps to the safe default 0, counted and logged.
func (e *Engine) Evaluate(accelG, gyroDPS float64) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			e.Fallbacks.Inc()
			monitoring.Logf("fuzzy: inference failure for accel=%.3f gyro=%.1f: %v", accelG, gyroDPS, r)
			score = 0
		}
	}()

	a := e.accel.Clamp(accelG)
	g := e.gyro.Clamp(gyroDPS)

	// Rule strengths aggregate per output term: the cap applied to an
	// output set is the max strength among the rules mapping to it.
	caps := make(map[string]float64, len(e.out.Sets))
	for _, r := range e.rules {
		strength := math.Min(e.accel.Membership(r.Accel, a), e.gyro.Membership(r.Gyro, g))
		if strength > caps[r.Out] {
			caps[r.Out] = strength
		}
	}

	// Centroid of the pointwise-max aggregation over a dense discretization
	// of the output universe.
	var num, den float64
	step := (e.out.Hi - e.out.Lo) / float64(e.resolution-1)
	for i := 0; i < e.resolution; i++ {
		x := e.out.Lo + float64(i)*step
		var mu float64
		for term, limit := range caps {
			m := math.Min(limit, e.out.Membership(term, x))
			if m > mu {
				mu = m
			}
		}
		num += x * mu
		den += mu
	}

	if den < negligibleMass || math.IsNaN(num) || math.IsInf(num, 0) {
		e.Fallbacks.Inc()
		monitoring.Logf("fuzzy: no rule fired for accel=%.3f gyro=%.1f, returning safe default", accelG, gyroDPS)
		return 0
	}
	return num / den
}

// Rules returns a copy of the rule base.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Output returns the engine's output variable.
func (e *Engine) Output() Variable { return e.out }

// Resolution returns the defuzzification grid size.
func (e *Engine) Resolution() int { return e.resolution }
