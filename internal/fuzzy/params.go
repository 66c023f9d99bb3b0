package fuzzy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/stats"
)

// VariableParams is the persisted form of one linguistic variable: its
// universe, its named trimf triples, and the distribution statistics they
// were derived from. Class percentiles and the decision threshold are only
// present for threshold-policy artifacts; summaries of empty classes are
// omitted entirely rather than serialized as NaN.
type VariableParams struct {
	Universe         [2]float64               `json:"universe"`
	Trimf            map[string]Triangle      `json:"trimf"`
	Percentiles      *stats.Summary           `json:"percentiles,omitempty"`
	ClassPercentiles map[string]stats.Summary `json:"class_percentiles,omitempty"`
	Threshold        *float64                 `json:"threshold,omitempty"`
}

// Variable materializes the persisted parameters into an engine-ready
// Variable.
func (vp VariableParams) Variable(name string) Variable {
	sets := make(map[string]Triangle, len(vp.Trimf))
	for k, t := range vp.Trimf {
		sets[k] = t
	}
	return Variable{Name: name, Lo: vp.Universe[0], Hi: vp.Universe[1], Sets: sets}
}

// ParameterSet is the calibration artifact: the exclusive contract between
// the offline pipeline and the inference engine.
type ParameterSet struct {
	Policy     Policy                    `json:"policy"`
	SampleRate float64                   `json:"sampling_rate_hz"`
	Windows    int                       `json:"windows"`
	Variables  map[string]VariableParams `json:"variables"`
}

// VariableNames returns the feature names in sorted order.
func (ps *ParameterSet) VariableNames() []string {
	names := make([]string, 0, len(ps.Variables))
	for n := range ps.Variables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Variable looks up one feature's parameters as an engine-ready Variable.
func (ps *ParameterSet) Variable(name string) (Variable, bool) {
	vp, ok := ps.Variables[name]
	if !ok {
		return Variable{}, false
	}
	return vp.Variable(name), true
}

// Marshal renders the artifact as indented JSON. Map keys serialize in
// sorted order, so identical inputs produce byte-identical artifacts.
func (ps *ParameterSet) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ps); err != nil {
		return nil, fmt.Errorf("failed to encode parameter set: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the artifact to path.
func (ps *ParameterSet) Save(path string) error {
	data, err := ps.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write parameter set: %w", err)
	}
	return nil
}

// Load reads and validates a parameter artifact.
func Load(path string) (*ParameterSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter set: %w", err)
	}
	var ps ParameterSet
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("failed to parse parameter set: %w", err)
	}
	for name := range ps.Variables {
		v, _ := ps.Variable(name)
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("invalid parameter set: %w", err)
		}
	}
	return &ps, nil
}
