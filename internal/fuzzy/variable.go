package fuzzy

import (
	"fmt"
	"sort"
)

// Variable is one linguistic variable: a bounded universe partitioned into
// named triangular sets. The term table is data, not code, so the engine can
// be exercised against synthetic parameter sets.
type Variable struct {
	Name string
	Lo   float64
	Hi   float64
	Sets map[string]Triangle
}

// Membership returns the degree of x in the named set. Unknown sets have
// zero membership.
func (v Variable) Membership(set string, x float64) float64 {
	t, ok := v.Sets[set]
	if !ok {
		return 0
	}
	return t.Membership(x)
}

// Clamp restricts x to the variable's universe.
func (v Variable) Clamp(x float64) float64 {
	return clamp(x, v.Lo, v.Hi)
}

// SetNames returns the set names in sorted order.
func (v Variable) SetNames() []string {
	names := make([]string, 0, len(v.Sets))
	for n := range v.Sets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks universe ordering and that every set lies inside it.
func (v Variable) Validate() error {
	if v.Lo >= v.Hi {
		return fmt.Errorf("variable %q: universe [%v, %v] is empty", v.Name, v.Lo, v.Hi)
	}
	if len(v.Sets) == 0 {
		return fmt.Errorf("variable %q: no membership sets", v.Name)
	}
	for name, t := range v.Sets {
		if !t.Valid() {
			return fmt.Errorf("variable %q set %q: bounds out of order [%v, %v, %v]",
				v.Name, name, t.A, t.B, t.C)
		}
		if t.A < v.Lo || t.C > v.Hi {
			return fmt.Errorf("variable %q set %q: [%v, %v, %v] escapes universe [%v, %v]",
				v.Name, name, t.A, t.B, t.C, v.Lo, v.Hi)
		}
	}
	return nil
}
