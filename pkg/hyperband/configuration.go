package hyperband

import (
	"fmt"
	"sort"
	"strings"
)

// Configuration is one sampled hyperparameter setting: the raw unit vector
// drawn by the sampler plus the concrete values it maps to. Configurations
// are immutable once sampled and live only for the bracket that drew them.
type Configuration struct {
	id     string
	unit   []float64
	values map[string]float64
}

// ID returns the trial identifier assigned at sample time.
func (c *Configuration) ID() string {
	return c.id
}

// Value returns the concrete value of the named hyperparameter. Unknown
// names return zero; the space defines what exists.
func (c *Configuration) Value(name string) float64 {
	return c.values[name]
}

// Values returns a copy of all concrete hyperparameter values.
func (c *Configuration) Values() map[string]float64 {
	out := make(map[string]float64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Unit returns a copy of the raw unit vector the configuration was drawn
// from.
func (c *Configuration) Unit() []float64 {
	out := make([]float64, len(c.unit))
	copy(out, c.unit)
	return out
}

// String renders the concrete values in a stable order for logs.
func (c *Configuration) String() string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%.6g", name, c.values[name])
	}
	return strings.Join(parts, " ")
}
