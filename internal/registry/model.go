// internal/registry/model.go
package registry

import "fmt"

// Model identifies the FLAIR variant the unit was configured with.
// The model decides which registers exist and the flow ceiling in m³/h.
type Model int

const (
	Flair325 Model = iota
	Flair325Plus
	Flair350
	Flair400
)

// ParseModel parses the config-file model identifier.
func ParseModel(s string) (Model, error) {
	switch s {
	case "flair_325":
		return Flair325, nil
	case "flair_325_plus":
		return Flair325Plus, nil
	case "flair_350":
		return Flair350, nil
	case "flair_400":
		return Flair400, nil
	default:
		return 0, fmt.Errorf("registry: unsupported model %q", s)
	}
}

func (m Model) String() string {
	switch m {
	case Flair325:
		return "FLAIR 325"
	case Flair325Plus:
		return "FLAIR 325 Plus"
	case Flair350:
		return "FLAIR 350"
	case Flair400:
		return "FLAIR 400"
	default:
		return "unknown"
	}
}

// MaxFlow is the model's flow ceiling in m³/h. It bounds every flow
// register, including the modbus flow setpoint.
func (m Model) MaxFlow() float64 {
	switch m {
	case Flair350:
		return 350
	case Flair400:
		return 400
	default:
		return 325
	}
}

// hasCO2 reports whether the model carries the CO2 sensor bus.
func (m Model) hasCO2() bool {
	return m == Flair325Plus || m == Flair400
}
