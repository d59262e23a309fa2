package emission

// Strategy converts a vehicle's characteristic parameter into an emission
// level. Implementations must be pure and safe for concurrent use: strategies
// are shared by reference across every vehicle of the same category.
type Strategy interface {
	Calculate(param float64) float64
}

// DefaultGasCoefficient is the emission factor applied per cc of engine
// displacement when no coefficient is configured.
const DefaultGasCoefficient = 0.1

// GasStrategy estimates the emission level of a combustion vehicle from its
// engine displacement in cc.
type GasStrategy struct {
	Coefficient float64
}

// NewGasStrategy returns a GasStrategy with the given coefficient. A zero or
// negative coefficient falls back to DefaultGasCoefficient.
func NewGasStrategy(coefficient float64) GasStrategy {
	if coefficient <= 0 {
		coefficient = DefaultGasCoefficient
	}
	return GasStrategy{Coefficient: coefficient}
}

func (s GasStrategy) Calculate(displacementCC float64) float64 {
	return displacementCC * s.Coefficient
}

// ElectricStrategy models zero-emission vehicles. The battery capacity is
// accepted for interface symmetry but does not influence the result.
type ElectricStrategy struct{}

func (ElectricStrategy) Calculate(float64) float64 { return 0 }
