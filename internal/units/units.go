// Package units provides shared constants and validation for velocity units
package units

// Unit constants
const (
	MPS  = "mps"
	KMPS = "kmps"
	FTPS = "ftps"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, KMPS, FTPS}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, kmps, ftps"
}

// ToMPS converts a wave speed from the given units to meters per second.
// The sizing pipeline works in m/s throughout; velocity models on disk
// are sometimes stored in km/s or ft/s.
func ToMPS(speed float64, sourceUnits string) float64 {
	switch sourceUnits {
	case KMPS:
		return speed * 1000.0
	case FTPS:
		return speed * 0.3048
	case MPS:
		return speed
	default:
		return speed
	}
}
