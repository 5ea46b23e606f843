package classify

// Code is the outcome of one card analysis.
type Code string

// Result codes. Every analysis ends in exactly one of these.
const (
	Positive     Code = "POSITV"
	Negative     Code = "NEGITV"
	Inconclusive Code = "INCONC"
	BadPositive  Code = "BADPOS"
	BadNegative  Code = "BADNEG"
	BadSwatches  Code = "BADSWC"
	BadMarkers   Code = "BADFPS"
	BadSamples   Code = "BADSMP"
	Error        Code = "ERROR"

	// Unknown is only produced when a sampled value is NaN.
	Unknown Code = "UNKNOWN"
)

// Category groups codes by where the analysis stopped.
type Category string

const (
	CategoryResult        Category = "result"
	CategoryDetection     Category = "detection"
	CategoryCalibration   Category = "calibration"
	CategorySample        Category = "sample"
	CategoryConfiguration Category = "configuration"
	CategoryInternal      Category = "internal"
)

// Codes lists every code in decision order.
func Codes() []Code {
	return []Code{
		Error, BadSwatches, BadSamples, BadPositive, BadNegative,
		Positive, Inconclusive, Negative, BadMarkers, Unknown,
	}
}

// Category reports which stage of the analysis produced c.
func (c Code) Category() Category {
	switch c {
	case Positive, Negative, Inconclusive:
		return CategoryResult
	case BadMarkers:
		return CategoryDetection
	case BadSwatches:
		return CategoryCalibration
	case BadSamples, BadPositive, BadNegative:
		return CategorySample
	case Error:
		return CategoryConfiguration
	default:
		return CategoryInternal
	}
}

// Conclusive reports whether c is a positive or negative reading.
func (c Code) Conclusive() bool {
	return c == Positive || c == Negative
}

// Retake reports whether a new photo of the same card may succeed.
func (c Code) Retake() bool {
	return c == BadMarkers || c == BadSwatches
}

// FreshCard reports whether the card itself is unusable and the test must be
// repeated with a new one.
func (c Code) FreshCard() bool {
	switch c {
	case Inconclusive, BadNegative, BadPositive, BadSamples:
		return true
	}
	return false
}

// Valid reports whether c is one of the defined codes.
func (c Code) Valid() bool {
	for _, k := range Codes() {
		if c == k {
			return true
		}
	}
	return false
}
