package clauses

// RiskLabel is the tri-state verdict assigned to a clause evaluation.
type RiskLabel string

// Risk labels in ascending severity.
const (
	RiskAcceptable   RiskLabel = "acceptable"
	RiskAmbiguous    RiskLabel = "ambiguous"
	RiskUnacceptable RiskLabel = "unacceptable"
)

// Valid reports whether l is a recognized risk label.
func (l RiskLabel) Valid() bool {
	switch l {
	case RiskAcceptable, RiskAmbiguous, RiskUnacceptable:
		return true
	}
	return false
}

// Rank returns the ordinal severity of the label: acceptable < ambiguous < unacceptable.
func (l RiskLabel) Rank() int {
	switch l {
	case RiskAcceptable:
		return 0
	case RiskAmbiguous:
		return 1
	case RiskUnacceptable:
		return 2
	}
	return -1
}
