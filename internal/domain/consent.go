package domain

type ConsentState string

const (
	ConsentPending ConsentState = "pending"
	ConsentGranted ConsentState = "granted"
	ConsentDenied  ConsentState = "denied"
)

func (s ConsentState) Decided() bool {
	return s == ConsentGranted || s == ConsentDenied
}

// ParseConsentState maps a stored value to a state. Anything unknown is
// treated as undecided.
func ParseConsentState(v string) ConsentState {
	switch ConsentState(v) {
	case ConsentGranted:
		return ConsentGranted
	case ConsentDenied:
		return ConsentDenied
	default:
		return ConsentPending
	}
}
