package driver

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a conversion phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name      string
	Status    PhaseStatus
	ElapsedMS float64
}

// PhaseObserver receives phase events emitted during ConvertDocument.
// It is called from the goroutine that called ConvertDocument.
type PhaseObserver func(PhaseEvent)

func observe(o PhaseObserver, name string, status PhaseStatus, elapsedMS float64) {
	if o == nil {
		return
	}
	o(PhaseEvent{Name: name, Status: status, ElapsedMS: elapsedMS})
}
