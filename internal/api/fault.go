package api

import "errors"

// FaultKind classifies a boundary failure.
type FaultKind int

const (
	// FaultRemote covers server rejections and transport failures alike; the
	// client treats "no response" identically to an explicit error envelope.
	FaultRemote FaultKind = iota
	// FaultAuth is a 401-class failure. It is the only fault that triggers
	// navigation (back to sign-in) as a side effect.
	FaultAuth
	// FaultValidation is a client-side pre-condition failure that never
	// reached the network.
	FaultValidation
)

// Fault is the uniform error carried across the remote boundary. Message is
// human-readable and safe to surface directly.
type Fault struct {
	Kind    FaultKind
	Message string
	Status  int // HTTP status when known, 0 otherwise
	Err     error
}

func (f *Fault) Error() string {
	if f.Message != "" {
		return f.Message
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return "request failed"
}

func (f *Fault) Unwrap() error { return f.Err }

// ValidationFault builds a local pre-condition failure.
func ValidationFault(msg string) *Fault {
	return &Fault{Kind: FaultValidation, Message: msg}
}

// IsAuth reports whether err is a 401-class fault.
func IsAuth(err error) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == FaultAuth
}

// IsValidation reports whether err is a local pre-condition failure.
func IsValidation(err error) bool {
	var f *Fault
	return errors.As(err, &f) && f.Kind == FaultValidation
}
