package generate

// Kind classifies a failed call.
type Kind int

// Failure kinds.
const (
	KindConfigNotFound Kind = iota + 1
	KindConfigIncomplete
	KindNoHomeDirectory
	KindPayloadWriteFailed
	KindProcessNotInvocable
	KindCallFailed
)

func (k Kind) String() string {
	switch k {
	case KindConfigNotFound:
		return "config_not_found"
	case KindConfigIncomplete:
		return "config_incomplete"
	case KindNoHomeDirectory:
		return "no_home_directory"
	case KindPayloadWriteFailed:
		return "payload_write_failed"
	case KindProcessNotInvocable:
		return "process_not_invocable"
	case KindCallFailed:
		return "call_failed"
	default:
		return "unknown"
	}
}

// Error is the single error reported for a failed call.
// Its message is meant for the user; Err keeps the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
