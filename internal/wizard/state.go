package wizard

// State tracks where a workflow invocation currently is.
type State int

const (
	// StateIdle means no workflow has started.
	StateIdle State = iota

	// StateInitialized means collaborators are wired and a workflow began.
	StateInitialized

	// StateDiscovering means registry metadata is being fetched.
	StateDiscovering

	// StateConfiguring means a configure workflow is mutating documents.
	StateConfiguring

	// StateUpdating means an update workflow is mutating documents.
	StateUpdating

	// StateRemoving means a remove workflow is mutating documents.
	StateRemoving

	// StateListing means a read-only list is in progress.
	StateListing

	// StateValidating means documents are being validated.
	StateValidating

	// StateAuditing means the security auditor is running.
	StateAuditing

	// StateDone means the last workflow completed successfully.
	StateDone

	// StateFailed means the last workflow failed; any partial mutation was
	// rolled back.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitialized:
		return "initialized"
	case StateDiscovering:
		return "discovering"
	case StateConfiguring:
		return "configuring"
	case StateUpdating:
		return "updating"
	case StateRemoving:
		return "removing"
	case StateListing:
		return "listing"
	case StateValidating:
		return "validating"
	case StateAuditing:
		return "auditing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
