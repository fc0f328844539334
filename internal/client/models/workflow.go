package models

// WorkflowKind identifies a two-step remote flow.
type WorkflowKind int

const (
	Registration WorkflowKind = iota + 1
	PasswordReset
)

func (k WorkflowKind) String() string {
	switch k {
	case Registration:
		return "registration"
	case PasswordReset:
		return "password reset"
	default:
		return "unknown"
	}
}

// PendingWorkflow remembers what step 1 of a flow established so step 2 can
// complete it. StashedPassword is only set for Registration and is used to
// sign the new user in once the account is confirmed.
type PendingWorkflow struct {
	Kind            WorkflowKind
	UserName        string
	StashedPassword string
}
