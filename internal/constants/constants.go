package constants

// Event names consumed by the development-flow state machine. The full
// transition tables live in the state-machine YAML configs; these constants
// cover the events the orchestration core raises itself.
const (
	// EventSubmit moves a drafted version to scaffolding.
	EventSubmit = "SUBMIT"

	// EventScaffold moves a scaffolding version to reviewing.
	EventScaffold = "SCAFFOLD"

	// EventReject sends a reviewed version back to drafting.
	EventReject = "REJECT"

	// EventApprove moves a reviewed version to ready.
	EventApprove = "APPROVE"

	// EventStart moves a ready version to executing.
	EventStart = "START"

	// EventPause moves an executing version to paused.
	EventPause = "PAUSE"

	// EventResume moves a paused version back to executing.
	EventResume = "RESUME"

	// EventAbort moves an executing or paused version back to ready.
	EventAbort = "ABORT"

	// EventComplete moves an executing version to completed.
	EventComplete = "COMPLETE"

	// EventFail moves a version to the error dead-end.
	EventFail = "FAIL"
)

// State machine config names. The Source resolves these to
// "<name>.yaml" files in the configured state-machine directory.
const (
	// MachineDevelopment is the development-flow machine for versions.
	MachineDevelopment = "development"

	// MachineExecution is the runtime-flow machine for executions.
	MachineExecution = "execution"
)

// TaskDocumentName is the task document file name inside a project
// working directory. The document is the single source of truth for
// task state and is rewritten by the orchestrator after each task.
const TaskDocumentName = "TODO.md"

// ExecutionSchemaVersion is the current Execution record schema version.
const ExecutionSchemaVersion = 1
