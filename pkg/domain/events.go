package domain

// NodeEvent describes a node visited while compiling.
type NodeEvent struct {
	NodeID       string
	DefinitionID string
	EventName    string
	// Exec is true for exec-chain emission, false for value evaluation.
	Exec bool
}

// CompileEvent summarises one finished compile.
type CompileEvent struct {
	Entries int
	Bytes   int
	Err     error
}

// LifecycleHooks defines callbacks for compiler observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnNodeEmit      func(*NodeEvent)
	OnCompileFinish func(*CompileEvent)
}
