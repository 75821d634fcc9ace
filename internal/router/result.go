package router

import "github.com/ducminhle1904/signal-trade-agent/pkg/types"

// Outcome tags the result of dispatching one signal. Business-rule
// rejections are declined results, not errors; only broker or
// infrastructure failures are tagged failed.
type Outcome string

const (
	// OutcomeExecuted means the broker call succeeded and the book was
	// updated.
	OutcomeExecuted Outcome = "executed"
	// OutcomeDeclined means a policy check rejected the signal before
	// any broker call (invalid shape, limits, confidence, no position).
	OutcomeDeclined Outcome = "declined"
	// OutcomeFailed means the broker call itself failed; the book was
	// not mutated.
	OutcomeFailed Outcome = "failed"
	// OutcomeWatching is returned for entry alerts: informative only.
	OutcomeWatching Outcome = "watching"
	// OutcomeIgnored is the terminal no-op branch for unknown signals.
	OutcomeIgnored Outcome = "ignored"
)

// Result is what every dispatch returns to the message-handling caller.
type Result struct {
	Outcome   Outcome
	Reason    string
	Execution *types.TradeExecution
	Position  *types.Position
}

// Executed reports whether the signal resulted in a broker execution.
func (r *Result) Executed() bool {
	return r.Outcome == OutcomeExecuted
}

func declined(reason string) *Result {
	return &Result{Outcome: OutcomeDeclined, Reason: reason}
}

func failed(reason string, execution *types.TradeExecution) *Result {
	return &Result{Outcome: OutcomeFailed, Reason: reason, Execution: execution}
}
