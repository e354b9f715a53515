// Package tracing provides observers an interpreter can drive during execution.
package tracing

import (
	coreTypes "github.com/ethereum/go-ethereum/core/types"
)

// LogCollector accumulates the events emitted during a single execution, preserving
// emission order. Interpreter implementations create one per invocation, feed it through
// their tracing hooks, and surface the collected logs in their ExecutionResult; the
// collector itself is not retained across calls.
type LogCollector struct {
	logs []*coreTypes.Log
}

// NewLogCollector creates an empty LogCollector.
func NewLogCollector() *LogCollector {
	return &LogCollector{}
}

// OnLog records an emitted event. It matches the signature of go-ethereum's tracing log
// hook so an interpreter built on geth can attach it directly.
func (c *LogCollector) OnLog(log *coreTypes.Log) {
	c.logs = append(c.logs, log)
}

// Logs returns the collected events in emission order.
func (c *LogCollector) Logs() []*coreTypes.Log {
	return c.logs
}
