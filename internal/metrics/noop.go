package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder.
// All methods are empty, providing zero overhead when metrics are disabled.
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordRegistration(result string)                    {}
func (n *NoopMetrics) RecordLogin(success bool)                            {}
func (n *NoopMetrics) RecordTokenIssued(generationTime time.Duration)      {}
func (n *NoopMetrics) RecordTokenValidation(result string)                 {}
func (n *NoopMetrics) RecordTaskOperation(operation, result string)        {}
func (n *NoopMetrics) SetUsersCount(count int)                             {}
func (n *NoopMetrics) SetTasksCount(count int)                             {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)           {}
