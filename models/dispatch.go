package models

import "time"

type DispatchStatus string

const (
	DispatchStatusSucceeded DispatchStatus = "succeeded"
	DispatchStatusFailed    DispatchStatus = "failed"
)

// DispatchFailure categorizes why delivery to a wiki failed.
type DispatchFailure string

const (
	DispatchFailureNone     DispatchFailure = ""
	DispatchFailureNetwork  DispatchFailure = "network"
	DispatchFailureRejected DispatchFailure = "rejected"
	DispatchFailureTimeout  DispatchFailure = "timeout"
)

// DispatchOutcome is the result of delivering one command to one relation.
type DispatchOutcome struct {
	Relation   *Relation
	Status     DispatchStatus
	Failure    DispatchFailure
	StatusCode int
	Err        error
	Duration   time.Duration
}

func (o DispatchOutcome) Succeeded() bool {
	return o.Status == DispatchStatusSucceeded
}

func NewSucceededOutcome(relation *Relation, statusCode int, duration time.Duration) DispatchOutcome {
	return DispatchOutcome{
		Relation:   relation,
		Status:     DispatchStatusSucceeded,
		StatusCode: statusCode,
		Duration:   duration,
	}
}

func NewFailedOutcome(
	relation *Relation,
	failure DispatchFailure,
	statusCode int,
	err error,
	duration time.Duration,
) DispatchOutcome {
	return DispatchOutcome{
		Relation:   relation,
		Status:     DispatchStatusFailed,
		Failure:    failure,
		StatusCode: statusCode,
		Err:        err,
		Duration:   duration,
	}
}

// DispatchReport is the aggregated result of one fan-out. Notice is the single
// ephemeral message to show the requester, nil when everything succeeded.
type DispatchReport struct {
	Succeeded []DispatchOutcome
	Failed    []DispatchOutcome
	Notice    *Message
}
