package entity

import "time"

const (
	TaskStatusPending int32 = 0
	TaskStatusPicked  int32 = 1

	TaskNameConnectorInvoke = "connector_invoke"
)

// ProcessTask tracks deferred work scheduled for an attempt, e.g. the
// connector invocation that follows a successful confirmation.
type ProcessTask struct {
	TaskID     string
	TaskName   string
	PaymentID  string
	MerchantID string
	AttemptID  string

	Status     int32
	RetryCount int32
	ScheduleAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
