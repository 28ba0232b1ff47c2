package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// scheduleConnectorInvoke enqueues the connector call that follows a
// committed confirmation. Scheduling failures are logged and swallowed: the
// payment transition has already been persisted and must not be rolled back
// over a queueing hiccup.
func (s *PaymentService) scheduleConnectorInvoke(ctx context.Context, paymentData *PaymentData, requeue bool) {
	if paymentData.Intent.Status != types.IntentStatusProcessing {
		return
	}

	attempt := paymentData.Attempt
	now := time.Now().UTC()

	if requeue {
		existing, err := s.taskRepo.FindPending(ctx, entity.TaskNameConnectorInvoke, attempt.PaymentID, attempt.MerchantID, attempt.AttemptID)
		if err != nil {
			s.logger.WithError(err).WithField("payment_id", attempt.PaymentID).Warn("requeue lookup failed")
			return
		}
		if existing != nil {
			existing.RetryCount++
			existing.ScheduleAt = now.Add(s.taskRetryInterval())
			existing.UpdatedAt = now
			if err := s.taskRepo.Update(ctx, existing); err != nil {
				s.logger.WithError(err).WithField("payment_id", attempt.PaymentID).Warn("requeue update failed")
			}
			return
		}
	}

	task := &entity.ProcessTask{
		TaskID:     uuid.NewString(),
		TaskName:   entity.TaskNameConnectorInvoke,
		PaymentID:  attempt.PaymentID,
		MerchantID: attempt.MerchantID,
		AttemptID:  attempt.AttemptID,
		Status:     entity.TaskStatusPending,
		ScheduleAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.taskRepo.Insert(ctx, task); err != nil {
		s.logger.WithError(err).WithField("payment_id", attempt.PaymentID).Warn("connector invoke scheduling failed")
	}
}

// RunDueTasksBatch picks one batch of due tasks and marks them picked for the
// connector worker. It keeps going past individual failures and reports the
// first error once the whole batch has been walked.
func (s *PaymentService) RunDueTasksBatch(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	due, err := s.taskRepo.ListDue(ctx, now, s.taskBatchSize())
	if err != nil {
		return 0, err
	}

	picked := 0
	var firstErr error
	for _, task := range due {
		task.Status = entity.TaskStatusPicked
		task.UpdatedAt = now
		if err := s.taskRepo.Update(ctx, task); err != nil {
			s.logger.WithError(err).WithField("task_id", task.TaskID).Error("task pick failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		picked++
	}
	return picked, firstErr
}
