package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
)

var ErrTaskNotFound = errors.New("process task not found")

type ProcessTaskRepository struct {
	store store
}

func NewProcessTaskRepository(primary, replica DBTX) *ProcessTaskRepository {
	return &ProcessTaskRepository{store: newStore(primary, replica)}
}

const taskColumns = `task_id, task_name, payment_id, merchant_id, attempt_id,
		status, retry_count, schedule_at, created_at, updated_at`

func (r *ProcessTaskRepository) Insert(ctx context.Context, task *entity.ProcessTask) error {
	query := `
		INSERT INTO process_tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.store.primary.ExecContext(ctx, query,
		task.TaskID,
		task.TaskName,
		task.PaymentID,
		task.MerchantID,
		task.AttemptID,
		task.Status,
		task.RetryCount,
		task.ScheduleAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	return err
}

func (r *ProcessTaskRepository) FindPending(
	ctx context.Context,
	taskName, paymentID, merchantID, attemptID string,
) (*entity.ProcessTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM process_tasks
		WHERE task_name = ? AND payment_id = ? AND merchant_id = ? AND attempt_id = ? AND status = ?
		LIMIT 1
	`

	task := &entity.ProcessTask{}
	err := r.store.primary.QueryRowContext(ctx, query,
		taskName, paymentID, merchantID, attemptID, entity.TaskStatusPending,
	).Scan(
		&task.TaskID,
		&task.TaskName,
		&task.PaymentID,
		&task.MerchantID,
		&task.AttemptID,
		&task.Status,
		&task.RetryCount,
		&task.ScheduleAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return task, nil
}

func (r *ProcessTaskRepository) Update(ctx context.Context, task *entity.ProcessTask) error {
	query := `
		UPDATE process_tasks SET status = ?, retry_count = ?, schedule_at = ?, updated_at = ?
		WHERE task_id = ?
	`

	result, err := r.store.primary.ExecContext(ctx, query,
		task.Status,
		task.RetryCount,
		task.ScheduleAt,
		task.UpdatedAt,
		task.TaskID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}

func (r *ProcessTaskRepository) ListDue(ctx context.Context, now time.Time, limit int32) ([]*entity.ProcessTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM process_tasks
		WHERE status = ? AND schedule_at <= ?
		ORDER BY schedule_at ASC
		LIMIT ?
	`

	rows, err := r.store.primary.QueryContext(ctx, query, entity.TaskStatusPending, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*entity.ProcessTask, 0)
	for rows.Next() {
		task := &entity.ProcessTask{}
		if err := rows.Scan(
			&task.TaskID,
			&task.TaskName,
			&task.PaymentID,
			&task.MerchantID,
			&task.AttemptID,
			&task.Status,
			&task.RetryCount,
			&task.ScheduleAt,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}
