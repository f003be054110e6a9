package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/pkg/dbmetrics"
	"github.com/akosarev/ABS-SlotService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с услугами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает услугу бизнеса вместе с её blackout-периодами
// Возвращает ErrServiceNotFound, если услуга не существует или принадлежит другому бизнесу
func (r *Repository) GetByID(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"duration_minutes",
		"buffer_minutes",
		"group_size",
		"max_bookings_per_user_per_day",
		"active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var svc domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&svc.ID,
		&svc.BusinessID,
		&svc.Name,
		&svc.DurationMinutes,
		&svc.BufferMinutes,
		&svc.GroupSize,
		&svc.MaxBookingsPerUserPerDay,
		&svc.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	svc.CreatedAt = createdAt.Time
	svc.UpdatedAt = updatedAt.Time

	blackouts, err := r.getBlackoutPeriods(ctx, executor, svc.ID)
	if err != nil {
		return nil, err
	}
	svc.BlackoutPeriods = blackouts

	return &svc, nil
}

// getBlackoutPeriods загружает blackout-периоды услуги, отсортированные по началу
func (r *Repository) getBlackoutPeriods(ctx context.Context, executor DBExecutor, serviceID int64) ([]domain.TimeRange, error) {
	query, args, err := psqlbuilder.Select(
		"start_time",
		"end_time",
	).
		From("service_blackout_periods").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getBlackoutPeriods - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getBlackoutPeriods - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	periods := make([]domain.TimeRange, 0)
	for rows.Next() {
		var period domain.TimeRange
		if err := rows.Scan(&period.StartTime, &period.EndTime); err != nil {
			return nil, fmt.Errorf("%w: getBlackoutPeriods - scan row: %v", ErrScanRow, err)
		}
		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getBlackoutPeriods - rows error: %v", ErrScanRow, err)
	}

	return periods, nil
}
