package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/pkg/dbmetrics"
	"github.com/akosarev/ABS-SlotService/pkg/psqlbuilder"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// Repository репозиторий недельного расписания и дата-специфичных исключений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWindowsByWeekday получает окна доступности бизнеса на день недели (ISO, пн=1)
// Окна отсортированы по времени начала
func (r *Repository) GetWindowsByWeekday(ctx context.Context, businessID int64, weekday int) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"weekday",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).
		From("availability_windows").
		Where(squirrel.Eq{"business_id": businessID, "weekday": weekday}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowsByWeekday - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWindowsByWeekday - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanWindows(rows)
}

// GetAllWindows получает все окна доступности бизнеса на всю неделю
func (r *Repository) GetAllWindows(ctx context.Context, businessID int64) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"weekday",
		"start_time",
		"end_time",
		"created_at",
		"updated_at",
	).
		From("availability_windows").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("weekday ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanWindows(rows)
}

// ReplaceWindowsForWeekday атомарно заменяет окна доступности на день недели
// Предполагается вызов внутри транзакции (txmanager.Do)
func (r *Repository) ReplaceWindowsForWeekday(ctx context.Context, businessID int64, weekday int, windows []domain.TimeRange) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("availability_windows").
		Where(squirrel.Eq{"business_id": businessID, "weekday": weekday}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindowsForWeekday - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWindowsForWeekday - execute delete: %v", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("availability_windows").
		Columns("business_id", "weekday", "start_time", "end_time")
	for _, window := range windows {
		insertBuilder = insertBuilder.Values(businessID, weekday, window.StartTime, window.EndTime)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWindowsForWeekday - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceWindowsForWeekday - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetExceptionsByDate получает все исключения бизнеса на конкретную дату
func (r *Repository) GetExceptionsByDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.exceptionsSelect().
		Where(squirrel.Eq{"business_id": businessID, "date": date.Format(domain.DateFormat)}).
		OrderBy("start_time ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetExceptionsByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanExceptions(rows)
}

// ListExceptionsInRange получает исключения бизнеса за период [from, to]
// Используется staff-интерфейсом просмотра расписания
func (r *Repository) ListExceptionsInRange(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.exceptionsSelect().
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.GtOrEq{"date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"date": to.Format(domain.DateFormat)}).
		OrderBy("date ASC, start_time ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptionsInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanExceptions(rows)
}

// CreateException создает исключение на дату
func (r *Repository) CreateException(ctx context.Context, exception *domain.AvailabilityException) (*domain.AvailabilityException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_exceptions").
		Columns(
			"business_id",
			"date",
			"start_time",
			"end_time",
			"is_available",
			"reason",
		).
		Values(
			exception.BusinessID,
			exception.Date.Format(domain.DateFormat),
			nullableTime(exception.StartTime),
			nullableTime(exception.EndTime),
			exception.IsAvailable,
			exception.Reason,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&exception.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateException - execute insert: %v", ErrExecQuery, err)
	}

	exception.CreatedAt = createdAt.Time
	exception.UpdatedAt = updatedAt.Time

	return exception, nil
}

// DeleteExceptionsByDate удаляет все исключения бизнеса на дату
// Возвращает количество удаленных записей
func (r *Repository) DeleteExceptionsByDate(ctx context.Context, businessID int64, date time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_exceptions").
		Where(squirrel.Eq{"business_id": businessID, "date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExceptionsByDate - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExceptionsByDate - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExceptionsByDate - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

func (r *Repository) exceptionsSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"business_id",
		"date",
		"start_time",
		"end_time",
		"is_available",
		"reason",
		"created_at",
		"updated_at",
	).From("availability_exceptions")
}

func (r *Repository) scanWindows(rows *sql.Rows) ([]*domain.AvailabilityWindow, error) {
	windows := make([]*domain.AvailabilityWindow, 0)

	for rows.Next() {
		var window domain.AvailabilityWindow
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&window.ID,
			&window.BusinessID,
			&window.Weekday,
			&window.StartTime,
			&window.EndTime,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanWindows - scan row: %v", ErrScanRow, err)
		}

		window.CreatedAt = createdAt.Time
		window.UpdatedAt = updatedAt.Time

		windows = append(windows, &window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

func (r *Repository) scanExceptions(rows *sql.Rows) ([]*domain.AvailabilityException, error) {
	exceptions := make([]*domain.AvailabilityException, 0)

	for rows.Next() {
		var exception domain.AvailabilityException
		var startTime, endTime sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&exception.ID,
			&exception.BusinessID,
			&exception.Date,
			&startTime,
			&endTime,
			&exception.IsAvailable,
			&exception.Reason,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanExceptions - scan row: %v", ErrScanRow, err)
		}

		exception.StartTime, err = parseNullableTime(startTime)
		if err != nil {
			return nil, fmt.Errorf("%w: scanExceptions - parse start_time: %v", ErrScanRow, err)
		}
		exception.EndTime, err = parseNullableTime(endTime)
		if err != nil {
			return nil, fmt.Errorf("%w: scanExceptions - parse end_time: %v", ErrScanRow, err)
		}

		exception.CreatedAt = createdAt.Time
		exception.UpdatedAt = updatedAt.Time

		exceptions = append(exceptions, &exception)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanExceptions - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}

// nullableTime конвертирует *TimeString в значение для вставки (NULL при nil)
func nullableTime(t *types.TimeString) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// parseNullableTime конвертирует TIME колонку из БД в *TimeString
func parseNullableTime(v sql.NullString) (*types.TimeString, error) {
	if !v.Valid {
		return nil, nil
	}
	var ts types.TimeString
	if err := ts.Scan(v.String); err != nil {
		return nil, err
	}
	return &ts, nil
}
