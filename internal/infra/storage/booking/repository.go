package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/akosarev/ABS-SlotService/internal/domain"
	"github.com/akosarev/ABS-SlotService/pkg/dbmetrics"
	"github.com/akosarev/ABS-SlotService/pkg/psqlbuilder"
	"github.com/akosarev/ABS-SlotService/pkg/types"
)

// uniqueViolationCode код ошибки PostgreSQL при нарушении уникального ограничения
const uniqueViolationCode = "23505"

var bookingColumns = []string{
	"id",
	"reference",
	"business_id",
	"service_id",
	"user_id",
	"booking_date",
	"start_time",
	"end_time",
	"group_count",
	"status",
	"notes",
	"cancellation_reason",
	"deleted_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
//
// Дублирующая проверка уникальности на уровне приложения закрывается частичным
// уникальным индексом (business_id, service_id, booking_date, start_time, user_id)
// WHERE deleted_at IS NULL - две конкурентные вставки не могут пройти обе.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Нарушение уникального индекса мапится в ErrDuplicateBooking
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"reference",
			"business_id",
			"service_id",
			"user_id",
			"booking_date",
			"start_time",
			"end_time",
			"group_count",
			"status",
			"notes",
		).
		Values(
			booking.Reference,
			booking.BusinessID,
			booking.ServiceID,
			booking.UserID,
			booking.Date.Format(domain.DateFormat),
			booking.StartTime,
			booking.EndTime,
			booking.GroupCount,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID (включая мягко удалённые)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := r.scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrBookingNotFound
	}

	return bookings[0], nil
}

// GetForDay получает все неудалённые бронирования услуги на конкретную дату,
// отсортированные по времени начала
//
// Внутри транзакции добавляет FOR UPDATE - блокировка строк на время проверки
// вместимости слота при создании бронирования
func (r *Repository) GetForDay(ctx context.Context, filter domain.DayBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{
			"business_id":  filter.BusinessID,
			"service_id":   filter.ServiceID,
			"booking_date": filter.Date.Format(domain.DateFormat),
			"deleted_at":   nil,
		}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetForDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetForDay - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountActiveByUserAndDate подсчитывает неудалённые бронирования пользователя
// в рамках бизнеса на конкретную дату (для лимита maxBookingsPerUserPerDay)
func (r *Repository) CountActiveByUserAndDate(ctx context.Context, businessID, userID int64, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{
			"business_id":  businessID,
			"user_id":      userID,
			"booking_date": date.Format(domain.DateFormat),
			"deleted_at":   nil,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByUserAndDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByUserAndDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ExistsExact проверяет наличие неудалённого бронирования с точным совпадением
// (business_id, user_id, booking_date, start_time) - строгая защита от дублей при создании
func (r *Repository) ExistsExact(ctx context.Context, businessID, userID int64, date time.Time, startTime types.TimeString) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{
			"business_id":  businessID,
			"user_id":      userID,
			"booking_date": date.Format(domain.DateFormat),
			"start_time":   startTime,
			"deleted_at":   nil,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsExact - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsExact - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// GetByUser получает бронирования пользователя, по умолчанию без отменённых
func (r *Repository) GetByUser(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("booking_date DESC, start_time DESC")

	if filter.BusinessID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"business_id": *filter.BusinessID})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"deleted_at": nil})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByBusinessWithFilter получает бронирования бизнеса с гибкой фильтрацией
// по услуге и периоду (staff-интерфейс)
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}
	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"deleted_at": nil})
	}

	// Для конкретной даты сортируем по времени начала, для периода - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Cancel мягко удаляет бронирование: проставляет deleted_at и причину отмены
// Отменённое бронирование сразу перестает учитываться в расчёте доступности
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("deleted_at", squirrel.Expr("NOW()")).
		Set("cancellation_reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "deleted_at": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking
		var deletedAt, createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&booking.ID,
			&booking.Reference,
			&booking.BusinessID,
			&booking.ServiceID,
			&booking.UserID,
			&booking.Date,
			&booking.StartTime,
			&booking.EndTime,
			&booking.GroupCount,
			&booking.Status,
			&booking.Notes,
			&booking.CancellationReason,
			&deletedAt,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}

		if deletedAt.Valid {
			booking.DeletedAt = &deletedAt.Time
		}
		booking.CreatedAt = createdAt.Time
		booking.UpdatedAt = updatedAt.Time

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}
