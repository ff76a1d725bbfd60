package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
)

// UpsertOperatingSchedule 写入门店的基础营业时间，每个门店只保留一条
func (r *Repository) UpsertOperatingSchedule(schedule *domain.OperatingSchedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO operating_schedules (salon_id, opening_time, closing_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (salon_id) DO UPDATE
		SET
			opening_time = EXCLUDED.opening_time,
			closing_time = EXCLUDED.closing_time,
			version = operating_schedules.version + 1
		RETURNING id, created_at, version
	`

	args := []any{schedule.SalonID, schedule.OpeningTime, schedule.ClosingTime}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return err
	}

	// 休息日全量替换
	query = `DELETE FROM operating_schedule_closed_weekdays WHERE schedule_id = $1`
	if _, err := tx.ExecContext(ctx, query, schedule.ID); err != nil {
		return err
	}

	for _, weekday := range schedule.ClosedWeekdays {
		query = `
			INSERT INTO operating_schedule_closed_weekdays (schedule_id, weekday)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, schedule.ID, weekday); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetOperatingSchedule(salonID int64) (*domain.OperatingSchedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.getOperatingSchedule(ctx, r.dbpool, salonID)
}

func (r *Repository) getOperatingSchedule(ctx context.Context, q querier, salonID int64) (*domain.OperatingSchedule, error) {
	query := `
		SELECT
			os.id,
			os.opening_time,
			os.closing_time,
			oscw.weekday,
			os.created_at,
			os.version
		FROM operating_schedules os
		LEFT JOIN operating_schedule_closed_weekdays oscw ON os.id = oscw.schedule_id
		WHERE os.salon_id = $1
	`

	rows, err := q.QueryContext(ctx, query, salonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedule := &domain.OperatingSchedule{
		SalonID:        salonID,
		ClosedWeekdays: make([]int32, 0),
	}

	for rows.Next() {
		var weekday sql.NullInt32
		dst := []any{
			&schedule.ID,
			&schedule.OpeningTime,
			&schedule.ClosingTime,
			&weekday,
			&schedule.CreatedAt,
			&schedule.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !weekday.Valid {
			// 说明该门店没有固定休息日
			continue
		}
		schedule.ClosedWeekdays = append(schedule.ClosedWeekdays, weekday.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 缺失的营业时间必须显式区分出来，引擎会将其视为「门店未配置」而拒绝预约
	if schedule.ID == 0 {
		return nil, sql.ErrNoRows
	}

	return schedule, nil
}

func (r *Repository) CreateClosure(closure *domain.ClosureModification) error {
	query := `
		INSERT INTO closure_modifications (salon_id, kind, date, weekday_index, closure_type, interval_start, interval_end, staff_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var date sql.NullString
	if closure.Kind == domain.ClosureOnce {
		date = sql.NullString{String: closure.Date, Valid: true}
	}
	var intervalStart, intervalEnd sql.NullString
	if closure.ClosureType == domain.ClosureInterval {
		intervalStart = sql.NullString{String: closure.IntervalStart, Valid: true}
		intervalEnd = sql.NullString{String: closure.IntervalEnd, Valid: true}
	}

	args := []any{
		closure.SalonID,
		closure.Kind,
		date,
		closure.WeekdayIndex,
		closure.ClosureType,
		intervalStart,
		intervalEnd,
		closure.StaffScope.NullInt64(),
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&closure.ID, &closure.CreatedAt, &closure.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetClosuresBySalonID(salonID int64) ([]*domain.ClosureModification, error) {
	query := `
		SELECT id, salon_id, kind, date, weekday_index, closure_type, interval_start, interval_end, staff_id, created_at, version
		FROM closure_modifications WHERE salon_id = $1 ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, salonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanClosures(rows)
}

// getClosuresForDate 获取在指定日期生效的临时调整：
// once 按日期匹配，recurring 按星期匹配
func (r *Repository) getClosuresForDate(ctx context.Context, q querier, salonID int64, day time.Time) ([]*domain.ClosureModification, error) {
	query := `
		SELECT id, salon_id, kind, date, weekday_index, closure_type, interval_start, interval_end, staff_id, created_at, version
		FROM closure_modifications
		WHERE salon_id = $1
			AND ((kind = 'once' AND date = $2) OR (kind = 'recurring' AND weekday_index = $3))
	`

	rows, err := q.QueryContext(ctx, query, salonID, day.Format("2006-01-02"), int32(day.Weekday()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanClosures(rows)
}

func scanClosures(rows *sql.Rows) ([]*domain.ClosureModification, error) {
	closures := make([]*domain.ClosureModification, 0)
	for rows.Next() {
		closure := &domain.ClosureModification{}
		var date, intervalStart, intervalEnd sql.NullString
		var staffID sql.NullInt64

		dst := []any{
			&closure.ID,
			&closure.SalonID,
			&closure.Kind,
			&date,
			&closure.WeekdayIndex,
			&closure.ClosureType,
			&intervalStart,
			&intervalEnd,
			&staffID,
			&closure.CreatedAt,
			&closure.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		closure.Date = date.String
		closure.IntervalStart = intervalStart.String
		closure.IntervalEnd = intervalEnd.String
		closure.StaffScope = domain.ScopeFromNullInt64(staffID)
		closures = append(closures, closure)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return closures, nil
}

func (r *Repository) DeleteClosure(salonID int64, closureID int64) error {
	query := `
		DELETE FROM closure_modifications WHERE id = $1 AND salon_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, closureID, salonID)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateBreak(b *domain.Break) error {
	query := `
		INSERT INTO breaks (salon_id, start_time, end_time, staff_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{b.SalonID, b.StartTime, b.EndTime, b.StaffScope.NullInt64()}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetBreaksBySalonID(salonID int64) ([]*domain.Break, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.getBreaksBySalonID(ctx, r.dbpool, salonID)
}

func (r *Repository) getBreaksBySalonID(ctx context.Context, q querier, salonID int64) ([]*domain.Break, error) {
	query := `
		SELECT id, salon_id, start_time, end_time, staff_id, created_at, version
		FROM breaks WHERE salon_id = $1 ORDER BY id
	`

	rows, err := q.QueryContext(ctx, query, salonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	breaks := make([]*domain.Break, 0)
	for rows.Next() {
		b := &domain.Break{}
		var staffID sql.NullInt64
		dst := []any{&b.ID, &b.SalonID, &b.StartTime, &b.EndTime, &staffID, &b.CreatedAt, &b.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		b.StaffScope = domain.ScopeFromNullInt64(staffID)
		breaks = append(breaks, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return breaks, nil
}

func (r *Repository) DeleteBreak(salonID int64, breakID int64) error {
	query := `
		DELETE FROM breaks WHERE id = $1 AND salon_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, breakID, salonID)
	if err != nil {
		return err
	}

	return nil
}
