package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
	"github.com/meiyue-dev/salon-marketplace/backend/internal/engine"
)

// loadDaySnapshot 加载某个门店某一天的全部可用性规则。
// 预约事务内外共用这段逻辑，保证两边看到的数据形状完全一致
func (r *Repository) loadDaySnapshot(ctx context.Context, q querier, salonID int64, day time.Time, now time.Time) (*engine.Snapshot, error) {
	snap := &engine.Snapshot{
		SalonID:         salonID,
		Date:            day,
		Now:             now,
		LeadTimeMinutes: r.cfg.Booking.LeadTimeMinutes,
	}

	schedule, err := r.getOperatingSchedule(ctx, q, salonID)
	switch {
	case err == nil:
		snap.Schedule = schedule
	case errors.Is(err, sql.ErrNoRows):
		// 门店未配置营业时间，引擎会直接拒绝，而不是当作「无限制」
		snap.Schedule = nil
	default:
		return nil, err
	}

	if snap.Closures, err = r.getClosuresForDate(ctx, q, salonID, day); err != nil {
		return nil, err
	}
	if snap.Breaks, err = r.getBreaksBySalonID(ctx, q, salonID); err != nil {
		return nil, err
	}
	if snap.Staff, err = r.getStaffBySalonID(ctx, q, salonID); err != nil {
		return nil, err
	}
	if snap.Appointments, err = r.getScheduledAppointmentsForDate(ctx, q, salonID, day); err != nil {
		return nil, err
	}

	return snap, nil
}

// GetDaySnapshot 供可用时段查询等只读场景使用，不加锁。
// 预约提交时必须走 BookAppointment，它会在事务内重新加载快照
func (r *Repository) GetDaySnapshot(salonID int64, day time.Time, now time.Time) (*engine.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.loadDaySnapshot(ctx, r.dbpool, salonID, day, now)
}

func (r *Repository) getScheduledAppointmentsForDate(ctx context.Context, q querier, salonID int64, day time.Time) ([]*domain.Appointment, error) {
	query := `
		SELECT id, salon_id, user_id, staff_id, service_id, start_time, end_time, status, price, created_at, version
		FROM appointments
		WHERE salon_id = $1 AND status = $2 AND start_time >= $3 AND start_time < $4
	`

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := q.QueryContext(ctx, query, salonID, domain.StatusScheduled, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appt := &domain.Appointment{}
		var staffID sql.NullInt64

		dst := []any{
			&appt.ID,
			&appt.SalonID,
			&appt.UserID,
			&staffID,
			&appt.ServiceID,
			&appt.StartTime,
			&appt.EndTime,
			&appt.Status,
			&appt.Price,
			&appt.CreatedAt,
			&appt.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if staffID.Valid {
			appt.StaffID = &staffID.Int64
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return appointments, nil
}

// BookAppointment 是预约事务：对门店加事务级咨询锁，在同一事务内
// 重新加载可用性快照并执行 validate（冲突扫描和员工分配都在其中），
// 通过后写入预约头和服务明细。同一门店的并发预约会在锁上排队，
// 保证「同一员工的 scheduled 预约永不重叠」这一硬性约束。
// validate 返回错误时整个事务回滚，不会留下任何数据
func (r *Repository) BookAppointment(appt *domain.Appointment, lines []*domain.AppointmentServiceLine, validate func(snap *engine.Snapshot) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 同一门店的预约写入串行化，锁随事务结束自动释放
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, appt.SalonID); err != nil {
		return err
	}

	snap, err := r.loadDaySnapshot(ctx, tx, appt.SalonID, appt.StartTime, time.Now())
	if err != nil {
		return err
	}

	// 不信任客户端或更早的检查结果，以事务内的最新状态为准
	if err := validate(snap); err != nil {
		return err
	}

	query := `
		INSERT INTO appointments (salon_id, user_id, staff_id, service_id, start_time, end_time, status, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`

	var staffID sql.NullInt64
	if appt.StaffID != nil {
		staffID = sql.NullInt64{Int64: *appt.StaffID, Valid: true}
	}

	args := []any{appt.SalonID, appt.UserID, staffID, appt.ServiceID, appt.StartTime, appt.EndTime, appt.Status, appt.Price}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&appt.ID, &appt.CreatedAt, &appt.Version); err != nil {
		return err
	}

	for _, line := range lines {
		query := `
			INSERT INTO appointment_service_lines (appointment_id, service_id, price)
			VALUES ($1, $2, $3)
			RETURNING id
		`

		line.AppointmentID = appt.ID
		if err := tx.QueryRowContext(ctx, query, appt.ID, line.ServiceID, line.Price).Scan(&line.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAppointmentByID(id int64) (*domain.Appointment, error) {
	query := `
		SELECT salon_id, user_id, staff_id, service_id, start_time, end_time, status, price, created_at, version
		FROM appointments WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	appt := &domain.Appointment{
		ID: id,
	}
	var staffID sql.NullInt64

	dst := []any{&appt.SalonID, &appt.UserID, &staffID, &appt.ServiceID, &appt.StartTime, &appt.EndTime, &appt.Status, &appt.Price, &appt.CreatedAt, &appt.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	if staffID.Valid {
		appt.StaffID = &staffID.Int64
	}

	return appt, nil
}

func (r *Repository) GetAppointmentsByUserID(userID int64) ([]*domain.Appointment, error) {
	query := `
		SELECT id, salon_id, user_id, staff_id, service_id, start_time, end_time, status, price, created_at, version
		FROM appointments WHERE user_id = $1 ORDER BY start_time DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func (r *Repository) GetAppointmentsBySalonAndDate(salonID int64, day time.Time) ([]*domain.Appointment, error) {
	query := `
		SELECT id, salon_id, user_id, staff_id, service_id, start_time, end_time, status, price, created_at, version
		FROM appointments
		WHERE salon_id = $1 AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.dbpool.QueryContext(ctx, query, salonID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func (r *Repository) GetServiceLinesByAppointmentID(appointmentID int64) ([]*domain.AppointmentServiceLine, error) {
	query := `
		SELECT id, appointment_id, service_id, price
		FROM appointment_service_lines WHERE appointment_id = $1 ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]*domain.AppointmentServiceLine, 0)
	for rows.Next() {
		line := &domain.AppointmentServiceLine{}
		if err := rows.Scan(&line.ID, &line.AppointmentID, &line.ServiceID, &line.Price); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// TransitionAppointmentStatus 把一条 scheduled 状态的预约迁移到目标状态，
// 需要记违约时在同一事务内累加用户的违约次数并返回最新值。
// WHERE 条件中的状态守卫保证并发的取消或状态变更只有一个能生效
func (r *Repository) TransitionAppointmentStatus(appt *domain.Appointment, target domain.AppointmentStatus, issueStrike bool) (int32, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE appointments
		SET status = $1, version = version + 1
		WHERE id = $2 AND status = $3
		RETURNING version
	`

	if err := tx.QueryRowContext(ctx, query, target, appt.ID, domain.StatusScheduled).Scan(&appt.Version); err != nil {
		// 没有命中说明预约已经被并发请求改成了最终状态
		return 0, err
	}
	appt.Status = target

	newStrikes := int32(0)
	if issueStrike {
		query = `
			UPDATE users SET strikes = strikes + 1 WHERE id = $1
			RETURNING strikes
		`
		if err := tx.QueryRowContext(ctx, query, appt.UserID).Scan(&newStrikes); err != nil {
			return 0, err
		}
	} else {
		query = `SELECT strikes FROM users WHERE id = $1`
		if err := tx.QueryRowContext(ctx, query, appt.UserID).Scan(&newStrikes); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return newStrikes, nil
}
