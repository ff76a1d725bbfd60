package repository

import (
	"context"
	"time"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/domain"
)

func (r *Repository) CreateSalon(salon *domain.Salon) error {
	query := `
		INSERT INTO salons (owner_id, name, address, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{salon.OwnerID, salon.Name, salon.Address, salon.Phone}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&salon.ID, &salon.CreatedAt, &salon.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetSalonByID(id int64) (*domain.Salon, error) {
	query := `
		SELECT owner_id, name, address, phone, created_at, version
		FROM salons WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	salon := &domain.Salon{
		ID: id,
	}

	dst := []any{&salon.OwnerID, &salon.Name, &salon.Address, &salon.Phone, &salon.CreatedAt, &salon.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return salon, nil
}

func (r *Repository) GetAllSalons() ([]*domain.Salon, error) {
	query := `
		SELECT id, owner_id, name, address, phone, created_at, version FROM salons
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	salons := make([]*domain.Salon, 0)
	for rows.Next() {
		salon := &domain.Salon{}
		dst := []any{&salon.ID, &salon.OwnerID, &salon.Name, &salon.Address, &salon.Phone, &salon.CreatedAt, &salon.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		salons = append(salons, salon)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return salons, nil
}

func (r *Repository) CreateStaff(staff *domain.Staff) error {
	query := `
		INSERT INTO staff (salon_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, staff.SalonID, staff.Name).Scan(&staff.ID, &staff.CreatedAt, &staff.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetStaffBySalonID(salonID int64) ([]*domain.Staff, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.getStaffBySalonID(ctx, r.dbpool, salonID)
}

func (r *Repository) getStaffBySalonID(ctx context.Context, q querier, salonID int64) ([]*domain.Staff, error) {
	query := `
		SELECT id, salon_id, name, created_at, version FROM staff WHERE salon_id = $1 ORDER BY id
	`

	rows, err := q.QueryContext(ctx, query, salonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	staffList := make([]*domain.Staff, 0)
	for rows.Next() {
		staff := &domain.Staff{}
		dst := []any{&staff.ID, &staff.SalonID, &staff.Name, &staff.CreatedAt, &staff.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		staffList = append(staffList, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return staffList, nil
}

func (r *Repository) DeleteStaff(salonID int64, staffID int64) error {
	query := `
		DELETE FROM staff WHERE id = $1 AND salon_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, staffID, salonID)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateService(service *domain.Service) error {
	query := `
		INSERT INTO services (salon_id, name, duration, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{service.SalonID, service.Name, service.Duration, service.Price}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&service.ID, &service.CreatedAt, &service.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetServicesBySalonID(salonID int64) ([]*domain.Service, error) {
	query := `
		SELECT id, salon_id, name, duration, price, created_at, version
		FROM services WHERE salon_id = $1 ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, salonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service := &domain.Service{}
		dst := []any{&service.ID, &service.SalonID, &service.Name, &service.Duration, &service.Price, &service.CreatedAt, &service.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return services, nil
}

// GetServicesByIDs 获取预约请求中选中的服务，用于核对总时长和总价。
// 只返回属于该门店的服务，数量对不上说明请求里混入了其他门店的服务
func (r *Repository) GetServicesByIDs(salonID int64, serviceIDs []int64) ([]*domain.Service, error) {
	query := `
		SELECT id, salon_id, name, duration, price, created_at, version
		FROM services WHERE salon_id = $1 AND id = ANY($2)
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, salonID, serviceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]*domain.Service, 0, len(serviceIDs))
	for rows.Next() {
		service := &domain.Service{}
		dst := []any{&service.ID, &service.SalonID, &service.Name, &service.Duration, &service.Price, &service.CreatedAt, &service.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return services, nil
}

func (r *Repository) DeleteService(salonID int64, serviceID int64) error {
	query := `
		DELETE FROM services WHERE id = $1 AND salon_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, serviceID, salonID)
	if err != nil {
		return err
	}

	return nil
}
