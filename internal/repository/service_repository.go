package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_bot/internal/model"
)

type ServiceRepository struct {
	db Querier
}

func NewServiceRepository(db Querier) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// Create создаёт новую услугу
func (r *ServiceRepository) Create(ctx context.Context, s *model.Service) error {
	query := `
		INSERT INTO services (name, duration, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, s.Name, s.Duration, s.ImageURL).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

// GetByID получает услугу по ID
func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	query := `
		SELECT id, name, duration, image_url, created_at
		FROM services
		WHERE id = $1
	`

	var s model.Service
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Duration, &s.ImageURL, &s.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service by id: %w", err)
	}

	return &s, nil
}

// List возвращает все услуги по алфавиту
func (r *ServiceRepository) List(ctx context.Context) ([]*model.Service, error) {
	query := `
		SELECT id, name, duration, image_url, created_at
		FROM services
		ORDER BY name, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []*model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Duration, &s.ImageURL, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	return services, nil
}

// Update обновляет услугу. Уже созданные записи хранят свою копию названия.
func (r *ServiceRepository) Update(ctx context.Context, s *model.Service) error {
	query := `
		UPDATE services
		SET name = $2, duration = $3, image_url = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, s.ID, s.Name, s.Duration, s.ImageURL)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %d: %w", s.ID, ErrNotFound)
	}

	return nil
}

// Delete удаляет услугу, записи остаются без ссылки на неё
func (r *ServiceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("service %d: %w", id, ErrNotFound)
	}

	return nil
}
