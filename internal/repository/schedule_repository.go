package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/booking_bot/internal/availability"
)

// MainScheduleID идентификатор единственного документа расписания
const MainScheduleID = "main"

type ScheduleRepository struct {
	db Querier
}

func NewScheduleRepository(db Querier) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Get читает документ расписания; nil, если он ещё не создан
func (r *ScheduleRepository) Get(ctx context.Context) (*availability.ScheduleDocument, error) {
	query := `SELECT document FROM schedule_config WHERE id = $1`

	var raw []byte
	err := r.db.QueryRow(ctx, query, MainScheduleID).Scan(&raw)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	var doc availability.ScheduleDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	return &doc, nil
}

// Save перезаписывает документ целиком
func (r *ScheduleRepository) Save(ctx context.Context, doc *availability.ScheduleDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	query := `
		INSERT INTO schedule_config (id, document, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document, updated_at = now()
	`

	if _, err := r.db.Exec(ctx, query, MainScheduleID, string(data)); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}

	return nil
}
