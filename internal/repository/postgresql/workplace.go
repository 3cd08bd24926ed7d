package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/workplace"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const workplaceColumns = `id, owner_id, name, address, weekly_rest_day, created_at, updated_at`

type workplaceRepository struct {
	db *database.DB
}

func NewWorkplaceRepository(db *database.DB) workplace.Repository {
	return &workplaceRepository{db: db}
}

func scanWorkplace(row pgx.Row) (workplace.Workplace, error) {
	var w workplace.Workplace
	err := row.Scan(&w.ID, &w.OwnerID, &w.Name, &w.Address, &w.WeeklyRestDay, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *workplaceRepository) GetByID(ctx context.Context, id string) (workplace.Workplace, error) {
	q := GetQuerier(ctx, r.db)

	w, err := scanWorkplace(q.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM workplaces WHERE id = $1`, workplaceColumns), id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workplace.Workplace{}, workplace.ErrWorkplaceNotFound
		}
		return workplace.Workplace{}, fmt.Errorf("failed to get workplace: %w", err)
	}
	return w, nil
}

func (r *workplaceRepository) ListByOwner(ctx context.Context, ownerID string) ([]workplace.Workplace, error) {
	query := fmt.Sprintf(`SELECT %s FROM workplaces WHERE owner_id = $1 ORDER BY name, id`, workplaceColumns)
	return r.list(ctx, query, ownerID)
}

func (r *workplaceRepository) ListByWorker(ctx context.Context, workerID string) ([]workplace.Workplace, error) {
	query := `
		SELECT w.id, w.owner_id, w.name, w.address, w.weekly_rest_day, w.created_at, w.updated_at
		FROM workplaces w
		JOIN workplace_members m ON m.workplace_id = w.id
		WHERE m.worker_id = $1
		ORDER BY w.name, w.id`
	return r.list(ctx, query, workerID)
}

func (r *workplaceRepository) list(ctx context.Context, query string, args ...interface{}) ([]workplace.Workplace, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workplaces: %w", err)
	}
	defer rows.Close()

	out := make([]workplace.Workplace, 0)
	for rows.Next() {
		w, err := scanWorkplace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workplace: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workplaces: %w", err)
	}
	return out, nil
}

func (r *workplaceRepository) ListMembers(ctx context.Context, workplaceID string) ([]workplace.Member, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT workplace_id, worker_id, joined_at
		FROM workplace_members
		WHERE workplace_id = $1
		ORDER BY worker_id`, workplaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workplace members: %w", err)
	}
	defer rows.Close()

	members := make([]workplace.Member, 0)
	for rows.Next() {
		var m workplace.Member
		if err := rows.Scan(&m.WorkplaceID, &m.WorkerID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan workplace member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workplace members: %w", err)
	}
	return members, nil
}

func (r *workplaceRepository) IsMember(ctx context.Context, workplaceID, workerID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM workplace_members WHERE workplace_id = $1 AND worker_id = $2)`,
		workplaceID, workerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check workplace membership: %w", err)
	}
	return exists, nil
}

func (r *workplaceRepository) CountAll(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM workplaces`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count workplaces: %w", err)
	}
	return n, nil
}
