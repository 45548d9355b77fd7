package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contractpro/contractpro/internal/apperr"
	"github.com/contractpro/contractpro/internal/model"
)

type reviewStorage struct {
	db *pgxpool.Pool
}

func NewReviewStorage(pool *pgxpool.Pool) ReviewStorage {
	return &reviewStorage{db: pool}
}

const reviewColumns = `id, contract_id, reviewer_id, review_order, status,
	action_taken, comments, assigned_at, started_at, completed_at, created_at`

func scanReview(row pgx.Row) (*model.ReviewAssignment, error) {
	var ra model.ReviewAssignment
	var comments *string
	err := row.Scan(
		&ra.ID, &ra.ContractID, &ra.ReviewerID, &ra.ReviewOrder, &ra.Status,
		&ra.ActionTaken, &comments, &ra.AssignedAt, &ra.StartedAt,
		&ra.CompletedAt, &ra.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if comments != nil {
		ra.Comments = *comments
	}
	return &ra, nil
}

func (s *reviewStorage) Save(ctx context.Context, ra *model.ReviewAssignment) error {
	ra.CreatedAt = time.Now()

	query := `
		INSERT INTO contract_reviewers (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.Exec(ctx, query,
		ra.ID, ra.ContractID, ra.ReviewerID, ra.ReviewOrder, ra.Status,
		ra.ActionTaken, nullable(ra.Comments), ra.AssignedAt, ra.StartedAt,
		ra.CompletedAt, ra.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review assignment: %w", err)
	}
	return nil
}

func (s *reviewStorage) Update(ctx context.Context, ra *model.ReviewAssignment) error {
	query := `
		UPDATE contract_reviewers
		SET status = $2, action_taken = $3, comments = $4,
		    started_at = $5, completed_at = $6
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, query,
		ra.ID, ra.Status, ra.ActionTaken, nullable(ra.Comments),
		ra.StartedAt, ra.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update review assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("review assignment %s", ra.ID)
	}
	return nil
}

func (s *reviewStorage) FindCurrent(ctx context.Context, contractID, reviewerID string) (*model.ReviewAssignment, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM contract_reviewers
		WHERE contract_id = $1 AND reviewer_id = $2 AND status = ANY($3)
		ORDER BY assigned_at DESC NULLS LAST
		LIMIT 1
	`
	statuses := []string{string(model.ReviewPending), string(model.ReviewInProgress)}

	ra, err := scanReview(s.db.QueryRow(ctx, query, contractID, reviewerID, statuses))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("open review for contract %s reviewer %s", contractID, reviewerID)
		}
		return nil, fmt.Errorf("find current review: %w", err)
	}
	return ra, nil
}

func (s *reviewStorage) FindByContract(ctx context.Context, contractID string) ([]model.ReviewAssignment, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM contract_reviewers
		WHERE contract_id = $1
		ORDER BY review_order
	`
	rows, err := s.db.Query(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.ReviewAssignment
	for rows.Next() {
		ra, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *ra)
	}
	return reviews, rows.Err()
}

func (s *reviewStorage) MaxOrder(ctx context.Context, contractID string) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(review_order), 0) FROM contract_reviewers WHERE contract_id = $1`
	if err := s.db.QueryRow(ctx, query, contractID).Scan(&max); err != nil {
		return 0, fmt.Errorf("max review order: %w", err)
	}
	return max, nil
}
