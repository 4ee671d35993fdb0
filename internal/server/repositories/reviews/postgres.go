package reviews

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avelkins/canonkeeper/internal/dbx"
	"github.com/avelkins/canonkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {

	var decision sql.NullString
	if review.Decision != nil {
		decision = sql.NullString{String: string(*review.Decision), Valid: true}
	}

	query :=
		`INSERT INTO reviews (submission_id, reviewer_id, feedback, decision)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		review.SubmissionID, review.ReviewerID, review.Feedback, decision).
		Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return review, nil
}

func (r *PostgresRepository) ListBySubmission(ctx context.Context, submissionID string) ([]models.Review, error) {
	query :=
		`SELECT id, submission_id, reviewer_id, feedback, decision, created_at FROM reviews
		 WHERE submission_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, submissionID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Review
	for rows.Next() {
		var rv models.Review
		var decision sql.NullString
		if err := rows.Scan(&rv.ID, &rv.SubmissionID, &rv.ReviewerID, &rv.Feedback, &decision, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if decision.Valid {
			d := models.ReviewDecision(decision.String)
			rv.Decision = &d
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
