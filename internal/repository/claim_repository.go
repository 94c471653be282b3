package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foundit/lostfound-service/internal/domain"
)

// ClaimRepository encapsulates claim persistence.
type ClaimRepository interface {
	// Create inserts a claim; a second claim for the same (post, claimant)
	// fails with *UniqueViolation on ConstraintClaimPostClaimer.
	Create(ctx context.Context, claim *domain.Claim) error
	// GetForUpdate loads a claim and, inside a transaction, locks its row.
	GetForUpdate(ctx context.Context, id string) (*domain.Claim, error)
	UpdateStatus(ctx context.Context, id string, status domain.ClaimStatus) error
	ListDetailed(ctx context.Context) ([]domain.ClaimDetail, error)
	CountByStatus(ctx context.Context, statuses ...domain.ClaimStatus) (int64, error)
}

type claimRepository struct {
	pool *pgxpool.Pool
}

// NewClaimRepository instantiates repository.
func NewClaimRepository(pool *pgxpool.Pool) ClaimRepository {
	return &claimRepository{pool: pool}
}

func (r *claimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	const query = `
        INSERT INTO claims (post_id, claimant_id, status)
        VALUES ($1,$2,$3)
        RETURNING id, claimed_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		claim.PostID,
		claim.ClaimantID,
		claim.Status,
	).Scan(&claim.ID, &claim.ClaimedAt)
	return mapError(err)
}

func (r *claimRepository) GetForUpdate(ctx context.Context, id string) (*domain.Claim, error) {
	const query = `
        SELECT id, post_id, claimant_id, status, claimed_at
        FROM claims WHERE id=$1 FOR UPDATE`
	var claim domain.Claim
	if err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&claim.ID,
		&claim.PostID,
		&claim.ClaimantID,
		&claim.Status,
		&claim.ClaimedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &claim, nil
}

func (r *claimRepository) UpdateStatus(ctx context.Context, id string, status domain.ClaimStatus) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `UPDATE claims SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *claimRepository) ListDetailed(ctx context.Context) ([]domain.ClaimDetail, error) {
	const query = `
        SELECT c.id, c.post_id, c.claimant_id, c.status, c.claimed_at,
               p.id, p.name, p.item, p.status, p.user_id, poster.id, poster.username, poster.email,
               claimant.id, claimant.username, claimant.email
        FROM claims c
        JOIN posts p ON p.id = c.post_id
        JOIN accounts poster ON poster.id = p.user_id
        JOIN accounts claimant ON claimant.id = c.claimant_id
        ORDER BY c.claimed_at DESC`
	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	result := []domain.ClaimDetail{}
	for rows.Next() {
		var (
			detail   domain.ClaimDetail
			post     domain.Post
			poster   domain.AccountSummary
			claimant domain.AccountSummary
		)
		if err := rows.Scan(
			&detail.ID,
			&detail.PostID,
			&detail.ClaimantID,
			&detail.Status,
			&detail.ClaimedAt,
			&post.ID,
			&post.Name,
			&post.Item,
			&post.Status,
			&post.UserID,
			&poster.ID,
			&poster.Username,
			&poster.Email,
			&claimant.ID,
			&claimant.Username,
			&claimant.Email,
		); err != nil {
			return nil, err
		}
		post.Poster = &poster
		detail.Post = &post
		detail.Claimant = &claimant
		result = append(result, detail)
	}
	return result, mapError(rows.Err())
}

func (r *claimRepository) CountByStatus(ctx context.Context, statuses ...domain.ClaimStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM claims`
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += fmt.Sprintf(" WHERE status IN (%s)", strings.Join(placeholders, ","))
	}
	var total int64
	err := conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&total)
	return total, mapError(err)
}
