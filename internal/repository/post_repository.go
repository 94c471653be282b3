package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foundit/lostfound-service/internal/domain"
)

// PostRepository encapsulates post persistence.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Post, error)
	UpdateStatus(ctx context.Context, id string, status domain.PostStatus) error
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository instantiates repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

const postColumns = `p.id, p.name, p.item, p.description, p.image_url, p.status, p.contact, p.location,
               p.created_at, p.user_id, a.id, a.username, a.email`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (name, item, description, image_url, status, contact, location, user_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		post.Name,
		post.Item,
		post.Desc,
		post.ImageURL,
		post.Status,
		post.Contact,
		post.Location,
		post.UserID,
	).Scan(&post.ID, &post.Date)
	return mapError(err)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts p JOIN accounts a ON a.id = p.user_id WHERE p.id=$1`, postColumns)
	post, err := scanPost(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context) ([]domain.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts p JOIN accounts a ON a.id = p.user_id ORDER BY p.created_at DESC`, postColumns)
	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *postRepository) ListByOwner(ctx context.Context, userID string) ([]domain.Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM posts p JOIN accounts a ON a.id = p.user_id
             WHERE p.user_id=$1 ORDER BY p.created_at DESC`, postColumns)
	rows, err := conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (r *postRepository) UpdateStatus(ctx context.Context, id string, status domain.PostStatus) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `UPDATE posts SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total)
	return total, mapError(err)
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	var poster domain.AccountSummary
	if err := row.Scan(
		&post.ID,
		&post.Name,
		&post.Item,
		&post.Desc,
		&post.ImageURL,
		&post.Status,
		&post.Contact,
		&post.Location,
		&post.Date,
		&post.UserID,
		&poster.ID,
		&poster.Username,
		&poster.Email,
	); err != nil {
		return nil, err
	}
	post.Poster = &poster
	return &post, nil
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	result := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *post)
	}
	return result, mapError(rows.Err())
}
