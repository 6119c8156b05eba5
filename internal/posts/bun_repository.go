package posts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRepository persists archive entries through uptrace/bun.
type BunRepository struct {
	repo repository.Repository[*Post]
}

// NewBunRepository constructs a sqlite/postgres-backed archive repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: NewPostRepository(db)}
}

func (r *BunRepository) Create(ctx context.Context, record *Post) (*Post, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Post) (*Post, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "post", record.Slug)
	}
	return updated, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "post", id.String())
	}
	return result, nil
}

func (r *BunRepository) GetBySlug(ctx context.Context, slugValue string) (*Post, error) {
	result, err := r.repo.GetByIdentifier(ctx, slugValue)
	if err != nil {
		return nil, mapRepositoryError(err, "post", slugValue)
	}
	return result, nil
}

func (r *BunRepository) List(ctx context.Context) ([]*Post, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

// ListPublished pushes the draft exclusion into the query so large archives
// avoid loading drafts at all.
func (r *BunRepository) ListPublished(ctx context.Context) ([]*Post, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.draft = ?", false).
				OrderExpr("?TableAlias.date DESC NULLS LAST")
		}),
	)
	return records, err
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Post{ID: id})
}

var _ Repository = (*BunRepository)(nil)

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return err
}
