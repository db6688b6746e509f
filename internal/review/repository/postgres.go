package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/review"
	"github.com/nvmanh/techshop-catalog-service/internal/review/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type productAggregate struct {
	Rating      float64 `db:"rating"`
	ReviewCount int     `db:"review_count"`
}

// lockProduct takes the per-product write lock that serializes all rating
// maintenance for one product id.
func lockProduct(ctx context.Context, tx *sqlx.Tx, productID string) (*productAggregate, error) {
	var agg productAggregate
	err := tx.GetContext(ctx, &agg,
		`SELECT rating, review_count FROM products WHERE id = $1 FOR UPDATE`, productID)
	if err != nil {
		return nil, err
	}
	return &agg, nil
}

func setProductRating(ctx context.Context, tx *sqlx.Tx, productID string, rating float64, count int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE products SET rating = $1, review_count = $2, updated_at = now() WHERE id = $3`,
		rating, count, productID)
	return err
}

func (r *PGRepository) CreateWithRating(ctx context.Context, rev *model.Review) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	agg, err := lockProduct(ctx, tx, rev.ProductID)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO reviews (id, user_id, product_id, rating, comment, images, created_at, updated_at)
        VALUES (:id, :user_id, :product_id, :rating, :comment, :images, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, rev); err != nil {
		return err
	}

	newAvg := review.RatingAfterCreate(agg.Rating, agg.ReviewCount, rev.Rating)
	if err := setProductRating(ctx, tx, rev.ProductID, newAvg, agg.ReviewCount+1); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) UpdateWithRating(ctx context.Context, rev *model.Review, oldRating int) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	agg, err := lockProduct(ctx, tx, rev.ProductID)
	if err != nil {
		return err
	}

	query := `
        UPDATE reviews
        SET rating = :rating,
            comment = :comment,
            images = :images,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := tx.NamedExecContext(ctx, query, rev); err != nil {
		return err
	}

	if rev.Rating != oldRating {
		newAvg := review.RatingAfterUpdate(agg.Rating, agg.ReviewCount, oldRating, rev.Rating)
		if err := setProductRating(ctx, tx, rev.ProductID, newAvg, agg.ReviewCount); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) DeleteWithRating(ctx context.Context, rev *model.Review) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	agg, err := lockProduct(ctx, tx, rev.ProductID)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, rev.ID); err != nil {
		return err
	}

	newAvg := review.RatingAfterDelete(agg.Rating, agg.ReviewCount, rev.Rating)
	newCount := agg.ReviewCount - 1
	if newCount < 0 {
		newCount = 0
	}
	if err := setProductRating(ctx, tx, rev.ProductID, newAvg, newCount); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	var rev model.Review
	query := `SELECT * FROM reviews WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &rev, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rev, nil
}

func (r *PGRepository) Query(ctx context.Context, productID string, f *dto.ReviewFilters) ([]model.Review, int, error) {
	conditions := []string{"product_id = ?"}
	args := []interface{}{productID}

	if f.Rating != 0 {
		conditions = append(conditions, "rating = ?")
		args = append(args, f.Rating)
	}
	if f.Comment != "" {
		conditions = append(conditions, "comment ILIKE ?")
		args = append(args, "%"+f.Comment+"%")
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	var count int
	if err := r.DB.GetContext(ctx, &count,
		r.DB.Rebind("SELECT count(*) FROM reviews"+whereClause), args...); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(
		"SELECT * FROM reviews%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		whereClause, f.PageSize, f.Page*f.PageSize,
	)
	var reviews []model.Review
	if err := r.DB.SelectContext(ctx, &reviews, r.DB.Rebind(listQuery), args...); err != nil {
		return nil, 0, err
	}

	return reviews, count, nil
}
