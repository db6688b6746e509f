package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
        INSERT INTO orders (
            id, user_id, product_id, quantity, comment, status,
            sold_price, primary_price, created_at, updated_at
        )
        VALUES (
            :id, :user_id, :product_id, :quantity, :comment, :status,
            :sold_price, :primary_price, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	query := `SELECT * FROM orders WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET quantity = :quantity,
            comment = :comment,
            status = :status,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, o)
	return err
}

func (r *PGRepository) FindByUser(ctx context.Context, userID string, page, pageSize int) ([]model.Order, int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count,
		`SELECT count(*) FROM orders WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		pageSize, page*pageSize,
	)
	var orders []model.Order
	if err := r.DB.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *PGRepository) ExistsByUserAndProduct(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM orders WHERE user_id = $1 AND product_id = $2)`
	if err := r.DB.GetContext(ctx, &exists, query, userID, productID); err != nil {
		return false, err
	}
	return exists, nil
}
