package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, b *model.Branch) error {
	query := `
        INSERT INTO branches (id, name, description, created_at, updated_at)
        VALUES (:id, :name, :description, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, b)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Branch, error) {
	var branch model.Branch
	query := `SELECT * FROM branches WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &branch, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &branch, nil
}

func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Branch, error) {
	var branch model.Branch
	query := `SELECT * FROM branches WHERE name = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &branch, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &branch, nil
}

func (r *PGRepository) FindByNames(ctx context.Context, names []string) ([]model.Branch, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM branches WHERE name IN (?)`, names)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var branches []model.Branch
	if err := r.DB.SelectContext(ctx, &branches, query, args...); err != nil {
		return nil, err
	}
	return branches, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Branch, error) {
	var branches []model.Branch
	query := `SELECT * FROM branches ORDER BY name ASC`
	if err := r.DB.SelectContext(ctx, &branches, query); err != nil {
		return nil, err
	}
	return branches, nil
}
