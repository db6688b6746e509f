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

func (r *PGRepository) CreateParent(ctx context.Context, p *model.ParentCategory) error {
	query := `
        INSERT INTO parent_categories (id, name, description, created_at, updated_at)
        VALUES (:id, :name, :description, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindParentByID(ctx context.Context, id string) (*model.ParentCategory, error) {
	var parent model.ParentCategory
	query := `SELECT * FROM parent_categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &parent, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &parent, nil
}

func (r *PGRepository) FindParentByName(ctx context.Context, name string) (*model.ParentCategory, error) {
	var parent model.ParentCategory
	query := `SELECT * FROM parent_categories WHERE name = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &parent, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &parent, nil
}

func (r *PGRepository) FindAllParents(ctx context.Context) ([]model.ParentCategory, error) {
	var parents []model.ParentCategory
	query := `SELECT * FROM parent_categories ORDER BY name ASC`
	if err := r.DB.SelectContext(ctx, &parents, query); err != nil {
		return nil, err
	}

	// Preload children in one extra query instead of one per parent.
	var children []model.ChildCategory
	if err := r.DB.SelectContext(ctx, &children, `SELECT * FROM child_categories ORDER BY name ASC`); err != nil {
		return nil, err
	}
	byParent := make(map[string][]model.ChildCategory, len(parents))
	for _, c := range children {
		byParent[c.ParentID] = append(byParent[c.ParentID], c)
	}
	for i := range parents {
		parents[i].Children = byParent[parents[i].ID]
	}

	return parents, nil
}

func (r *PGRepository) UpdateParent(ctx context.Context, p *model.ParentCategory) error {
	query := `
        UPDATE parent_categories
        SET name = :name,
            description = :description,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) DeleteParent(ctx context.Context, id string) error {
	// child_categories.parent_id is ON DELETE CASCADE, so children go too.
	_, err := r.DB.ExecContext(ctx, `DELETE FROM parent_categories WHERE id = $1`, id)
	return err
}

func (r *PGRepository) CreateChild(ctx context.Context, c *model.ChildCategory, branchIDs []string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO child_categories (id, parent_id, name, description, created_at, updated_at)
        VALUES (:id, :parent_id, :name, :description, :created_at, :updated_at)
    `
	if _, err := tx.NamedExecContext(ctx, query, c); err != nil {
		return err
	}

	for _, branchID := range branchIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO child_category_branches (child_category_id, branch_id) VALUES ($1, $2)`,
			c.ID, branchID,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindChildByID(ctx context.Context, id string) (*model.ChildCategory, error) {
	var child model.ChildCategory
	query := `SELECT * FROM child_categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &child, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &child, nil
}

func (r *PGRepository) FindChildByName(ctx context.Context, name string) (*model.ChildCategory, error) {
	var child model.ChildCategory
	query := `SELECT * FROM child_categories WHERE name = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &child, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &child, nil
}

func (r *PGRepository) FindChildrenByNames(ctx context.Context, names []string) ([]model.ChildCategory, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM child_categories WHERE name IN (?)`, names)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var children []model.ChildCategory
	if err := r.DB.SelectContext(ctx, &children, query, args...); err != nil {
		return nil, err
	}
	return children, nil
}

func (r *PGRepository) FindChildrenByParent(ctx context.Context, parentID string) ([]model.ChildCategory, error) {
	var children []model.ChildCategory
	query := `SELECT * FROM child_categories WHERE parent_id = $1 ORDER BY name ASC`
	if err := r.DB.SelectContext(ctx, &children, query, parentID); err != nil {
		return nil, err
	}
	return children, nil
}

func (r *PGRepository) UpdateChild(ctx context.Context, c *model.ChildCategory) error {
	query := `
        UPDATE child_categories
        SET name = :name,
            description = :description,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) DeleteChild(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM child_categories WHERE id = $1`, id)
	return err
}
