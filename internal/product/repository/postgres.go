package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/product"
	"github.com/nvmanh/techshop-catalog-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product, childCategoryIDs []string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO products (
            id, name, price, stock, description, specs, rating, review_count,
            promotion_percent, status, parent_category_id, branch_id,
            created_at, updated_at, deleted_at
        )
        VALUES (
            :id, :name, :price, :stock, :description, :specs, :rating, :review_count,
            :promotion_percent, :status, :parent_category_id, :branch_id,
            :created_at, :updated_at, :deleted_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return err
	}

	if err := replaceChildCategoryLinks(ctx, tx, p.ID, childCategoryIDs); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	children, err := r.FindChildCategories(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ChildCategories = children

	return &p, nil
}

// Query folds the resolved filter struct into a WHERE clause, each present
// filter ANDed in, then counts and fetches one page.
func (r *PGRepository) Query(ctx context.Context, f *dto.QueryFilters) ([]model.Product, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if f.Statuses != nil {
		conditions = append(conditions, "status IN (?)")
		args = append(args, f.Statuses)
	}
	if f.NameContains != "" {
		conditions = append(conditions, "name ILIKE ?")
		args = append(args, "%"+f.NameContains+"%")
	}
	if f.PriceMin != nil {
		conditions = append(conditions, "price >= ?")
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil {
		conditions = append(conditions, "price <= ?")
		args = append(args, *f.PriceMax)
	}
	if f.ParentCategoryID != "" {
		conditions = append(conditions, "parent_category_id = ?")
		args = append(args, f.ParentCategoryID)
	}
	if f.BranchID != "" {
		conditions = append(conditions, "branch_id = ?")
		args = append(args, f.BranchID)
	}
	for _, childID := range f.ChildCategoryIDs {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM product_child_categories pcc WHERE pcc.product_id = products.id AND pcc.child_category_id = ?)")
		args = append(args, childID)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := sqlx.In("SELECT count(*) FROM products"+whereClause, args...)
	if err != nil {
		return nil, 0, err
	}
	var count int
	if err := r.DB.GetContext(ctx, &count, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, err
	}

	// Sort fields are whitelisted; absent or unknown sort keeps insertion order.
	orderBy := ""
	switch f.SortBy {
	case "name", "price", "created_at":
		orderBy = f.SortBy
	}
	if orderBy == "" {
		orderBy = "created_at ASC, id ASC"
	} else if strings.ToLower(f.SortOrder) == "desc" {
		orderBy += " DESC"
	} else {
		orderBy += " ASC"
	}

	listQuery := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s LIMIT %d OFFSET %d",
		whereClause, orderBy, f.PageSize, f.Page*f.PageSize)

	listQuery, listArgs, err := sqlx.In(listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, err
	}

	if err := r.attachChildCategories(ctx, products); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

// attachChildCategories preloads the join table for a page in one query.
func (r *PGRepository) attachChildCategories(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	query, queryArgs, err := sqlx.In(`
        SELECT pcc.product_id, cc.*
        FROM product_child_categories pcc
        JOIN child_categories cc ON cc.id = pcc.child_category_id
        WHERE pcc.product_id IN (?)
        ORDER BY cc.name ASC
    `, ids)
	if err != nil {
		return err
	}

	type linkedChild struct {
		LinkProductID string `db:"product_id"`
		model.ChildCategory
	}
	var rows []linkedChild
	if err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(query), queryArgs...); err != nil {
		return err
	}

	byProduct := make(map[string][]model.ChildCategory, len(products))
	for _, row := range rows {
		byProduct[row.LinkProductID] = append(byProduct[row.LinkProductID], row.ChildCategory)
	}
	for i := range products {
		products[i].ChildCategories = byProduct[products[i].ID]
	}
	return nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product, childCategoryIDs []string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
        UPDATE products
        SET name = :name,
            price = :price,
            stock = :stock,
            description = :description,
            specs = :specs,
            promotion_percent = :promotion_percent,
            status = :status,
            parent_category_id = :parent_category_id,
            branch_id = :branch_id,
            updated_at = :updated_at,
            deleted_at = :deleted_at
        WHERE id = :id
    `
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return err
	}

	if childCategoryIDs != nil {
		if err := replaceChildCategoryLinks(ctx, tx, p.ID, childCategoryIDs); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func replaceChildCategoryLinks(ctx context.Context, tx *sqlx.Tx, productID string, childCategoryIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM product_child_categories WHERE product_id = $1`, productID); err != nil {
		return err
	}
	for _, childID := range childCategoryIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_child_categories (product_id, child_category_id) VALUES ($1, $2)`,
			productID, childID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	query := `
        UPDATE products
        SET status = $1, deleted_at = $2, updated_at = $2
        WHERE id = $3
    `
	_, err := r.DB.ExecContext(ctx, query, model.StatusDeleted, at, id)
	return err
}

func (r *PGRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	if delta >= 0 {
		_, err := r.DB.ExecContext(ctx,
			`UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2`,
			delta, id,
		)
		return err
	}

	// Conditional decrement: only applies when enough stock remains, so two
	// concurrent orders cannot oversell.
	res, err := r.DB.ExecContext(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = now() WHERE id = $2 AND stock >= $3`,
		delta, id, -delta,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return product.ErrInsufficientStock
	}
	return nil
}

func (r *PGRepository) FindChildCategories(ctx context.Context, productID string) ([]model.ChildCategory, error) {
	var children []model.ChildCategory
	query := `
        SELECT cc.*
        FROM product_child_categories pcc
        JOIN child_categories cc ON cc.id = pcc.child_category_id
        WHERE pcc.product_id = $1
        ORDER BY cc.name ASC
    `
	if err := r.DB.SelectContext(ctx, &children, query, productID); err != nil {
		return nil, err
	}
	return children, nil
}
