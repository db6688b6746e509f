package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
	"github.com/nvmanh/techshop-catalog-service/internal/auth"
	"github.com/nvmanh/techshop-catalog-service/internal/branch"
	"github.com/nvmanh/techshop-catalog-service/internal/category"
	"github.com/nvmanh/techshop-catalog-service/internal/category/dto"
	"github.com/nvmanh/techshop-catalog-service/internal/model"
)

type categoryUseCase struct {
	repo       category.Repository
	branchRepo branch.Repository
	logger     *zap.Logger
}

func NewCategoryUseCase(repo category.Repository, branchRepo branch.Repository, log *zap.Logger) category.UseCase {
	return &categoryUseCase{
		repo:       repo,
		branchRepo: branchRepo,
		logger:     log,
	}
}

func (uc *categoryUseCase) CreateParent(ctx context.Context, input *dto.CreateParentInput) (*model.ParentCategory, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.InvalidInput("category name is required")
	}

	existing, err := uc.repo.FindParentByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err, "find parent category")
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.KindConflict, "parent category %q already exists", name)
	}

	now := time.Now()
	parent := &model.ParentCategory{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:        name,
		Description: &input.Description,
	}

	if err := uc.repo.CreateParent(ctx, parent); err != nil {
		return nil, apperr.Internal(err, "create parent category")
	}
	return parent, nil
}

func (uc *categoryUseCase) UpdateParent(ctx context.Context, input *dto.UpdateParentInput) (*model.ParentCategory, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ID) == "" {
		return nil, apperr.InvalidInput("category id is required")
	}

	parent, err := uc.repo.FindParentByID(ctx, input.ID)
	if err != nil {
		return nil, apperr.Internal(err, "find parent category")
	}
	if parent == nil {
		return nil, apperr.NotFound("parent category not found")
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != parent.Name {
		dup, err := uc.repo.FindParentByName(ctx, name)
		if err != nil {
			return nil, apperr.Internal(err, "find parent category")
		}
		if dup != nil {
			return nil, apperr.Newf(apperr.KindConflict, "parent category %q already exists", name)
		}
		parent.Name = name
	}
	parent.Description = &input.Description
	parent.UpdatedAt = time.Now()

	if err := uc.repo.UpdateParent(ctx, parent); err != nil {
		return nil, apperr.Internal(err, "update parent category")
	}
	return parent, nil
}

func (uc *categoryUseCase) DeleteParent(ctx context.Context, id string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperr.InvalidInput("category id is required")
	}

	parent, err := uc.repo.FindParentByID(ctx, id)
	if err != nil {
		return apperr.Internal(err, "find parent category")
	}
	if parent == nil {
		return apperr.NotFound("parent category not found")
	}

	// Children are removed by the cascade.
	if err := uc.repo.DeleteParent(ctx, id); err != nil {
		return apperr.Internal(err, "delete parent category")
	}
	return nil
}

func (uc *categoryUseCase) ListParents(ctx context.Context) ([]model.ParentCategory, error) {
	parents, err := uc.repo.FindAllParents(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list parent categories")
	}
	return parents, nil
}

func (uc *categoryUseCase) FindParentByName(ctx context.Context, name string) (*model.ParentCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.InvalidInput("category name is required")
	}
	parent, err := uc.repo.FindParentByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err, "find parent category")
	}
	if parent == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "parent category %q not found", name)
	}
	return parent, nil
}

func (uc *categoryUseCase) CreateChild(ctx context.Context, input *dto.CreateChildInput) (*model.ChildCategory, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.InvalidInput("category name is required")
	}

	parent, err := uc.repo.FindParentByID(ctx, input.ParentID)
	if err != nil {
		return nil, apperr.Internal(err, "find parent category")
	}
	if parent == nil {
		return nil, apperr.NotFound("parent category not found")
	}

	existing, err := uc.repo.FindChildByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err, "find child category")
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.KindConflict, "child category %q already exists", name)
	}

	branches, err := uc.resolveBranches(ctx, input.BranchNames)
	if err != nil {
		return nil, err
	}
	branchIDs := make([]string, 0, len(branches))
	for _, b := range branches {
		branchIDs = append(branchIDs, b.ID)
	}

	now := time.Now()
	child := &model.ChildCategory{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ParentID:    parent.ID,
		Name:        name,
		Description: &input.Description,
		Branches:    branches,
	}

	if err := uc.repo.CreateChild(ctx, child, branchIDs); err != nil {
		return nil, apperr.Internal(err, "create child category")
	}
	return child, nil
}

// resolveBranches maps branch names to entities. Unknown names are skipped,
// not rejected; the warn log keeps the leniency visible in operation.
func (uc *categoryUseCase) resolveBranches(ctx context.Context, names []string) ([]model.Branch, error) {
	if len(names) == 0 {
		return nil, nil
	}

	branches, err := uc.branchRepo.FindByNames(ctx, names)
	if err != nil {
		return nil, apperr.Internal(err, "resolve branches")
	}

	if len(branches) < len(names) {
		resolved := make(map[string]bool, len(branches))
		for _, b := range branches {
			resolved[b.Name] = true
		}
		for _, name := range names {
			if !resolved[name] {
				uc.logger.Warn("skipping unknown branch on child category", zap.String("branch", name))
			}
		}
	}
	return branches, nil
}

func (uc *categoryUseCase) UpdateChild(ctx context.Context, input *dto.UpdateChildInput) (*model.ChildCategory, error) {
	if err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ID) == "" {
		return nil, apperr.InvalidInput("category id is required")
	}

	child, err := uc.repo.FindChildByID(ctx, input.ID)
	if err != nil {
		return nil, apperr.Internal(err, "find child category")
	}
	if child == nil {
		return nil, apperr.NotFound("child category not found")
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != child.Name {
		dup, err := uc.repo.FindChildByName(ctx, name)
		if err != nil {
			return nil, apperr.Internal(err, "find child category")
		}
		if dup != nil {
			return nil, apperr.Newf(apperr.KindConflict, "child category %q already exists", name)
		}
		child.Name = name
	}
	child.Description = &input.Description
	child.UpdatedAt = time.Now()

	if err := uc.repo.UpdateChild(ctx, child); err != nil {
		return nil, apperr.Internal(err, "update child category")
	}
	return child, nil
}

func (uc *categoryUseCase) DeleteChild(ctx context.Context, id string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperr.InvalidInput("category id is required")
	}

	child, err := uc.repo.FindChildByID(ctx, id)
	if err != nil {
		return apperr.Internal(err, "find child category")
	}
	if child == nil {
		return apperr.NotFound("child category not found")
	}

	// No upward cascade: the parent stays.
	if err := uc.repo.DeleteChild(ctx, id); err != nil {
		return apperr.Internal(err, "delete child category")
	}
	return nil
}

func (uc *categoryUseCase) FindChildByName(ctx context.Context, name string) (*model.ChildCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.InvalidInput("category name is required")
	}
	child, err := uc.repo.FindChildByName(ctx, name)
	if err != nil {
		return nil, apperr.Internal(err, "find child category")
	}
	if child == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "child category %q not found", name)
	}
	return child, nil
}

func (uc *categoryUseCase) FindChildrenByNames(ctx context.Context, names []string) ([]model.ChildCategory, error) {
	children, _, err := uc.resolveChildren(ctx, names)
	return children, err
}

func (uc *categoryUseCase) IsSameParent(ctx context.Context, childNames []string) (bool, error) {
	children, _, err := uc.resolveChildren(ctx, childNames)
	if err != nil {
		return false, err
	}

	parentID := children[0].ParentID
	for _, c := range children[1:] {
		if c.ParentID != parentID {
			return false, nil
		}
	}
	return true, nil
}

// resolveChildren maps names to child categories, requiring every name to
// resolve. Returns the distinct name count so callers can detect duplicates.
func (uc *categoryUseCase) resolveChildren(ctx context.Context, names []string) ([]model.ChildCategory, int, error) {
	if len(names) == 0 {
		return nil, 0, apperr.InvalidInput("child category names are required")
	}

	distinct := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, 0, apperr.InvalidInput("child category name must not be blank")
		}
		if !seen[name] {
			seen[name] = true
			distinct = append(distinct, name)
		}
	}

	children, err := uc.repo.FindChildrenByNames(ctx, distinct)
	if err != nil {
		return nil, 0, apperr.Internal(err, "resolve child categories")
	}
	if len(children) != len(distinct) {
		found := make(map[string]bool, len(children))
		for _, c := range children {
			found[c.Name] = true
		}
		for _, name := range distinct {
			if !found[name] {
				return nil, 0, apperr.Newf(apperr.KindInvalidInput, "child category %q does not exist", name)
			}
		}
	}
	return children, len(distinct), nil
}
