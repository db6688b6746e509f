package product_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvmanh/techshop-catalog-service/internal/auth"
	"github.com/nvmanh/techshop-catalog-service/internal/model"
	"github.com/nvmanh/techshop-catalog-service/internal/product"
)

func TestEligibleStatuses(t *testing.T) {
	t.Parallel()

	t.Run("admin has no status restriction", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, product.EligibleStatuses(auth.RoleAdmin))
	})

	t.Run("user never sees deleted rows", func(t *testing.T) {
		t.Parallel()
		got := product.EligibleStatuses(auth.RoleUser)
		assert.ElementsMatch(t, []model.EntityStatus{model.StatusCreated, model.StatusUpdated}, got)
	})

	t.Run("anonymous is treated like a user", func(t *testing.T) {
		t.Parallel()
		got := product.EligibleStatuses("")
		assert.ElementsMatch(t, []model.EntityStatus{model.StatusCreated, model.StatusUpdated}, got)
	})
}

func TestVisibleTo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		role   string
		status model.EntityStatus
		want   bool
	}{
		{"admin sees deleted", auth.RoleAdmin, model.StatusDeleted, true},
		{"admin sees created", auth.RoleAdmin, model.StatusCreated, true},
		{"user sees created", auth.RoleUser, model.StatusCreated, true},
		{"user sees updated", auth.RoleUser, model.StatusUpdated, true},
		{"user does not see deleted", auth.RoleUser, model.StatusDeleted, false},
		{"anonymous does not see deleted", "", model.StatusDeleted, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, product.VisibleTo(tc.role, tc.status))
		})
	}
}
