package apperr_test

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/nvmanh/techshop-catalog-service/internal/apperr"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	t.Run("typed errors report their kind", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(apperr.NotFound("product missing")))
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(apperr.Conflict("duplicate name")))
		assert.Equal(t, apperr.KindAlreadyProcessed, apperr.KindOf(apperr.AlreadyProcessed("order shipped")))
	})

	t.Run("untyped errors are internal", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("boom")))
	})

	t.Run("kind survives further wrapping", func(t *testing.T) {
		t.Parallel()
		err := errors.Wrap(apperr.NotFound("order missing"), "load order")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("nil cause stays nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, apperr.Wrap(apperr.KindConflict, nil, "ignored"))
		assert.NoError(t, apperr.Internal(nil, "ignored"))
	})

	t.Run("cause is reachable through Unwrap", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection refused")
		err := apperr.Internal(cause, "query products")
		assert.ErrorContains(t, err, "query products")
		assert.True(t, errors.Is(err, cause))
	})
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{apperr.InvalidInput("bad page"), http.StatusBadRequest},
		{apperr.NotFound("no such product"), http.StatusNotFound},
		{apperr.Conflict("name taken"), http.StatusConflict},
		{apperr.AlreadyProcessed("order shipped"), http.StatusConflict},
		{apperr.NotAuthorized("admin only"), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, apperr.HTTPStatus(tc.err), "err=%v", tc.err)
	}
}
