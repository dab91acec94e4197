package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "score-tracker:", nil)
	ctx := context.Background()

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "curriculum:units", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "curriculum:units", []string{"a"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "curriculum:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.Equal(t, "score-tracker:curriculum:units", repo.key("curriculum:units"))
}
