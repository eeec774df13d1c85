package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
)

func seedSuggestionPool(t *testing.T, e *engine) {
	t.Helper()
	ctx := context.Background()
	for _, r := range []domain.Resource{
		{ID: "r1", Type: "ec2-instance", Name: "web-01", Region: "us-east-1", Category: domain.CategoryOld},
		{ID: "r2", Type: "ec2-instance", Name: "web-01-new", Region: "us-east-1", Category: domain.CategoryNew},
		{ID: "r3", Type: "ebs-volume", Name: "data", Region: "us-east-1", Category: domain.CategoryNew},
		{ID: "r4", Type: "ec2-instance", Name: "batch", Region: "eu-west-1", Category: domain.CategoryUncategorized},
	} {
		require.NoError(t, e.resources.Save(ctx, r))
	}
}

func TestSuggestionService_Suggest(t *testing.T) {
	e := newEngine(t)
	seedSuggestionPool(t, e)
	svc := NewSuggestionService(e.resources, e.mappings, domain.DefaultEngineSettings().Suggest)

	got, err := svc.Suggest(context.Background(), domain.ResourceFilter{}, domain.SuggestOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, got)

	assert.Equal(t, "r1", got[0].SourceID)
	assert.Equal(t, "r2", got[0].TargetID)
	assert.Equal(t, 75, got[0].Confidence)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}
}

func TestSuggestionService_PoolFilterAndLimit(t *testing.T) {
	e := newEngine(t)
	seedSuggestionPool(t, e)
	svc := NewSuggestionService(e.resources, e.mappings, domain.DefaultEngineSettings().Suggest)
	ctx := context.Background()

	got, err := svc.Suggest(ctx, domain.ResourceFilter{Region: "us-east-1"}, domain.SuggestOptions{})
	require.NoError(t, err)
	for _, s := range got {
		assert.NotEqual(t, "r4", s.SourceID)
	}

	limited, err := svc.Suggest(ctx, domain.ResourceFilter{}, domain.SuggestOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	strict, err := svc.Suggest(ctx, domain.ResourceFilter{}, domain.SuggestOptions{MinConfidence: ptr(75)})
	require.NoError(t, err)
	assert.Empty(t, strict)

	_, err = svc.Suggest(ctx, domain.ResourceFilter{}, domain.SuggestOptions{MinConfidence: ptr(101)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSuggestionService_ExplicitZeroThreshold(t *testing.T) {
	e := newEngine(t)
	seedSuggestionPool(t, e)
	settings := domain.DefaultEngineSettings().Suggest
	settings.MinConfidence = 90
	svc := NewSuggestionService(e.resources, e.mappings, settings)
	ctx := context.Background()

	configured, err := svc.Suggest(ctx, domain.ResourceFilter{}, domain.SuggestOptions{})
	require.NoError(t, err)
	assert.Empty(t, configured)

	all, err := svc.Suggest(ctx, domain.ResourceFilter{}, domain.SuggestOptions{MinConfidence: ptr(0)})
	require.NoError(t, err)
	require.NotEmpty(t, all)
	assert.Equal(t, "r1", all[0].SourceID)
	assert.Equal(t, "r2", all[0].TargetID)
}

func TestSuggestionService_DropsMappedPairs(t *testing.T) {
	e := newEngine(t)
	seedSuggestionPool(t, e)
	svc := NewSuggestionService(e.resources, e.mappings, domain.DefaultEngineSettings().Suggest)
	ctx := context.Background()

	_, err := e.graph.Create(ctx, oldToNew([]string{"r1"}, []string{"r2"}))
	require.NoError(t, err)

	got, err := svc.Suggest(ctx, domain.ResourceFilter{}, domain.SuggestOptions{})
	require.NoError(t, err)
	for _, s := range got {
		assert.False(t, s.SourceID == "r1" && s.TargetID == "r2")
	}

	all, err := svc.Suggest(ctx, domain.ResourceFilter{}, domain.SuggestOptions{IncludeMapped: true})
	require.NoError(t, err)
	assert.Equal(t, "r2", all[0].TargetID)
}

func TestSuggestionService_DoesNotMutate(t *testing.T) {
	e := newEngine(t)
	seedSuggestionPool(t, e)
	svc := NewSuggestionService(e.resources, nil, domain.DefaultEngineSettings().Suggest)
	ctx := context.Background()

	before, err := e.resources.List(ctx)
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, domain.ResourceFilter{}, domain.SuggestOptions{})
	require.NoError(t, err)
	after, err := e.resources.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}
