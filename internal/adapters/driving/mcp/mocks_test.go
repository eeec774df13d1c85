package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driving"
)

// mockCategoryService is a mock implementation of driving.CategoryService.
type mockCategoryService struct {
	resource *domain.Resource
	snapshot domain.CategorySnapshot
	err      error

	gotID       string
	gotCategory domain.Category
	gotNotes    string
}

func (m *mockCategoryService) Categorize(
	_ context.Context,
	id string,
	category domain.Category,
	notes string,
) (*domain.Resource, error) {
	m.gotID, m.gotCategory, m.gotNotes = id, category, notes
	return m.resource, m.err
}

func (m *mockCategoryService) Categories(_ context.Context) (domain.CategorySnapshot, error) {
	return m.snapshot, m.err
}

// mockMappingService is a mock implementation of driving.MappingService.
type mockMappingService struct {
	group *domain.MappingGroup
	page  *domain.Page[domain.MappingGroup]
	err   error

	gotRequest  domain.MappingRequest
	gotID       string
	gotPatch    domain.MappingPatch
	gotTargets  []string
	gotStatus   domain.MigrationStatus
	gotExpected time.Time
	gotFilter   domain.MappingFilter
	gotSort     domain.Sort
	gotCursor   string
	gotPageSize int
}

var _ driving.MappingService = (*mockMappingService)(nil)

func (m *mockMappingService) Create(_ context.Context, req domain.MappingRequest) (*domain.MappingGroup, error) {
	m.gotRequest = req
	return m.group, m.err
}

func (m *mockMappingService) ConfirmSuggestion(
	_ context.Context,
	_ domain.Suggestion,
	_ domain.MappingType,
	_ string,
) (*domain.MappingGroup, error) {
	return m.group, m.err
}

func (m *mockMappingService) Get(_ context.Context, _ string) (*domain.MappingGroup, error) {
	return m.group, m.err
}

func (m *mockMappingService) Update(
	_ context.Context,
	id string,
	patch domain.MappingPatch,
	expected time.Time,
) (*domain.MappingGroup, error) {
	m.gotID, m.gotPatch, m.gotExpected = id, patch, expected
	return m.group, m.err
}

func (m *mockMappingService) AddTargets(
	_ context.Context,
	id string,
	targetIDs []string,
	expected time.Time,
) (*domain.MappingGroup, error) {
	m.gotID, m.gotTargets, m.gotExpected = id, targetIDs, expected
	return m.group, m.err
}

func (m *mockMappingService) RemoveTargets(
	_ context.Context,
	id string,
	targetIDs []string,
	expected time.Time,
) (*domain.MappingGroup, error) {
	m.gotID, m.gotTargets, m.gotExpected = id, targetIDs, expected
	return m.group, m.err
}

func (m *mockMappingService) Delete(_ context.Context, id string, expected time.Time) error {
	m.gotID, m.gotExpected = id, expected
	return m.err
}

func (m *mockMappingService) AdvanceStatus(
	_ context.Context,
	_ string,
	status domain.MigrationStatus,
	expected time.Time,
) (*domain.MappingGroup, error) {
	m.gotStatus, m.gotExpected = status, expected
	return m.group, m.err
}

func (m *mockMappingService) List(
	_ context.Context,
	filter domain.MappingFilter,
	sort domain.Sort,
	cursor string,
	pageSize int,
) (*domain.Page[domain.MappingGroup], error) {
	m.gotFilter, m.gotSort, m.gotCursor, m.gotPageSize = filter, sort, cursor, pageSize
	return m.page, m.err
}

// mockSuggestionService is a mock implementation of driving.SuggestionService.
type mockSuggestionService struct {
	suggestions []domain.Suggestion
	err         error

	gotPool domain.ResourceFilter
	gotOpts domain.SuggestOptions
}

func (m *mockSuggestionService) Suggest(
	_ context.Context,
	pool domain.ResourceFilter,
	opts domain.SuggestOptions,
) ([]domain.Suggestion, error) {
	m.gotPool, m.gotOpts = pool, opts
	return m.suggestions, m.err
}

// mockBulkService is a mock implementation of driving.BulkService.
type mockBulkService struct {
	categorized *domain.BulkResult[domain.Resource]
	err         error

	gotIDs  []string
	gotOpts domain.BulkOptions
}

func (m *mockBulkService) BulkCategorize(
	_ context.Context,
	ids []string,
	_ domain.Category,
	opts domain.BulkOptions,
) (*domain.BulkResult[domain.Resource], error) {
	m.gotIDs, m.gotOpts = ids, opts
	return m.categorized, m.err
}

func (m *mockBulkService) BulkMap(
	_ context.Context,
	_ []domain.MappingRequest,
	_ domain.BulkOptions,
) (*domain.BulkResult[domain.MappingGroup], error) {
	return nil, m.err
}

func (m *mockBulkService) BulkDeleteMappings(
	_ context.Context,
	_ []domain.MappingRef,
	_ domain.BulkOptions,
) (*domain.BulkResult[string], error) {
	return nil, m.err
}

// mockInventoryService is a mock implementation of driving.InventoryService.
type mockInventoryService struct {
	export *domain.Export
	err    error
}

func (m *mockInventoryService) Sync(_ context.Context) (*domain.SyncReport, error) {
	return nil, m.err
}

func (m *mockInventoryService) Refresh(_ context.Context, _ string) (*domain.Resource, error) {
	return nil, m.err
}

func (m *mockInventoryService) Get(_ context.Context, _ string) (*domain.Resource, error) {
	return nil, m.err
}

func (m *mockInventoryService) List(
	_ context.Context,
	_ domain.ResourceFilter,
	_ domain.Sort,
	_ string,
	_ int,
) (*domain.Page[domain.Resource], error) {
	return nil, m.err
}

func (m *mockInventoryService) Export(_ context.Context) (*domain.Export, error) {
	return m.export, m.err
}
