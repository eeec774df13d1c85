package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/shiftmap/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/shiftmap/internal/core/domain"
	"github.com/custodia-labs/shiftmap/internal/core/ports/driven"
)

// Member roles in mapping_members.
const (
	roleSource = "source"
	roleTarget = "target"
)

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.shiftmap/data/shiftmap.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".shiftmap", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "shiftmap.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ResourceStore returns a ResourceStore interface backed by this store.
func (s *Store) ResourceStore() driven.ResourceStore {
	return &resourceStore{store: s}
}

// MappingStore returns a MappingStore interface backed by this store.
func (s *Store) MappingStore() driven.MappingStore {
	return &mappingStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Resource Store ====================

// resourceStore implements driven.ResourceStore.
type resourceStore struct {
	store *Store
}

var _ driven.ResourceStore = (*resourceStore)(nil)

const resourceColumns = `id, type, region, name, category, tags, last_seen_at, categorized_at, category_notes`

const upsertResource = `
	INSERT INTO resources (` + resourceColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		type = excluded.type,
		region = excluded.region,
		name = excluded.name,
		category = excluded.category,
		tags = excluded.tags,
		last_seen_at = excluded.last_seen_at,
		categorized_at = excluded.categorized_at,
		category_notes = excluded.category_notes
`

const insertDiscovered = `
	INSERT INTO resources (` + resourceColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO NOTHING
`

const refreshDiscovered = `
	UPDATE resources
	SET type = ?, region = ?, name = ?, tags = ?, last_seen_at = ?
	WHERE id = ?
`

// Save stores or updates a resource.
func (s *resourceStore) Save(ctx context.Context, resource domain.Resource) error {
	args, err := resourceArgs(resource)
	if err != nil {
		return err
	}
	if _, err := s.store.db.ExecContext(ctx, upsertResource, args...); err != nil {
		return fmt.Errorf("saving resource: %w", err)
	}
	return nil
}

// SaveBatch stores or updates several resources in one transaction.
func (s *resourceStore) SaveBatch(ctx context.Context, resources []domain.Resource) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, upsertResource)
	if err != nil {
		return fmt.Errorf("preparing resource upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range resources {
		args, err := resourceArgs(r)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("saving resource %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing resources: %w", err)
	}
	return nil
}

// Get retrieves a resource by ID.
func (s *resourceStore) Get(ctx context.Context, id string) (*domain.Resource, error) {
	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id)

	r, err := scanResource(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// List returns all resources ordered by ID.
func (s *resourceStore) List(ctx context.Context) ([]domain.Resource, error) {
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+resourceColumns+` FROM resources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying resources: %w", err)
	}
	defer rows.Close()
	return scanResources(rows)
}

// ListAfter returns up to limit resources with an ID greater than afterID.
func (s *resourceStore) ListAfter(ctx context.Context, afterID string, limit int) ([]domain.Resource, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.store.db.QueryContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id > ? ORDER BY id LIMIT ?`, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying resources: %w", err)
	}
	defer rows.Close()
	return scanResources(rows)
}

// SaveDiscovered inserts new resources uncategorized and refreshes only the
// discovery columns of known ones, all in one transaction.
func (s *resourceStore) SaveDiscovered(ctx context.Context, resources []domain.Resource) (int, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert, err := tx.PrepareContext(ctx, insertDiscovered)
	if err != nil {
		return 0, fmt.Errorf("preparing resource insert: %w", err)
	}
	defer insert.Close()
	refresh, err := tx.PrepareContext(ctx, refreshDiscovered)
	if err != nil {
		return 0, fmt.Errorf("preparing resource refresh: %w", err)
	}
	defer refresh.Close()

	added := 0
	for _, r := range resources {
		r.Category = domain.CategoryUncategorized
		r.CategorizedAt = time.Time{}
		r.CategoryNotes = ""
		args, err := resourceArgs(r)
		if err != nil {
			return 0, err
		}
		res, err := insert.ExecContext(ctx, args...)
		if err != nil {
			return 0, fmt.Errorf("saving resource %s: %w", r.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
			continue
		}
		// args: id, type, region, name, category, tags, last_seen_at, ...
		if _, err := refresh.ExecContext(ctx, args[1], args[2], args[3], args[5], args[6], r.ID); err != nil {
			return 0, fmt.Errorf("refreshing resource %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing resources: %w", err)
	}
	return added, nil
}

func resourceArgs(r domain.Resource) ([]any, error) {
	tags := r.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshalling tags: %w", err)
	}
	category := r.Category
	if category == "" {
		category = domain.CategoryUncategorized
	}
	return []any{
		r.ID, r.Type, r.Region, r.Name, string(category), string(tagsJSON),
		toNanos(r.LastSeenAt), toNanos(r.CategorizedAt), r.CategoryNotes,
	}, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanResource(row scanner) (*domain.Resource, error) {
	var r domain.Resource
	var category, tagsJSON string
	var lastSeen, categorized int64
	if err := row.Scan(&r.ID, &r.Type, &r.Region, &r.Name, &category, &tagsJSON,
		&lastSeen, &categorized, &r.CategoryNotes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning resource: %w", err)
	}

	r.Category = domain.Category(category)
	r.LastSeenAt = fromNanos(lastSeen)
	r.CategorizedAt = fromNanos(categorized)
	if tagsJSON != "" && tagsJSON != "{}" {
		if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil {
			return nil, fmt.Errorf("unmarshalling tags: %w", err)
		}
	}
	return &r, nil
}

func scanResources(rows *sql.Rows) ([]domain.Resource, error) {
	resources := []domain.Resource{}
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resources: %w", err)
	}
	return resources, nil
}

// ==================== Mapping Store ====================

// mappingStore implements driven.MappingStore.
type mappingStore struct {
	store *Store
}

var _ driven.MappingStore = (*mappingStore)(nil)

const groupColumns = `id, mapping_type, mapping_direction, status, notes, confidence, created_at, updated_at`

// Create stores a new group with its members.
func (s *mappingStore) Create(ctx context.Context, group domain.MappingGroup) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM mapping_groups WHERE id = ?", group.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking mapping: %w", err)
	}
	if exists > 0 {
		return domain.ErrAlreadyExists
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO mapping_groups (`+groupColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, string(group.Type), string(group.Direction), string(group.Status), group.Notes,
		nullInt(group.Confidence), toNanos(group.CreatedAt), toNanos(group.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting mapping: %w", err)
	}
	if err := insertMembers(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing mapping: %w", err)
	}
	return nil
}

// Get retrieves a group by ID.
func (s *mappingStore) Get(ctx context.Context, id string) (*domain.MappingGroup, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM mapping_groups WHERE id = ?`, id)
	group, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT group_id, role, resource_id FROM mapping_members
		WHERE group_id = ? ORDER BY role, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	groups := map[string]*domain.MappingGroup{id: group}
	if err := scanMembers(rows, groups); err != nil {
		return nil, err
	}
	return group, nil
}

// List returns all groups ordered by ID.
func (s *mappingStore) List(ctx context.Context) ([]domain.MappingGroup, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+groupColumns+` FROM mapping_groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying mappings: %w", err)
	}

	var order []string
	byID := make(map[string]*domain.MappingGroup)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		order = append(order, g.ID)
		byID[g.ID] = g
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating mappings: %w", err)
	}
	rows.Close()

	memberRows, err := s.store.db.QueryContext(ctx, `
		SELECT group_id, role, resource_id FROM mapping_members
		ORDER BY group_id, role, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer memberRows.Close()
	if err := scanMembers(memberRows, byID); err != nil {
		return nil, err
	}

	groups := make([]domain.MappingGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, *byID[id])
	}
	return groups, nil
}

// Update replaces a group if its stored updated_at equals expected.
func (s *mappingStore) Update(ctx context.Context, group domain.MappingGroup, expected time.Time) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE mapping_groups SET
			mapping_type = ?, mapping_direction = ?, status = ?, notes = ?,
			confidence = ?, updated_at = ?
		WHERE id = ? AND updated_at = ?
	`, string(group.Type), string(group.Direction), string(group.Status), group.Notes,
		nullInt(group.Confidence), toNanos(group.UpdatedAt), group.ID, toNanos(expected))
	if err != nil {
		return fmt.Errorf("updating mapping: %w", err)
	}
	if err := s.checkSwapped(ctx, tx, res, group.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM mapping_members WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("clearing members: %w", err)
	}
	if err := insertMembers(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing mapping: %w", err)
	}
	return nil
}

// Delete removes a group if its stored updated_at equals expected.
// Members are removed by the foreign key cascade.
func (s *mappingStore) Delete(ctx context.Context, id string, expected time.Time) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "DELETE FROM mapping_groups WHERE id = ? AND updated_at = ?", id, toNanos(expected))
	if err != nil {
		return fmt.Errorf("deleting mapping: %w", err)
	}
	if err := s.checkSwapped(ctx, tx, res, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}
	return nil
}

// checkSwapped turns a zero-row compare-and-swap into ErrNotFound or ErrConflict.
func (s *mappingStore) checkSwapped(ctx context.Context, tx *sql.Tx, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM mapping_groups WHERE id = ?", id).Scan(&exists); err != nil {
		return fmt.Errorf("checking mapping: %w", err)
	}
	if exists == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrConflict
}

func insertMembers(ctx context.Context, tx *sql.Tx, group domain.MappingGroup) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO mapping_members (group_id, role, position, resource_id) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing member insert: %w", err)
	}
	defer stmt.Close()

	for role, ids := range map[string][]string{roleSource: group.SourceIDs, roleTarget: group.TargetIDs} {
		for pos, id := range ids {
			if _, err := stmt.ExecContext(ctx, group.ID, role, pos, id); err != nil {
				return fmt.Errorf("inserting %s %s: %w", role, id, err)
			}
		}
	}
	return nil
}

func scanGroup(row scanner) (*domain.MappingGroup, error) {
	var g domain.MappingGroup
	var mappingType, direction, status string
	var confidence sql.NullInt64
	var createdAt, updatedAt int64
	if err := row.Scan(&g.ID, &mappingType, &direction, &status, &g.Notes,
		&confidence, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning mapping: %w", err)
	}

	g.Type = domain.MappingType(mappingType)
	g.Direction = domain.MappingDirection(direction)
	g.Status = domain.MigrationStatus(status)
	if confidence.Valid {
		c := int(confidence.Int64)
		g.Confidence = &c
	}
	g.CreatedAt = fromNanos(createdAt)
	g.UpdatedAt = fromNanos(updatedAt)
	g.SourceIDs = []string{}
	g.TargetIDs = []string{}
	return &g, nil
}

// scanMembers appends member rows to their groups. Rows must be ordered by position.
func scanMembers(rows *sql.Rows, groups map[string]*domain.MappingGroup) error {
	for rows.Next() {
		var groupID, role, resourceID string
		if err := rows.Scan(&groupID, &role, &resourceID); err != nil {
			return fmt.Errorf("scanning member: %w", err)
		}
		g, ok := groups[groupID]
		if !ok {
			continue
		}
		if role == roleSource {
			g.SourceIDs = append(g.SourceIDs, resourceID)
		} else {
			g.TargetIDs = append(g.TargetIDs, resourceID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating members: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// toNanos encodes a time as Unix nanoseconds. The zero time encodes as 0.
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
