// Package sqlite implements the FlowStore port on an embedded SQLite
// database. Child collections live in their own tables with cascading
// deletes; the raw model output is kept verbatim alongside the typed rows
// for audit.
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

	"github.com/procflow-labs/procflow-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/procflow-labs/procflow-cli/internal/core/domain"
	"github.com/procflow-labs/procflow-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FlowStore = (*Store)(nil)

// Store is a SQLite-backed flow store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.procflow/data/flows.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".procflow", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "flows.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
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

// migrate runs all pending migrations.
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

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
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

// SaveFlow writes the flow and all child collections in one transaction
// and returns the assigned identifier. On any failure the transaction
// rolls back in full - a flow is never persisted without its children.
func (s *Store) SaveFlow(ctx context.Context, flow *domain.ProcessFlow) (int64, error) {
	rawJSON, err := json.Marshal(flow.Raw)
	if err != nil {
		return 0, fmt.Errorf("%w: marshalling raw data: %w", domain.ErrStorage, err)
	}

	createdAt := flow.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning transaction: %w", domain.ErrStorage, err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx, `
		INSERT INTO process_flows
			(process_name, process_description, source_document, document_path,
			 document_relative_path, extraction_model, raw_data, extraction_timestamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, flow.ProcessName, flow.ProcessDescription, flow.SourceDocument, flow.DocumentPath,
		flow.DocumentRelativePath, flow.ExtractionModel, string(rawJSON),
		createdAt.Format(time.RFC3339), createdAt)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting flow: %w", domain.ErrStorage, err)
	}

	flowID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading flow id: %w", domain.ErrStorage, err)
	}

	for _, step := range flow.Steps {
		inputs, outputs, decisions, nextSteps, err := marshalStepLists(step)
		if err != nil {
			return 0, fmt.Errorf("%w: marshalling step %d: %w", domain.ErrStorage, step.StepNumber, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO process_steps
				(process_flow_id, step_number, step_name, description, responsible_role,
				 inputs, outputs, decision_points, next_steps)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, flowID, step.StepNumber, step.StepName, step.Description, step.ResponsibleRole,
			inputs, outputs, decisions, nextSteps); err != nil {
			return 0, fmt.Errorf("%w: inserting step %d: %w", domain.ErrStorage, step.StepNumber, err)
		}
	}

	for _, role := range flow.Roles {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO process_roles (process_flow_id, role_name) VALUES (?, ?)",
			flowID, role); err != nil {
			return 0, fmt.Errorf("%w: inserting role: %w", domain.ErrStorage, err)
		}
	}

	for _, tool := range flow.ToolsSystems {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO process_tools (process_flow_id, tool_name) VALUES (?, ?)",
			flowID, tool); err != nil {
			return 0, fmt.Errorf("%w: inserting tool: %w", domain.ErrStorage, err)
		}
	}

	for _, req := range flow.ComplianceRequirements {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO compliance_requirements (process_flow_id, requirement) VALUES (?, ?)",
			flowID, req); err != nil {
			return 0, fmt.Errorf("%w: inserting compliance requirement: %w", domain.ErrStorage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing transaction: %w", domain.ErrStorage, err)
	}

	return flowID, nil
}

// GetFlow reconstructs a stored flow with all child collections.
func (s *Store) GetFlow(ctx context.Context, id int64) (*domain.ProcessFlow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, process_name, process_description, source_document, document_path,
		       document_relative_path, extraction_model, raw_data, created_at
		FROM process_flows WHERE id = ?
	`, id)

	var flow domain.ProcessFlow
	var rawJSON sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&flow.ID, &flow.ProcessName, &flow.ProcessDescription,
		&flow.SourceDocument, &flow.DocumentPath, &flow.DocumentRelativePath,
		&flow.ExtractionModel, &rawJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: flow %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: scanning flow: %w", domain.ErrStorage, err)
	}

	if createdAt.Valid {
		flow.CreatedAt = createdAt.Time
	}
	if rawJSON.Valid && rawJSON.String != "" {
		if err := json.Unmarshal([]byte(rawJSON.String), &flow.Raw); err != nil {
			return nil, fmt.Errorf("%w: unmarshalling raw data: %w", domain.ErrStorage, err)
		}
	}

	steps, err := s.getSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	flow.Steps = steps

	flow.Roles, err = s.getStrings(ctx, "SELECT role_name FROM process_roles WHERE process_flow_id = ? ORDER BY id", id)
	if err != nil {
		return nil, err
	}
	flow.ToolsSystems, err = s.getStrings(ctx, "SELECT tool_name FROM process_tools WHERE process_flow_id = ? ORDER BY id", id)
	if err != nil {
		return nil, err
	}
	flow.ComplianceRequirements, err = s.getStrings(ctx, "SELECT requirement FROM compliance_requirements WHERE process_flow_id = ? ORDER BY id", id)
	if err != nil {
		return nil, err
	}

	return &flow, nil
}

// ListFlows returns summaries of all stored flows, newest first.
func (s *Store) ListFlows(ctx context.Context) ([]domain.FlowSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.process_name, f.process_description, f.source_document,
		       f.extraction_model, f.created_at,
		       (SELECT COUNT(*) FROM process_steps WHERE process_flow_id = f.id)
		FROM process_flows f
		ORDER BY f.created_at DESC, f.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying flows: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	var summaries []domain.FlowSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var summary domain.FlowSummary
		var createdAt sql.NullTime
		if err := rows.Scan(&summary.ID, &summary.ProcessName, &summary.ProcessDescription,
			&summary.SourceDocument, &summary.ExtractionModel, &createdAt, &summary.StepCount); err != nil {
			return nil, fmt.Errorf("%w: scanning flow summary: %w", domain.ErrStorage, err)
		}
		if createdAt.Valid {
			summary.CreatedAt = createdAt.Time
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating flows: %w", domain.ErrStorage, err)
	}

	return summaries, nil
}

// DeleteFlow removes a flow; child rows cascade via foreign keys.
func (s *Store) DeleteFlow(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM process_flows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: deleting flow: %w", domain.ErrStorage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: reading affected rows: %w", domain.ErrStorage, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: flow %d", domain.ErrNotFound, id)
	}
	return nil
}

// getSteps loads the step list for a flow. Rows come back by insertion
// id so steps round-trip in extraction order, which is not necessarily
// numeric step_number order.
func (s *Store) getSteps(ctx context.Context, flowID int64) ([]domain.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT step_number, step_name, description, responsible_role,
		       inputs, outputs, decision_points, next_steps
		FROM process_steps WHERE process_flow_id = ?
		ORDER BY id
	`, flowID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying steps: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	steps := []domain.Step{}
	for rows.Next() {
		var step domain.Step
		var inputs, outputs, decisions, nextSteps sql.NullString
		if err := rows.Scan(&step.StepNumber, &step.StepName, &step.Description,
			&step.ResponsibleRole, &inputs, &outputs, &decisions, &nextSteps); err != nil {
			return nil, fmt.Errorf("%w: scanning step: %w", domain.ErrStorage, err)
		}

		if err := unmarshalList(inputs, &step.Inputs); err != nil {
			return nil, fmt.Errorf("%w: unmarshalling step inputs: %w", domain.ErrStorage, err)
		}
		if err := unmarshalList(outputs, &step.Outputs); err != nil {
			return nil, fmt.Errorf("%w: unmarshalling step outputs: %w", domain.ErrStorage, err)
		}
		if err := unmarshalList(decisions, &step.DecisionPoints); err != nil {
			return nil, fmt.Errorf("%w: unmarshalling step decision points: %w", domain.ErrStorage, err)
		}
		if err := unmarshalList(nextSteps, &step.NextSteps); err != nil {
			return nil, fmt.Errorf("%w: unmarshalling step next steps: %w", domain.ErrStorage, err)
		}

		steps = append(steps, step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating steps: %w", domain.ErrStorage, err)
	}

	return steps, nil
}

// getStrings runs a single-column query and collects the values.
func (s *Store) getStrings(ctx context.Context, query string, flowID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, flowID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying: %w", domain.ErrStorage, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("%w: scanning value: %w", domain.ErrStorage, err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating values: %w", domain.ErrStorage, err)
	}

	return values, nil
}

// marshalStepLists serialises a step's list columns as JSON text.
func marshalStepLists(step domain.Step) (inputs, outputs, decisions, nextSteps string, err error) {
	b, err := json.Marshal(orEmptyStrings(step.Inputs))
	if err != nil {
		return "", "", "", "", err
	}
	inputs = string(b)

	b, err = json.Marshal(orEmptyStrings(step.Outputs))
	if err != nil {
		return "", "", "", "", err
	}
	outputs = string(b)

	b, err = json.Marshal(orEmptyStrings(step.DecisionPoints))
	if err != nil {
		return "", "", "", "", err
	}
	decisions = string(b)

	ns := step.NextSteps
	if ns == nil {
		ns = []int{}
	}
	b, err = json.Marshal(ns)
	if err != nil {
		return "", "", "", "", err
	}
	nextSteps = string(b)

	return inputs, outputs, decisions, nextSteps, nil
}

// unmarshalList decodes a JSON list column into dst, treating NULL and
// empty text as an empty list.
func unmarshalList[T any](col sql.NullString, dst *[]T) error {
	if !col.Valid || col.String == "" {
		*dst = []T{}
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}

func orEmptyStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
