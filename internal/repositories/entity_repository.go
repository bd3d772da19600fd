package repositories

import (
	"database/sql"
	"time"

	"github.com/reposcope/reposcope/internal/models"
)

type EntityRepository struct {
	db *sql.DB
}

func NewEntityRepository(db *sql.DB) *EntityRepository {
	return &EntityRepository{
		db: db,
	}
}

const entityColumns = `id, name, display_name, description, scope, entity_type, url, created_at, updated_at`

// Upsert inserts an entity or refreshes an existing one by name. The
// entity's ID is rewritten to the stored row's ID so link building always
// references the persisted entity.
func (r *EntityRepository) Upsert(entity *models.Entity) error {
	now := time.Now().UTC()
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = now
	}
	entity.UpdatedAt = now

	query := `
		INSERT INTO entities (` + entityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT(name) DO UPDATE SET
			display_name = excluded.display_name,
			description = excluded.description,
			scope = excluded.scope,
			entity_type = excluded.entity_type,
			url = excluded.url,
			updated_at = excluded.updated_at
	`
	_, err := r.db.Exec(query,
		entity.ID,
		entity.Name,
		entity.DisplayName,
		entity.Description,
		entity.Scope,
		entity.EntityType,
		entity.URL,
		entity.CreatedAt,
		entity.UpdatedAt,
	)
	if err != nil {
		return err
	}

	var storedID string
	if err := r.db.QueryRow(`SELECT id FROM entities WHERE name = $1`, entity.Name).Scan(&storedID); err != nil {
		return err
	}
	entity.ID = storedID
	return nil
}

// GetByName retrieves an entity by its unique name
func (r *EntityRepository) GetByName(name string) (*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE name = $1`
	entity := &models.Entity{}
	err := r.db.QueryRow(query, name).Scan(
		&entity.ID,
		&entity.Name,
		&entity.DisplayName,
		&entity.Description,
		&entity.Scope,
		&entity.EntityType,
		&entity.URL,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// List retrieves entities, optionally narrowed by scope and type
func (r *EntityRepository) List(scope, entityType string) ([]*models.Entity, error) {
	query := `SELECT ` + entityColumns + ` FROM entities WHERE 1=1`
	var args []interface{}
	if scope != "" {
		args = append(args, scope)
		query += ` AND scope = $` + itoa(len(args))
	}
	if entityType != "" {
		args = append(args, entityType)
		query += ` AND entity_type = $` + itoa(len(args))
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entities []*models.Entity
	for rows.Next() {
		entity := &models.Entity{}
		err := rows.Scan(&entity.ID, &entity.Name, &entity.DisplayName, &entity.Description, &entity.Scope,
			&entity.EntityType, &entity.URL, &entity.CreatedAt, &entity.UpdatedAt)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, rows.Err()
}

// Count returns the number of entities
func (r *EntityRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM entities`).Scan(&count)
	return count, err
}

// DeleteAll clears the entity layer; links cascade away with it
func (r *EntityRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM entities`)
	return err
}
