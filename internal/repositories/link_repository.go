package repositories

import (
	"database/sql"
	"time"

	"github.com/reposcope/reposcope/internal/models"
)

type LinkRepository struct {
	db *sql.DB
}

func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{
		db: db,
	}
}

const linkColumns = `id, source_entity_id, target_entity_id, link_type, position, created_at`

// Upsert inserts a link or refreshes the position of an existing one.
// (source, target, type) identifies a link; duplicates collapse.
func (r *LinkRepository) Upsert(link *models.Link) error {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT(source_entity_id, target_entity_id, link_type) DO UPDATE SET
			position = excluded.position
	`
	_, err := r.db.Exec(query,
		link.ID,
		link.SourceEntityID,
		link.TargetEntityID,
		link.LinkType,
		link.Position,
		link.CreatedAt,
	)
	return err
}

// GetBySource retrieves the outgoing links of an entity
func (r *LinkRepository) GetBySource(sourceEntityID string) ([]*models.Link, error) {
	return r.query(`SELECT `+linkColumns+` FROM links WHERE source_entity_id = $1 ORDER BY link_type, position`, sourceEntityID)
}

// GetByTarget retrieves the incoming links of an entity
func (r *LinkRepository) GetByTarget(targetEntityID string) ([]*models.Link, error) {
	return r.query(`SELECT `+linkColumns+` FROM links WHERE target_entity_id = $1 ORDER BY link_type, position`, targetEntityID)
}

// Count returns the number of links
func (r *LinkRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM links`).Scan(&count)
	return count, err
}

// DeleteBySource removes an entity's outgoing links
func (r *LinkRepository) DeleteBySource(sourceEntityID string) error {
	_, err := r.db.Exec(`DELETE FROM links WHERE source_entity_id = $1`, sourceEntityID)
	return err
}

func (r *LinkRepository) query(query string, arg interface{}) ([]*models.Link, error) {
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*models.Link
	for rows.Next() {
		link := &models.Link{}
		err := rows.Scan(&link.ID, &link.SourceEntityID, &link.TargetEntityID, &link.LinkType,
			&link.Position, &link.CreatedAt)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}
