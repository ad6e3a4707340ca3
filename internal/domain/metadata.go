package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Metadata holds arbitrary key-value metadata, stored as JSONB.
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &m)
}

// AuditLog records order and notification events for later review.
type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   string          `json:"entity_id" db:"entity_id"`
	Actor      string          `json:"actor" db:"actor"`
	NewValues  json.RawMessage `json:"new_values" db:"new_values"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}
