// internal/models/audit_log.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog records a catalog mutation made through the API.
type AuditLog struct {
	BaseModel
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:50;index"`
	ResourceID   *uuid.UUID `json:"resource_id,omitempty" gorm:"type:uuid;index"`
	IPAddress    string     `json:"ip_address" gorm:"size:64"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`
	Payload      JSONB      `json:"payload" gorm:"type:jsonb"`
	Status       int        `json:"status"`
	DurationMs   int64      `json:"duration_ms"`
}
