package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog records a change made to a doctor record and who made it.
// ActorID is the auth-service user id of the caller; it has no local foreign key.
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   *uuid.UUID `gorm:"type:uuid;index" json:"actorId,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Audit actions
const (
	AuditActionDoctorCreate = "doctor.create"
	AuditActionDoctorUpdate = "doctor.update"
	AuditActionDoctorDelete = "doctor.delete"
)

// AuditActions lists every action the doctor trail records
var AuditActions = []string{AuditActionDoctorCreate, AuditActionDoctorUpdate, AuditActionDoctorDelete}

// Keys of AuditLog.Metadata
const (
	AuditMetadataEntity   = "entity"
	AuditMetadataEntityID = "entity_id"
	AuditMetadataOldValue = "old_value"
	AuditMetadataNewValue = "new_value"
)
