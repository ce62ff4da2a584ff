package types

import "time"

// Slot addresses one of the two generated reference images of a session.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"

	// SlotSelected is the reserved slot the chosen image is copied to when
	// it is promoted to 3D reconstruction.
	SlotSelected Slot = "selected"
)

// Valid reports whether the slot is one a user may select.
func (s Slot) Valid() bool {
	return s == SlotA || s == SlotB
}

// GenerationSession correlates one user journey through the pipeline.
// Image payloads live in the artifact store keyed by (session id, slot);
// the session record only carries identifiers.
type GenerationSession struct {
	ID                   string    `json:"session_id" gorm:"primaryKey;column:session_id"`
	Prompt               string    `json:"prompt"`
	ReconstructionTaskID string    `json:"reconstruction_task_id,omitempty"`
	RemeshTaskID         string    `json:"remesh_task_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
