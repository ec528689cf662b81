package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is an informational record delivered to a profile as a side
// effect of another operation. Only Dismissed changes after creation.
type Notification struct {
	ID          uuid.UUID `json:"id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Message     string    `json:"message"`
	Link        string    `json:"link,omitempty"`
	Dismissed   bool      `json:"dismissed"`
	CreatedAt   time.Time `json:"created_at"`
}
