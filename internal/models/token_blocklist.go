package models

import "time"

// TokenBlockListEntry records a revoked JWT by its jti claim. The auth
// middleware rejects any token whose jti appears here.
type TokenBlockListEntry struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	JTI       string    `json:"jti" gorm:"uniqueIndex;type:varchar(120)"`
	CreatedAt time.Time `json:"created_at"`
}
