package service

import (
	"fmt"
	"time"

	"eventplanner/internal/model"
)

// Actor identifies the caller of a service operation.
type Actor struct {
	UserID uint
	Role   string
}

// IsAdmin reports whether the actor may act on resources it does not own.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

const eventCacheTTL = time.Minute

func eventCacheKey(id uint) string {
	return fmt.Sprintf("event:%d", id)
}
