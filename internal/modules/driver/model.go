// README: Driver record owned by the driver registry.
package driver

import (
	"time"

	"hitch/internal/types"
)

type Driver struct {
	ID        types.ID
	Name      string
	Phone     string
	Category  types.Category
	Available bool
	CreatedAt time.Time
}
