// README: Passenger record owned by the passenger registry.
package passenger

import (
	"time"

	"hitch/internal/types"
)

type Passenger struct {
	ID        types.ID
	Name      string
	Phone     string
	CreatedAt time.Time
}
