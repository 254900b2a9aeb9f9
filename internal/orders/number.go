package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxOrderNumberAttempts = 10

// newOrderNumber returns an "ORD-" prefixed 8-character code. Collisions are
// possible with only 8 hex characters of entropy, so the generator checks the
// store and retries.
func newOrderNumber(ctx context.Context, repo Repository) (string, error) {
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		candidate := "ORD-" + strings.ToUpper(uuid.NewString()[:8])
		exists, err := repo.ExistsByOrderNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique order number after %d attempts", maxOrderNumberAttempts)
}
