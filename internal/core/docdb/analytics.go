package docdb

import (
	"context"

	"github.com/unifiedui/docchat-service/internal/domain/models"
)

// AnalyticsCollection stores session analytics events.
type AnalyticsCollection interface {
	// Insert stores an event. ID and CreatedAt are filled in when empty.
	Insert(ctx context.Context, event *models.AnalyticsEvent) error
}
