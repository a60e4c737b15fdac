package models

import "time"

// AnalyticsEvent is a persisted analytics record.
type AnalyticsEvent struct {
	ID        string                 `json:"id" bson:"_id"`
	SessionID string                 `json:"sessionId" bson:"sessionId"`
	Event     string                 `json:"event" bson:"event"`
	Fields    map[string]interface{} `json:"fields" bson:"fields"`
	CreatedAt time.Time              `json:"createdAt" bson:"createdAt"`
}
