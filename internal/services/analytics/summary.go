package analytics

import (
	"math"
)

// Summary is the end-of-session analytics snapshot.
type Summary struct {
	UserMessageCount int     `json:"userMessageCount"`
	UserTotalTokens  int     `json:"userTotalTokens"`
	UserAvgTokens    float64 `json:"userAvgTokens"`
	UserTokenCounts  []int   `json:"userTokenCounts"`

	AttachedDocCount       int            `json:"attachedDocCount"`
	AttachedDocTotalTokens int            `json:"attachedDocTotalTokens"`
	AttachedDocAvgTokens   float64        `json:"attachedDocAvgTokens"`
	AttachedDocTypes       map[string]int `json:"attachedDocTypes"`
	AttachedDocTokenCounts []int          `json:"attachedDocTokenCounts"`
}

// Fields flattens the summary into analytics event fields. Averages are
// rounded to one decimal.
func (s Summary) Fields() map[string]interface{} {
	return map[string]interface{}{
		"user_message_count":        s.UserMessageCount,
		"user_total_tokens":         s.UserTotalTokens,
		"user_avg_tokens":           round1(s.UserAvgTokens),
		"user_token_counts":         s.UserTokenCounts,
		"attached_doc_count":        s.AttachedDocCount,
		"attached_doc_total_tokens": s.AttachedDocTotalTokens,
		"attached_doc_avg_tokens":   round1(s.AttachedDocAvgTokens),
		"attached_doc_types":        s.AttachedDocTypes,
		"attached_doc_token_counts": s.AttachedDocTokenCounts,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
