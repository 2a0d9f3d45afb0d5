package messaging

import (
	"context"
	"time"

	"github.com/campusfront/campusfront/internal/models"
	"gorm.io/gorm"
)

// Stats summarizes message volume and outcomes.
type Stats struct {
	Total     int64 `json:"total"`
	Sent      int64 `json:"sent"`
	Failed    int64 `json:"failed"`
	Pending   int64 `json:"pending"`
	Manual    int64 `json:"manual"`
	Automated int64 `json:"automated"`
	Contact   int64 `json:"contact"`
	Last7Days int64 `json:"last_7_days"`
}

// GetStats aggregates message counts, optionally scoped to one school
// (schoolID zero means platform-wide).
func (s *Service) GetStats(ctx context.Context, schoolID uint64) (*Stats, error) {
	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Message{})
		if schoolID != 0 {
			q = q.Where("school_id = ?", schoolID)
		}
		return q
	}

	var out Stats
	if errCount := base().Count(&out.Total).Error; errCount != nil {
		return nil, errCount
	}

	statusCounts := map[string]*int64{
		models.MessageStatusSent:    &out.Sent,
		models.MessageStatusFailed:  &out.Failed,
		models.MessageStatusPending: &out.Pending,
	}
	for status, dst := range statusCounts {
		if errCount := base().Where("status = ?", status).Count(dst).Error; errCount != nil {
			return nil, errCount
		}
	}

	kindCounts := map[string]*int64{
		models.MessageKindManual:    &out.Manual,
		models.MessageKindAutomated: &out.Automated,
		models.MessageKindContact:   &out.Contact,
	}
	for kind, dst := range kindCounts {
		if errCount := base().Where("kind = ?", kind).Count(dst).Error; errCount != nil {
			return nil, errCount
		}
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if errCount := base().Where("created_at >= ?", weekAgo).Count(&out.Last7Days).Error; errCount != nil {
		return nil, errCount
	}

	return &out, nil
}
