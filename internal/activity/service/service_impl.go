// Package service implements the activity feed.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	activitydomain "github.com/revops-labs/pulse/internal/activity/domain"
)

const defaultRecentLimit = 15

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func NewService(p ServiceParam) activitydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("activity.service"),
		genID: p.GenID,
	}
}

func (s *Service) Record(ctx context.Context, actor, action, targetType string, targetID *string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil
	}
	if actor == "" {
		actor = activitydomain.ActorSystem
	}

	entry := &activitydomain.ActivityLog{
		ID:         s.genID.Generate(),
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  time.Now().UTC(),
	}
	if metadata != nil {
		entry.Metadata = datatypes.JSONMap(metadata)
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		// The feed is advisory; a failed write must not fail the operation
		// that produced it.
		s.log.Warn("activity write failed", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]activitydomain.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var entries []activitydomain.ActivityLog
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
