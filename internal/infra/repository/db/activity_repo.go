package db

import (
	"context"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
)

type IActivityRepository interface {
	LogActivity(ctx context.Context, activity *model.UserActivity) error
	GetActivitiesByUserID(ctx context.Context, userID int, limit int) ([]model.UserActivity, error)
}

type ActivityRepo struct {
	db *DbDao
}

func NewActivityRepo(db *DbDao) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) LogActivity(ctx context.Context, activity *model.UserActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepo) GetActivitiesByUserID(ctx context.Context, userID int, limit int) ([]model.UserActivity, error) {
	var activities []model.UserActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
