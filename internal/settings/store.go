// Package settings persists the notification settings in a Redis hash.
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"eventplanner/internal/model"
)

const (
	DefaultKey = "event_planner:settings"

	fieldNotifyAdmin = "notify_admin"
	fieldAdminEmail  = "admin_notification_email"
)

type Store interface {
	Load(ctx context.Context) (model.Settings, error)
	Save(ctx context.Context, s model.Settings) error
}

type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

// Load returns zero settings when nothing has been saved yet.
func (s *RedisStore) Load(ctx context.Context) (model.Settings, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return model.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return decode(values), nil
}

func (s *RedisStore) Save(ctx context.Context, st model.Settings) error {
	if err := s.client.HSet(ctx, s.key, encode(st)).Err(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func encode(st model.Settings) map[string]interface{} {
	return map[string]interface{}{
		fieldNotifyAdmin: strconv.FormatBool(st.NotifyAdmin),
		fieldAdminEmail:  st.AdminNotificationEmail,
	}
}

func decode(values map[string]string) model.Settings {
	notify, _ := strconv.ParseBool(values[fieldNotifyAdmin])
	return model.Settings{
		NotifyAdmin:            notify,
		AdminNotificationEmail: values[fieldAdminEmail],
	}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
