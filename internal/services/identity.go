package services

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/marina-keet/MiaTech-sub000/internal/chat"
	"github.com/marina-keet/MiaTech-sub000/internal/database"
	"github.com/marina-keet/MiaTech-sub000/pkg/auth"
)

// IdentityService проверяет токен соединения: черный список в Redis,
// подпись и срок JWT, затем активность учетной записи в Postgres.
// Реализует chat.IdentityVerifier.
type IdentityService struct {
	jwt   *auth.JWTManager
	redis *redis.Client
	db    *database.Database
}

func NewIdentityService(jwt *auth.JWTManager, rdb *redis.Client, db *database.Database) *IdentityService {
	return &IdentityService{jwt: jwt, redis: rdb, db: db}
}

func (s *IdentityService) Verify(ctx context.Context, token string) (*chat.Identity, error) {
	exists, err := s.redis.Exists(ctx, "blacklist:"+token).Result()
	if err != nil || exists > 0 {
		return nil, chat.ErrInvalidCredential
	}

	claims, err := s.jwt.Verify(token)
	if err != nil {
		return nil, chat.ErrInvalidCredential
	}

	user, err := s.db.GetUser(claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, chat.ErrIdentityNotFound
		}
		return nil, err
	}

	return &chat.Identity{
		ID:          user.ID.String(),
		DisplayName: user.Username,
		Role:        chat.Role(user.Role),
		AvatarURL:   user.AvatarURL,
	}, nil
}
