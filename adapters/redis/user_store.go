// Package redis stores users in Redis.
//
// Keys share the {user} hash tag so the insert script touches a single slot:
//
//	{user}:email:<email>  JSON user record
//	{user}:name:<name>    list of emails in registration order
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"myusers/domain"
	"myusers/service"

	"github.com/go-redis/redis/v8"
)

const (
	emailKeyPrefix = "{user}:email:"
	nameKeyPrefix  = "{user}:name:"
)

// putScript inserts the record only when the email key is absent and appends the email to the name index.
// Returns 1 on insert, 0 when the email is taken.
var putScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1])
if ARGV[2] == '1' then
	redis.call('RPUSH', KEYS[2], ARGV[3])
end
return 1
`)

type record struct {
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type userStore struct {
	client redis.UniversalClient
}

// NewUserStore creates a UserStore backed by client.
func NewUserStore(client redis.UniversalClient) *userStore {
	return &userStore{
		client: service.NilPanic(client, "redis.user_store.go: client is required"),
	}
}

func emailKey(email string) string { return emailKeyPrefix + email }

func nameKey(name string) string { return nameKeyPrefix + name }

func (s *userStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, emailKey(email)).Result()
	if err != nil {
		return false, service.NewStoreUnavailableError("redis EXISTS failed", err)
	}
	return n == 1, nil
}

func (s *userStore) GetByName(ctx context.Context, name string) (domain.User, bool, error) {
	email, err := s.client.LIndex(ctx, nameKey(name), 0).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, service.NewStoreUnavailableError("redis LINDEX failed", err)
	}

	data, err := s.client.Get(ctx, emailKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.User{}, false, service.NewInternalServerError("name index points to a missing user", err)
		}
		return domain.User{}, false, service.NewStoreUnavailableError("redis GET failed", err)
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return domain.User{}, false, service.NewInternalServerError("failed to unmarshal user from redis", err)
	}
	return domain.User{
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}, true, nil
}

func (s *userStore) Put(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(record{
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	})
	if err != nil {
		return service.NewInternalServerError("failed to marshal user for redis", err)
	}

	// KEYS[2] is passed even without a name so both keys always hash to one slot
	keys := []string{emailKey(user.Email), nameKeyPrefix}
	indexName := "0"
	if user.Name != nil {
		keys[1] = nameKey(*user.Name)
		indexName = "1"
	}

	inserted, err := putScript.Run(ctx, s.client, keys, data, indexName, user.Email).Int()
	if err != nil {
		return service.NewStoreUnavailableError("redis insert script failed", err)
	}
	if inserted == 0 {
		return service.NewConflictError("email is already stored", nil)
	}
	return nil
}

func (s *userStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return service.NewStoreUnavailableError("redis PING failed", err)
	}
	return nil
}

// Close releases the client connections.
func (s *userStore) Close() error {
	return s.client.Close()
}
