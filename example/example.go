package example

import (
	"context"
	"time"

	dict "github.com/biu7/redis-dict"
	"github.com/biu7/redis-dict/errors"
	"github.com/biu7/redis-dict/storage"
)

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SessionRepo 把登录会话保存在 Redis 中，所有进程共享同一个 "sess" 命名空间
type SessionRepo struct {
	sessions *dict.Dict[string, User]
}

func NewSessionRepo(remote storage.Remote, ttl time.Duration) (*SessionRepo, error) {
	sessions, err := dict.New[string, User]("sess",
		dict.WithRemote(remote), // 多个 repo 可以共用同一个远程存储
		dict.WithExpiry(ttl),    // 每次写入都会重置过期时间
	)
	if err != nil {
		return nil, err
	}
	return &SessionRepo{sessions: sessions}, nil
}

func (repo *SessionRepo) Login(ctx context.Context, token string, user User) error {
	return repo.sessions.Set(ctx, token, user)
}

// Current 会话不存在或已过期时返回 false
func (repo *SessionRepo) Current(ctx context.Context, token string) (User, bool, error) {
	user, err := repo.sessions.Get(ctx, token)
	if errors.Is(err, errors.ErrKeyNotFound) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, err
	}
	return user, true, nil
}

func (repo *SessionRepo) Logout(ctx context.Context, token string) error {
	return repo.sessions.Delete(ctx, token)
}

// Online 返回在线用户数，需要扫描整个命名空间
func (repo *SessionRepo) Online(ctx context.Context) (int, error) {
	return repo.sessions.Len(ctx)
}

// LogoutAll 强制所有会话下线
func (repo *SessionRepo) LogoutAll(ctx context.Context) error {
	return repo.sessions.Clear(ctx)
}
