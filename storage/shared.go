package storage

import (
	"net"
	"strconv"
	"sync"

	"github.com/biu7/redis-dict/errors"
	"github.com/redis/go-redis/v9"
)

var (
	sharedMu      sync.Mutex
	sharedClients = make(map[string]*redis.Client)
)

// Shared 返回 host:port 对应的进程级共享连接池。
// 连接池在首次调用时创建，首次命令时才真正建立连接，之后一直复用
func Shared(host string, port int) *Redis {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	sharedMu.Lock()
	defer sharedMu.Unlock()

	client, ok := sharedClients[addr]
	if !ok {
		client = redis.NewClient(&redis.Options{Addr: addr})
		sharedClients[addr] = client
	}
	return NewRedisWithClient(client)
}

// CloseShared 关闭并清空所有共享连接池，仅用于进程退出与测试
func CloseShared() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	var errs []error
	for addr, client := range sharedClients {
		if err := client.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(sharedClients, addr)
	}
	return errors.Join(errs...)
}
