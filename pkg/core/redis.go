package core

import "github.com/go-redis/redis/v8"

// JwtIDPrefix prefixes the redis key of a blocklisted jwt id.
const JwtIDPrefix = "jti:"

// RedisDB wrapper around the redis db client.
type RedisDB interface {
	// Client is the redis client
	Client() redis.UniversalClient
}
