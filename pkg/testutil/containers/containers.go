//go:build integration

// Package containers starts shared docker containers for integration
// tests. Each backing service is started once per test binary and reused
// by every suite in the package.
package containers

import (
	"sync"
	"testing"
)

// Manager hands out the shared containers, starting each one lazily.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
	redis    *RedisContainer
	kafka    *KafkaContainer
}

var manager = &Manager{}

// GetManager returns the package-wide container manager.
func GetManager() *Manager {
	return manager
}

// GetPostgres starts the Postgres container on first use and returns it.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postgres == nil {
		m.postgres = NewPostgresContainer(t)
	}
	return m.postgres
}

// GetRedis starts the Redis container on first use and returns it.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis == nil {
		m.redis = NewRedisContainer(t)
	}
	return m.redis
}

// GetKafka starts the Kafka container on first use and returns it.
func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.kafka == nil {
		m.kafka = NewKafkaContainer(t)
	}
	return m.kafka
}
