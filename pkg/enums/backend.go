package enums

import (
	"fmt"
	"strings"
)

// LocalStoreBackend selects where the durable local store keeps its values.
type LocalStoreBackend string

const (
	LocalStoreMemory LocalStoreBackend = "memory"
	LocalStoreFile   LocalStoreBackend = "file"
	LocalStoreRedis  LocalStoreBackend = "redis"
)

var validLocalStoreBackends = []LocalStoreBackend{
	LocalStoreMemory,
	LocalStoreFile,
	LocalStoreRedis,
}

func (b LocalStoreBackend) String() string {
	return string(b)
}

func (b LocalStoreBackend) IsValid() bool {
	for _, candidate := range validLocalStoreBackends {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseLocalStoreBackend is case-insensitive.
func ParseLocalStoreBackend(value string) (LocalStoreBackend, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validLocalStoreBackends {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid local store backend %q", value)
}

// SyncTransport selects the carrier of the cross-context sync bus.
type SyncTransport string

const (
	SyncTransportMemory SyncTransport = "memory"
	SyncTransportRedis  SyncTransport = "redis"
	SyncTransportPubSub SyncTransport = "pubsub"
)

var validSyncTransports = []SyncTransport{
	SyncTransportMemory,
	SyncTransportRedis,
	SyncTransportPubSub,
}

func (t SyncTransport) String() string {
	return string(t)
}

func (t SyncTransport) IsValid() bool {
	for _, candidate := range validSyncTransports {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSyncTransport is case-insensitive.
func ParseSyncTransport(value string) (SyncTransport, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validSyncTransports {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sync transport %q", value)
}
