package enums

import "fmt"

// SyncMessageType names the collection carried by a sync bus snapshot.
type SyncMessageType string

const (
	SyncProducts SyncMessageType = "SYNC_PRODUCTS"
	SyncOrders   SyncMessageType = "SYNC_ORDERS"
	SyncUsers    SyncMessageType = "SYNC_USERS"
)

var validSyncMessageTypes = []SyncMessageType{
	SyncProducts,
	SyncOrders,
	SyncUsers,
}

// String implements fmt.Stringer.
func (t SyncMessageType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known SyncMessageType.
func (t SyncMessageType) IsValid() bool {
	for _, candidate := range validSyncMessageTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseSyncMessageType converts raw input into a SyncMessageType.
func ParseSyncMessageType(value string) (SyncMessageType, error) {
	for _, candidate := range validSyncMessageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sync message type %q", value)
}
