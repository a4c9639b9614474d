// Package syncbus broadcasts full collection snapshots between storefront contexts that
// share one topic. A snapshot always replaces the receiver's collection wholesale.
package syncbus

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/gs-storefront/pkg/enums"
	"github.com/angelmondragon/gs-storefront/pkg/types"
)

var ErrUnknownType = errors.New("unknown sync message type")

// Message is the wire shape on every transport. Origin names the publishing context so
// it can skip its own broadcasts.
type Message struct {
	Type    enums.SyncMessageType `json:"type"`
	Payload json.RawMessage       `json:"payload"`
	Origin  string                `json:"origin,omitempty"`
}

// Snapshot is a decoded Message. Exactly one collection field is set, matching Type.
type Snapshot struct {
	Type     enums.SyncMessageType
	Products []types.Product
	Orders   []types.Order
	Users    []types.UserAccount
}

func ProductsSnapshot(products []types.Product) (Message, error) {
	return newMessage(enums.SyncProducts, nonNil(products))
}

func OrdersSnapshot(orders []types.Order) (Message, error) {
	return newMessage(enums.SyncOrders, nonNil(orders))
}

func UsersSnapshot(users []types.UserAccount) (Message, error) {
	return newMessage(enums.SyncUsers, nonNil(users))
}

func newMessage(kind enums.SyncMessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return Message{Type: kind, Payload: raw}, nil
}

type decoder func(raw json.RawMessage, out *Snapshot) error

var decoders = map[enums.SyncMessageType]decoder{
	enums.SyncProducts: func(raw json.RawMessage, out *Snapshot) error {
		return decodeInto(raw, &out.Products)
	},
	enums.SyncOrders: func(raw json.RawMessage, out *Snapshot) error {
		return decodeInto(raw, &out.Orders)
	},
	enums.SyncUsers: func(raw json.RawMessage, out *Snapshot) error {
		return decodeInto(raw, &out.Users)
	},
}

// Decode turns a message into its typed snapshot. A null payload decodes to an empty
// collection; anything other than a JSON array is an error.
func Decode(msg Message) (Snapshot, error) {
	decode, ok := decoders[msg.Type]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
	out := Snapshot{Type: msg.Type}
	if err := decode(msg.Payload, &out); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s payload: %w", msg.Type, err)
	}
	return out, nil
}

func decodeInto[T any](raw json.RawMessage, dest *[]T) error {
	if len(raw) == 0 {
		*dest = []T{}
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return err
	}
	if *dest == nil {
		*dest = []T{}
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// marshal and unmarshal are the byte encodings shared by the network transports.
func marshal(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

func unmarshal(raw []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
