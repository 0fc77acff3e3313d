// Package protocol defines the JSON messages exchanged between a body-tracking
// sensor bridge and go-bodytrack consumers.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of message
type MessageType string

const (
	// Sensor → tracker
	TypeFrame MessageType = "frame" // One tick of tracked bodies

	// Tracker → consumer
	TypeActive   MessageType = "active"   // Active body changed
	TypeSkeleton MessageType = "skeleton" // Mapped skeleton of the active body
	TypeLook     MessageType = "look"     // Look target for the active body
)

// Message is the base wrapper for all messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message stamped with at.
func NewMessage(msgType MessageType, at time.Time, data any) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: at.UnixMilli(),
		Data:      rawData,
	}, nil
}

// Time returns the message timestamp.
func (m *Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp).UTC()
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v any) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// =============================================================================
// Sensor → Tracker Message Types
// =============================================================================

// FrameData contains every body tracked in one sensor tick
type FrameData struct {
	Bodies []BodyData `json:"bodies"`
}

// BodyData is one tracked person
type BodyData struct {
	ID     int         `json:"id"`
	Joints []JointData `json:"joints"`
}

// JointData is one joint. Joints without a name are taken in sensor order.
type JointData struct {
	Name     string     `json:"name,omitempty"`
	Position [3]float64 `json:"pos"` // x, y, z
	Rotation [4]float64 `json:"rot"` // w, x, y, z
}

// =============================================================================
// Tracker → Consumer Message Types
// =============================================================================

// ActiveData reports a change of active body; -1 means none
type ActiveData struct {
	Old     int    `json:"old"`
	New     int    `json:"new"`
	Session string `json:"session,omitempty"`
}

// SkeletonData is a skeleton in world space
type SkeletonData struct {
	BodyID int         `json:"body_id"`
	Joints []JointData `json:"joints"`
}

// LookData is a world-space point for the avatar to look at
type LookData struct {
	BodyID int        `json:"body_id"`
	Target [3]float64 `json:"target"`
}
