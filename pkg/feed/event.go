// Package feed defines the change-event contract between the kelasku server
// and its realtime consumers, plus the client-side reconciliation primitives
// that keep local collections in sync with the remote tables.
package feed

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates change events.
type Kind string

const (
	KindInsert Kind = "INSERT"
	KindUpdate Kind = "UPDATE"
	KindDelete Kind = "DELETE"
)

// Table identifies the remote table a change event belongs to.
type Table string

const (
	TableSchedules     Table = "schedules"
	TableClassMembers  Table = "class_members"
	TableNotifications Table = "notifications"
)

// Event is one change delivered on a scoped feed channel. Insert and update
// events carry the new row image; delete events carry the old row image.
type Event struct {
	Kind  Kind            `json:"kind"`
	Table Table           `json:"table"`
	Scope string          `json:"scope"`
	New   json.RawMessage `json:"new,omitempty"`
	Old   json.RawMessage `json:"old,omitempty"`
}

// Scope names. One subscription exists per (table, parent id) pair.

// ScheduleScope returns the channel for a class's schedule changes.
func ScheduleScope(classID string) string {
	return fmt.Sprintf("%s:class:%s", TableSchedules, classID)
}

// MemberScope returns the channel for a class's membership changes.
func MemberScope(classID string) string {
	return fmt.Sprintf("%s:class:%s", TableClassMembers, classID)
}

// NotificationScope returns the channel for a user's notifications.
func NotificationScope(userID string) string {
	return fmt.Sprintf("%s:user:%s", TableNotifications, userID)
}

// ─── WebSocket wire schema ──────────────────────────────────────────

// Action enumerates client→server requests on the feed socket.
type Action string

const (
	ActionSubscribe   Action = "subscribe"
	ActionUnsubscribe Action = "unsubscribe"
	ActionPing        Action = "ping"
)

// ClientMessage is sent by a consumer to manage its subscriptions.
type ClientMessage struct {
	Action Action   `json:"action"`
	Scopes []string `json:"scopes,omitempty"`
}

// MessageType enumerates server→client message types.
type MessageType string

const (
	MessageChange     MessageType = "change"
	MessageSubscribed MessageType = "subscribed"
	MessageError      MessageType = "error"
	MessagePong       MessageType = "pong"
)

// ServerMessage is the envelope for everything the server pushes.
type ServerMessage struct {
	Type   MessageType `json:"type"`
	Event  *Event      `json:"event,omitempty"`
	Scopes []string    `json:"scopes,omitempty"`
	Error  string      `json:"error,omitempty"`
}
