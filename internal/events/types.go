package events

import (
	"time"

	"curriculum-cli/internal/curriculum"
)

// Type 标识 board 发布的事件类型。
type Type string

const (
	SlotSubmitted Type = "slot.submitted"
	SlotStarted   Type = "slot.started"
	SlotFinished  Type = "slot.finished"
	SlotFailed    Type = "slot.failed"
)

// Event 描述某个请求槽位的状态变化。
type Event struct {
	Type   Type
	SlotID string
	Index  int
	Kind   curriculum.Kind
	Topic  string
	// Err 仅在 SlotFailed 时设置。
	Err error
	At  time.Time
}
