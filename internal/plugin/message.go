package plugin

import (
	"strings"
	"sync"

	"github.com/fanxy121/CopyQ/internal/logging"
)

// MessageCode classifies a diagnostic message emitted by a sandbox.
type MessageCode int

// Message codes. Anything that indicates a script error is escalated to
// warning severity in the host log; it is never silently dropped and never
// fatal to the host.
const (
	MessageNote MessageCode = iota
	MessageError
	MessageBadSyntax
	MessageException
)

// MessageBridge carries (text, code) pairs from any sandbox owned by one
// plugin to the host log sink. Delivery is fire-and-forget: Send never
// blocks on the plugin's behalf and requires no acknowledgment. Safe for
// use from multiple goroutines; events reach the sink in Send order.
type MessageBridge struct {
	mu   sync.Mutex
	id   string
	sink logging.Sink
}

// NewMessageBridge creates a bridge attributing messages to the given
// plugin identity.
func NewMessageBridge(id string, sink logging.Sink) *MessageBridge {
	return &MessageBridge{id: id, sink: sink}
}

// Send classifies, prefixes and delivers one message. Empty messages are
// dropped.
func (b *MessageBridge) Send(text string, code MessageCode) {
	if text == "" || b.sink == nil {
		return
	}

	level := logging.LevelNote
	switch code {
	case MessageError, MessageBadSyntax, MessageException:
		level = logging.LevelWarning
	}

	// Prefix every line so interleaved plugin output stays attributable.
	label := "scripts::" + b.id + ": "
	text = label + strings.ReplaceAll(text, "\n", "\n"+label)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink.Log(logging.Event{Text: text, Level: level, Source: b.id})
}
