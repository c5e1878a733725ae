package gpu

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type Severity int

const (
	SeverityVerbose Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityVerbose:
		return "verbose"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// DebugMessage is one report from the validation layers.
type DebugMessage struct {
	Severity Severity
	Type     string
	Message  string
}

type DebugMessengerCreateInfo struct {
	// Callback runs synchronously inside whichever driver call produced the
	// message.
	Callback func(msg DebugMessage)
}

// forwardDebugMessages logs warnings and errors from the driver and drops
// everything below warning.
func forwardDebugMessages(log logrus.FieldLogger) func(DebugMessage) {
	return func(msg DebugMessage) {
		if msg.Severity < SeverityWarning {
			return
		}

		entry := log.WithField("type", msg.Type)
		if msg.Severity >= SeverityError {
			entry.Errorf("Vulkan validation: %s", msg.Message)
			return
		}
		entry.Warnf("Vulkan validation: %s", msg.Message)
	}
}
