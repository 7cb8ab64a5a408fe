package update

import (
	"errors"
	"strings"

	"github.com/sandeepkv93/taskrank/internal/commands"
)

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// userMessage drops the package prefix from an error for display.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *commands.CommandError
	if errors.As(err, &ce) {
		return ce.Message
	}
	msg := err.Error()
	for _, prefix := range []string{"form: ", "model: ", "store: ", "bridge: ", "analysis: "} {
		msg = strings.TrimPrefix(msg, prefix)
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
