// Package command recognizes and executes slash commands that control the
// dialog independently of any analysis context.
package command

import (
	"strings"
	"time"
)

// Type identifies a control command.
type Type string

const (
	FullReset      Type = "full"
	Home           Type = "home"
	StepBack       Type = "step"
	ParameterReset Type = "param"
	Help           Type = "help"
	Status         Type = "status"
	Unknown        Type = "unknown"
)

// Command is the parsed value object for one recognized command. It lives
// only for the turn that produced it.
type Command struct {
	Type            Type
	OriginalMessage string
	Timestamp       time.Time
}

var commandMap = map[string]Type{
	"/reset":  FullReset,
	"/home":   Home,
	"/back":   StepBack,
	"/clear":  ParameterReset,
	"/help":   Help,
	"/status": Status,
}

// Ordered for help output.
var commandDescriptions = []struct{ cmd, desc string }{
	{"/reset", "Complete reset - start a new chat session"},
	{"/home", "Return to home - show welcome message"},
	{"/back", "Go back one step in parameter collection"},
	{"/clear", "Clear current parameters only"},
	{"/help", "Show available commands"},
	{"/status", "Show current analysis status"},
}

// Parse detects a command in a message. Only messages that begin with a
// slash qualify, matched case-insensitively; non-slash text returns nil and
// flows through normal dialog handling. Slash-prefixed but unrecognized text
// parses as Unknown so it can be echoed back as an error.
func Parse(message string) *Command {
	lower := strings.ToLower(strings.TrimSpace(message))
	if !strings.HasPrefix(lower, "/") {
		return nil
	}
	t, ok := commandMap[lower]
	if !ok {
		t = Unknown
	}
	return &Command{Type: t, OriginalMessage: lower, Timestamp: time.Now().UTC()}
}

// HelpMessage lists every supported command with its description.
func HelpMessage() string {
	lines := []string{"Available commands:"}
	for _, c := range commandDescriptions {
		lines = append(lines, c.cmd+" - "+c.desc)
	}
	return strings.Join(lines, "\n")
}
