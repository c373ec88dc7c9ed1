// Package command parses trigger-prefixed chat messages and dispatches them to
// built-in routines or user-defined templated commands.
package command

import (
	"context"

	"github.com/keshon/server-herald/internal/transport"
	"github.com/keshon/server-herald/pkg/cmd"
)

type Kind int

const (
	Builtin Kind = iota
	Custom
)

func (k Kind) String() string {
	if k == Custom {
		return "custom"
	}
	return "builtin"
}

// Routine is the body of a built-in command.
type Routine func(ctx context.Context, inv *Invocation) error

// Template is the data behind a custom command.
type Template struct {
	Text string
	// ParamCount is the highest contiguous placeholder index \1..\9 found in Text.
	ParamCount int
	Images     []string
}

// Command is immutable once built. Exactly one of Routine (Builtin) or
// Template (Custom) is meaningful; a Builtin with a nil Routine is a no-op.
type Command struct {
	Name        string
	Description string
	Syntax      string
	AdminOnly   bool
	Kind        Kind
	Routine     Routine
	Template    *Template
}

// Table is the active command set: built-ins first, then customs in file order.
type Table = cmd.Registry[*Command]

func newTable() *Table {
	return cmd.NewRegistry(func(c *Command) string { return c.Name })
}

// Message is an inbound chat message as the engine sees it.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	Author    transport.User
	Content   string
	// Elevated is the transport's report of whether the author holds elevated
	// guild permission.
	Elevated bool
}

// Invocation is a parsed message bound to the command it names.
type Invocation struct {
	Message
	Tokens  []string
	Command *Command
}

// Args are the tokens after the command name.
func (inv *Invocation) Args() []string {
	if len(inv.Tokens) <= 2 {
		return nil
	}
	return inv.Tokens[2:]
}

// DisplayName falls back to the username when no display name is set.
func (inv *Invocation) DisplayName() string {
	if inv.Author.DisplayName != "" {
		return inv.Author.DisplayName
	}
	return inv.Author.Username
}
