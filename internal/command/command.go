// Package command implements the chat command surface of factbot.
//
// Incoming messages are matched against each registered command's
// pattern, in registration order, and the first match wins. Commands
// talk to the FactService and never to the store directly; typed store
// errors map to fixed user-facing replies here, so the storage layer
// never formats user text.
package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"

	"factbot/internal/repository"
	"factbot/internal/service"
)

// Version is the bot version reported by !version.
const Version = "0.3.0"

// Fixed user-facing replies.
const (
	replyAdded           = "Fact added."
	replyFactRemoved     = "Fact removed."
	replyCategoryRemoved = "Category removed."
	replyDuplicate       = "Already on file, duplicates are not accepted."
	replyNotFound        = "Nothing found there."
	replyError           = "Something went wrong."
)

// Message is an incoming chat message. Attachment carries the content
// of an attached document for commands that consume one, nil otherwise.
type Message struct {
	Text       string
	Attachment io.Reader
}

// Attachment is a document produced by a command, to be delivered as a
// file by the transport.
type Attachment struct {
	Name string
	Data []byte
}

// Reply is what a command sends back to the channel.
type Reply struct {
	Text       string
	Attachment *Attachment
}

// Command is a single chat command.
type Command interface {
	// Name is the bare command name, as used by "!help NAME".
	Name() string

	// Pattern matches the full message text; submatches become the
	// arguments passed to Execute.
	Pattern() *regexp.Regexp

	// Help returns the one-line usage string.
	Help() string

	// Execute runs the command with the pattern's submatches.
	Execute(ctx context.Context, args []string, msg Message) (Reply, error)
}

// Dispatcher routes messages to the registered commands.
type Dispatcher struct {
	commands []Command
	log      *slog.Logger
}

// NewDispatcher builds a dispatcher with the full command set wired to
// the given service.
func NewDispatcher(svc *service.FactService, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{log: logger}
	d.commands = []Command{
		&addCommand{svc: svc},
		&categoriesCommand{svc: svc},
		&consultCommand{svc: svc},
		&searchCommand{svc: svc},
		&removeCommand{svc: svc},
		&exportCommand{svc: svc},
		&importCommand{svc: svc},
		&sizeCommand{svc: svc},
		&versionCommand{},
	}
	d.commands = append(d.commands, &helpCommand{commands: d.commands})
	return d
}

// Dispatch matches msg against the registered commands and executes the
// first match. The second return value is false when no command matched,
// meaning the message is ordinary chat and should be ignored.
//
// Errors never escape: typed store failures become their fixed replies
// and anything else becomes a generic error reply.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (Reply, bool) {
	for _, cmd := range d.commands {
		m := cmd.Pattern().FindStringSubmatch(msg.Text)
		if m == nil {
			continue
		}

		metrics.dispatched(cmd.Name())
		reply, err := cmd.Execute(ctx, m[1:], msg)
		if err != nil {
			metrics.failed(cmd.Name())
			d.log.Warn("command failed", "command", cmd.Name(), "err", err)
			return errorReply(err), true
		}
		return reply, true
	}
	return Reply{}, false
}

// errorReply translates a store error into its user-facing reply.
func errorReply(err error) Reply {
	switch {
	case errors.Is(err, repository.ErrDuplicateEntry), errors.Is(err, repository.ErrDuplicateCategory):
		return Reply{Text: replyDuplicate}
	case errors.Is(err, repository.ErrNotFound):
		return Reply{Text: replyNotFound}
	default:
		return Reply{Text: replyError}
	}
}
