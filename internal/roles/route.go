package roles

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/keshon/server-herald/internal/transport"
)

const (
	messageTitle = "Role List"
	messageIntro = "Please react with any of the following emotes to receive its corresponding role.\n"
)

// Render builds the role message body: one line per binding.
func Render(bindings []Binding) *transport.Embed {
	var b strings.Builder
	b.WriteString(messageIntro)
	for _, bd := range bindings {
		b.WriteString("\n**")
		b.WriteString(bd.Role.Name)
		b.WriteString("**: ")
		b.WriteString(bd.Emote.String())
		b.WriteString("\n")
	}
	return &transport.Embed{Title: messageTitle, Description: b.String()}
}

// Reaction is a reaction added to or removed from a message.
type Reaction struct {
	ChannelID string
	MessageID string
	UserID    string
	Emote     transport.Emote
}

// Target identifies the tracked role message and the bot itself.
type Target struct {
	ChannelID string
	MessageID string
	SelfID    string
}

// Route decides which role, if any, a reaction toggles. It needs only
// identifiers and the emote; the first matching binding wins.
func Route(t Target, bindings []Binding, r Reaction) (transport.Role, bool) {
	if t.MessageID == "" || r.ChannelID != t.ChannelID || r.MessageID != t.MessageID {
		return transport.Role{}, false
	}
	if r.UserID == "" || r.UserID == t.SelfID {
		return transport.Role{}, false
	}
	for _, b := range bindings {
		if sameEmote(b.Emote, r.Emote) {
			return b.Role, true
		}
	}
	return transport.Role{}, false
}

// Custom emotes compare by ID since they can be renamed; Unicode emoji by name.
func sameEmote(a, b transport.Emote) bool {
	if a.ID != "" || b.ID != "" {
		return a.ID == b.ID
	}
	return a.Name == b.Name
}

func (e *Engine) route(r Reaction) (transport.Role, bool) {
	s := e.current.Load()
	if s == nil {
		return transport.Role{}, false
	}
	return Route(Target{ChannelID: e.channelID, MessageID: s.messageID, SelfID: e.self()}, s.bindings, r)
}

// OnReactionAdd grants the bound role. Granting a role the user already has is
// not an error.
func (e *Engine) OnReactionAdd(ctx context.Context, r Reaction) error {
	role, ok := e.route(r)
	if !ok {
		return nil
	}
	if err := e.tr.AddRole(ctx, e.guildID, r.UserID, role.ID); err != nil {
		roleChanges.WithLabelValues("grant", "failed").Inc()
		return err
	}
	roleChanges.WithLabelValues("grant", "ok").Inc()
	e.log.Info("Role granted", zap.String("user", r.UserID), zap.String("role", role.Name))
	return nil
}

// OnReactionRemove revokes the bound role.
func (e *Engine) OnReactionRemove(ctx context.Context, r Reaction) error {
	role, ok := e.route(r)
	if !ok {
		return nil
	}
	if err := e.tr.RemoveRole(ctx, e.guildID, r.UserID, role.ID); err != nil {
		roleChanges.WithLabelValues("revoke", "failed").Inc()
		return err
	}
	roleChanges.WithLabelValues("revoke", "ok").Inc()
	e.log.Info("Role revoked", zap.String("user", r.UserID), zap.String("role", role.Name))
	return nil
}
