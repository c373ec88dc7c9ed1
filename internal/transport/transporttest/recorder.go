// Package transporttest provides an in-memory transport.Transport that records
// every call, for use in tests.
package transporttest

import (
	"context"
	"strconv"
	"sync"

	"github.com/keshon/server-herald/internal/transport"
)

// Operation names recorded in Call.Op.
const (
	OpSend       = "send"
	OpDM         = "dm"
	OpEdit       = "edit"
	OpDelete     = "delete"
	OpHistory    = "history"
	OpGet        = "get"
	OpReact      = "react"
	OpRoles      = "roles"
	OpEmotes     = "emotes"
	OpAddRole    = "add-role"
	OpRemoveRole = "remove-role"
	OpKick       = "kick"
	OpBan        = "ban"
	OpUnban      = "unban"
)

// Call is one recorded transport call. Only the fields relevant to Op are set.
type Call struct {
	Op        string
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	RoleID    string
	Emote     transport.Emote
	Msg       transport.Message
	Content   string
	N         int
}

// Posted is a message held by the recorder.
type Posted struct {
	ID        string
	ChannelID string
	Msg       transport.Message
	Reactions []string
}

// Recorder is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	calls    []Call
	roles    map[string][]transport.Role
	emotes   map[string][]transport.Emote
	messages map[string]*Posted
	history  map[string][]string
	errs     map[string]error
	nextID   uint64
}

func New() *Recorder {
	return &Recorder{
		roles:    make(map[string][]transport.Role),
		emotes:   make(map[string][]transport.Emote),
		messages: make(map[string]*Posted),
		history:  make(map[string][]string),
		errs:     make(map[string]error),
		nextID:   1000,
	}
}

func (r *Recorder) SetRoles(guildID string, roles ...transport.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[guildID] = roles
}

func (r *Recorder) SetEmotes(guildID string, emotes ...transport.Emote) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emotes[guildID] = emotes
}

// Fail makes every subsequent call of op return err. A nil err clears it.
func (r *Recorder) Fail(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.errs, op)
		return
	}
	r.errs[op] = err
}

// Seed places existing messages in a channel, oldest first, and returns their IDs.
func (r *Recorder) Seed(channelID string, n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, r.store(channelID, transport.Message{Content: "seed"}))
	}
	return ids
}

// Forget drops a message as if it had been deleted outside the bot.
func (r *Recorder) Forget(channelID, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop(channelID, messageID)
}

func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsOf returns the recorded calls of one operation, in order.
func (r *Recorder) CallsOf(op string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Ops returns the sequence of recorded operation names.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.Op
	}
	return out
}

// Message returns a copy of a held message, or nil.
func (r *Recorder) Message(channelID, messageID string) *Posted {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.messages[key(channelID, messageID)]
	if !ok {
		return nil
	}
	cp := *p
	cp.Reactions = append([]string(nil), p.Reactions...)
	return &cp
}

func (r *Recorder) SendMessage(_ context.Context, channelID string, msg transport.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpSend, ChannelID: channelID, Msg: msg})
	if err := r.errs[OpSend]; err != nil {
		return "", err
	}
	return r.store(channelID, msg), nil
}

func (r *Recorder) SendDirectMessage(_ context.Context, userID string, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpDM, UserID: userID, Content: content})
	return r.errs[OpDM]
}

func (r *Recorder) EditMessage(_ context.Context, channelID, messageID string, msg transport.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpEdit, ChannelID: channelID, MessageID: messageID, Msg: msg})
	if err := r.errs[OpEdit]; err != nil {
		return err
	}
	p, ok := r.messages[key(channelID, messageID)]
	if !ok {
		return transport.ErrNotFound
	}
	p.Msg = msg
	return nil
}

func (r *Recorder) DeleteMessage(_ context.Context, channelID, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpDelete, ChannelID: channelID, MessageID: messageID})
	if err := r.errs[OpDelete]; err != nil {
		return err
	}
	r.drop(channelID, messageID)
	return nil
}

func (r *Recorder) MessagesBefore(_ context.Context, channelID, beforeID string, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpHistory, ChannelID: channelID, MessageID: beforeID, N: limit})
	if err := r.errs[OpHistory]; err != nil {
		return nil, err
	}

	ids := r.history[channelID]
	end := len(ids)
	for i, id := range ids {
		if id == beforeID {
			end = i
			break
		}
	}
	var out []string
	for i := end - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, ids[i])
	}
	return out, nil
}

func (r *Recorder) GetMessage(_ context.Context, channelID, messageID string) (*transport.PostedMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpGet, ChannelID: channelID, MessageID: messageID})
	if err := r.errs[OpGet]; err != nil {
		return nil, err
	}
	p, ok := r.messages[key(channelID, messageID)]
	if !ok {
		return nil, transport.ErrNotFound
	}
	return &transport.PostedMessage{
		ID:           p.ID,
		ChannelID:    p.ChannelID,
		OwnReactions: append([]string(nil), p.Reactions...),
	}, nil
}

func (r *Recorder) AddReaction(_ context.Context, channelID, messageID string, emote transport.Emote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpReact, ChannelID: channelID, MessageID: messageID, Emote: emote})
	if err := r.errs[OpReact]; err != nil {
		return err
	}
	p, ok := r.messages[key(channelID, messageID)]
	if !ok {
		return transport.ErrNotFound
	}
	for _, k := range p.Reactions {
		if k == emote.Key() {
			return nil
		}
	}
	p.Reactions = append(p.Reactions, emote.Key())
	return nil
}

func (r *Recorder) GuildRoles(_ context.Context, guildID string) ([]transport.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpRoles, GuildID: guildID})
	if err := r.errs[OpRoles]; err != nil {
		return nil, err
	}
	return append([]transport.Role(nil), r.roles[guildID]...), nil
}

func (r *Recorder) GuildEmotes(_ context.Context, guildID string) ([]transport.Emote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpEmotes, GuildID: guildID})
	if err := r.errs[OpEmotes]; err != nil {
		return nil, err
	}
	return append([]transport.Emote(nil), r.emotes[guildID]...), nil
}

func (r *Recorder) AddRole(_ context.Context, guildID, userID, roleID string) error {
	return r.record(Call{Op: OpAddRole, GuildID: guildID, UserID: userID, RoleID: roleID})
}

func (r *Recorder) RemoveRole(_ context.Context, guildID, userID, roleID string) error {
	return r.record(Call{Op: OpRemoveRole, GuildID: guildID, UserID: userID, RoleID: roleID})
}

func (r *Recorder) Kick(_ context.Context, guildID, userID, reason string) error {
	return r.record(Call{Op: OpKick, GuildID: guildID, UserID: userID, Content: reason})
}

func (r *Recorder) Ban(_ context.Context, guildID, userID string, purgeDays int, reason string) error {
	return r.record(Call{Op: OpBan, GuildID: guildID, UserID: userID, N: purgeDays, Content: reason})
}

func (r *Recorder) Unban(_ context.Context, guildID, userID string) error {
	return r.record(Call{Op: OpUnban, GuildID: guildID, UserID: userID})
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	return r.errs[c.Op]
}

func (r *Recorder) store(channelID string, msg transport.Message) string {
	r.nextID++
	id := strconv.FormatUint(r.nextID, 10)
	r.messages[key(channelID, id)] = &Posted{ID: id, ChannelID: channelID, Msg: msg}
	r.history[channelID] = append(r.history[channelID], id)
	return id
}

func (r *Recorder) drop(channelID, messageID string) {
	delete(r.messages, key(channelID, messageID))
	ids := r.history[channelID]
	for i, id := range ids {
		if id == messageID {
			r.history[channelID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

func key(channelID, messageID string) string { return channelID + "/" + messageID }

var _ transport.Transport = (*Recorder)(nil)
