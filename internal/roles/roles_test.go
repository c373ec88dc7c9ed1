package roles

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/keshon/server-herald/internal/emotes"
	"github.com/keshon/server-herald/internal/storage"
	"github.com/keshon/server-herald/internal/transport"
	"github.com/keshon/server-herald/internal/transport/transporttest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	red  = transport.Emote{ID: "e1", Name: "redcircle"}
	blue = transport.Emote{ID: "e2", Name: "bluecircle"}
	star = transport.Emote{Name: "⭐"}
)

func newRecorder() *transporttest.Recorder {
	rec := transporttest.New()
	rec.SetRoles("g1",
		transport.Role{ID: "r1", Name: "Red"},
		transport.Role{ID: "r2", Name: "Blue"},
		transport.Role{ID: "r3", Name: "Gold"},
	)
	rec.SetEmotes("g1", red, blue)
	return rec
}

func newEngine(t *testing.T, rec *transporttest.Recorder, interval time.Duration) *Engine {
	t.Helper()
	cache, err := emotes.NewCache(rec, 0)
	require.NoError(t, err)
	std := emotes.ParseStandard([]storage.Line{{No: 1, Text: "star,2B50"}})

	return NewEngine(Options{
		GuildID:          "g1",
		ChannelID:        "c1",
		Paths:            storage.Paths{Dir: t.TempDir()},
		Transport:        rec,
		Emotes:           &emotes.Resolver{Cache: cache, Standard: std},
		Logger:           zaptest.NewLogger(t),
		ReactionInterval: interval,
	})
}

func writeRoles(t *testing.T, e *Engine, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.paths.Roles(), []byte(content), 0644))
}

func reactionKeys(rec *transporttest.Recorder) []string {
	var out []string
	for _, c := range rec.CallsOf(transporttest.OpReact) {
		out = append(out, c.Emote.Key())
	}
	return out
}

func TestLoadCreatesMessage(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)
	writeRoles(t, e, "Red;redcircle\nBlue;bluecircle\nGold;star\nGhost;redcircle\nRed;nope\nbad\n\n")

	require.NoError(t, e.Load(context.Background()))
	assert.Equal(t, Ready, e.State())
	assert.Len(t, e.Bindings(), 3)

	sends := rec.CallsOf(transporttest.OpSend)
	require.Len(t, sends, 1)
	embed := sends[0].Msg.Embed
	require.NotNil(t, embed)
	assert.Equal(t, "Role List", embed.Title)
	assert.Equal(t,
		"Please react with any of the following emotes to receive its corresponding role.\n"+
			"\n**Red**: <:redcircle:e1>\n"+
			"\n**Blue**: <:bluecircle:e2>\n"+
			"\n**Gold**: ⭐\n",
		embed.Description)

	assert.Equal(t, []string{"redcircle:e1", "bluecircle:e2", "⭐"}, reactionKeys(rec))

	stored, err := storage.MessageIDStore{Path: e.paths.RoleMessage()}.Load()
	require.NoError(t, err)
	assert.NotZero(t, stored)
	assert.Equal(t, e.MessageID(), formatID(stored))
}

func TestSecondLoadReusesMessage(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)
	writeRoles(t, e, "Red;redcircle\nBlue;bluecircle\n")
	ctx := context.Background()

	require.NoError(t, e.Load(ctx))
	first := e.MessageID()
	require.NoError(t, e.Load(ctx))

	assert.Equal(t, first, e.MessageID())
	assert.Len(t, rec.CallsOf(transporttest.OpSend), 1)
	assert.Len(t, rec.CallsOf(transporttest.OpReact), 2)

	edits := rec.CallsOf(transporttest.OpEdit)
	require.Len(t, edits, 1)
	assert.Equal(t, first, edits[0].MessageID)
}

func TestReloadAddsOnlyMissingReactions(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)
	writeRoles(t, e, "Red;redcircle\nBlue;bluecircle\n")
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))

	writeRoles(t, e, "Red;redcircle\nBlue;bluecircle\nGold;star\n")
	require.NoError(t, e.Load(ctx))

	assert.Equal(t, []string{"redcircle:e1", "bluecircle:e2", "⭐"}, reactionKeys(rec))
	assert.Len(t, e.Bindings(), 3)
	assert.Contains(t, rec.Message("c1", e.MessageID()).Msg.Embed.Description, "**Gold**")
}

func TestStaleMessageIDCreatesNewMessage(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)
	writeRoles(t, e, "Red;redcircle\n")
	ctx := context.Background()

	require.NoError(t, e.Load(ctx))
	first := e.MessageID()
	rec.Forget("c1", first)

	require.NoError(t, e.Load(ctx))
	assert.NotEqual(t, first, e.MessageID())
	assert.Len(t, rec.CallsOf(transporttest.OpSend), 2)

	stored, err := storage.MessageIDStore{Path: e.paths.RoleMessage()}.Load()
	require.NoError(t, err)
	assert.Equal(t, e.MessageID(), formatID(stored))
}

func TestLoadReusesMessageStoredOnDisk(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)
	writeRoles(t, e, "Red;redcircle\n")
	existing := rec.Seed("c1", 1)[0]
	require.NoError(t, storage.MessageIDStore{Path: e.paths.RoleMessage()}.Save(parseID(t, existing)))

	require.NoError(t, e.Load(context.Background()))
	assert.Equal(t, existing, e.MessageID())
	assert.Empty(t, rec.CallsOf(transporttest.OpSend))
	assert.Equal(t, []string{"redcircle:e1"}, rec.Message("c1", existing).Reactions)
}

func TestZeroBindingsFails(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)
	writeRoles(t, e, "Nobody;redcircle\nRed;unknown\n")

	err := e.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoBindings)
	assert.Equal(t, Failed, e.State())
	assert.Empty(t, rec.CallsOf(transporttest.OpSend))
	assert.Empty(t, e.MessageID())
}

func TestMissingFileFailsAndCreatesIt(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)

	err := e.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrConfiguration)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, Failed, e.State())
	assert.FileExists(t, e.paths.Roles())
	assert.Empty(t, rec.Calls())
}

func TestFailedReloadKeepsPreviousBindings(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)
	writeRoles(t, e, "Red;redcircle\n")
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))
	id := e.MessageID()

	writeRoles(t, e, "Nobody;nothing\n")
	assert.ErrorIs(t, e.Load(ctx), ErrNoBindings)
	assert.Equal(t, Ready, e.State())
	assert.Equal(t, id, e.MessageID())
	assert.Len(t, e.Bindings(), 1)
}

func TestTransportErrorDuringLoad(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)
	writeRoles(t, e, "Red;redcircle\n")
	boom := errors.New("boom")
	rec.Fail(transporttest.OpSend, boom)

	assert.ErrorIs(t, e.Load(context.Background()), boom)
	assert.Equal(t, Failed, e.State())
}

func TestReactionsArePaced(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 50*time.Millisecond)
	writeRoles(t, e, "Red;redcircle\nBlue;bluecircle\nGold;star\n")

	start := time.Now()
	require.NoError(t, e.Load(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Len(t, rec.CallsOf(transporttest.OpReact), 3)
}

func TestRoute(t *testing.T) {
	target := Target{ChannelID: "c1", MessageID: "m1", SelfID: "bot"}
	bindings := []Binding{
		{Role: transport.Role{ID: "r1", Name: "Red"}, Emote: red},
		{Role: transport.Role{ID: "r3", Name: "Gold"}, Emote: star},
		{Role: transport.Role{ID: "r9", Name: "Shadowed"}, Emote: star},
	}
	tests := []struct {
		name string
		r    Reaction
		want string
	}{
		{"custom emote", Reaction{ChannelID: "c1", MessageID: "m1", UserID: "u1", Emote: red}, "r1"},
		{"renamed custom emote", Reaction{ChannelID: "c1", MessageID: "m1", UserID: "u1", Emote: transport.Emote{ID: "e1", Name: "old"}}, "r1"},
		{"unicode first match wins", Reaction{ChannelID: "c1", MessageID: "m1", UserID: "u1", Emote: star}, "r3"},
		{"unbound emote", Reaction{ChannelID: "c1", MessageID: "m1", UserID: "u1", Emote: blue}, ""},
		{"other channel", Reaction{ChannelID: "c2", MessageID: "m1", UserID: "u1", Emote: red}, ""},
		{"other message", Reaction{ChannelID: "c1", MessageID: "m2", UserID: "u1", Emote: red}, ""},
		{"bot itself", Reaction{ChannelID: "c1", MessageID: "m1", UserID: "bot", Emote: red}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := Route(target, bindings, tt.r)
			assert.Equal(t, tt.want != "", ok)
			assert.Equal(t, tt.want, role.ID)
		})
	}

	_, ok := Route(Target{ChannelID: "c1"}, bindings, Reaction{ChannelID: "c1", UserID: "u1", Emote: red})
	assert.False(t, ok, "no tracked message")
}

func TestReactionEvents(t *testing.T) {
	rec := newRecorder()
	e := newEngine(t, rec, 0)
	ctx := context.Background()

	require.NoError(t, e.OnReactionAdd(ctx, Reaction{ChannelID: "c1", MessageID: "1", UserID: "u1", Emote: red}))
	assert.Empty(t, rec.CallsOf(transporttest.OpAddRole), "not loaded yet")

	writeRoles(t, e, "Red;redcircle\n")
	require.NoError(t, e.Load(ctx))
	e.SetSelfID("bot")
	id := e.MessageID()

	require.NoError(t, e.OnReactionAdd(ctx, Reaction{ChannelID: "c1", MessageID: id, UserID: "u1", Emote: red}))
	require.NoError(t, e.OnReactionRemove(ctx, Reaction{ChannelID: "c1", MessageID: id, UserID: "u1", Emote: red}))
	require.NoError(t, e.OnReactionAdd(ctx, Reaction{ChannelID: "c1", MessageID: id, UserID: "bot", Emote: red}))
	require.NoError(t, e.OnReactionAdd(ctx, Reaction{ChannelID: "c1", MessageID: id, UserID: "u1", Emote: blue}))

	adds := rec.CallsOf(transporttest.OpAddRole)
	require.Len(t, adds, 1)
	assert.Equal(t, transporttest.Call{Op: transporttest.OpAddRole, GuildID: "g1", UserID: "u1", RoleID: "r1"}, adds[0])

	removes := rec.CallsOf(transporttest.OpRemoveRole)
	require.Len(t, removes, 1)
	assert.Equal(t, "r1", removes[0].RoleID)

	boom := errors.New("missing permissions")
	rec.Fail(transporttest.OpAddRole, boom)
	assert.ErrorIs(t, e.OnReactionAdd(ctx, Reaction{ChannelID: "c1", MessageID: id, UserID: "u2", Emote: red}), boom)
}

func TestRender(t *testing.T) {
	embed := Render(nil)
	assert.Equal(t, "Role List", embed.Title)
	assert.Equal(t, "Please react with any of the following emotes to receive its corresponding role.\n", embed.Description)
}
