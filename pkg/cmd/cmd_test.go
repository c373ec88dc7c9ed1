package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named struct {
	name string
	tag  int
}

func newRegistry() *Registry[named] {
	return NewRegistry(func(n named) string { return n.name })
}

func TestRegistryOrderAndFirstWins(t *testing.T) {
	r := newRegistry()
	assert.True(t, r.Register(named{"help", 1}))
	assert.True(t, r.Register(named{"poll", 2}))
	assert.False(t, r.Register(named{"help", 3}))

	got, ok := r.Get("help")
	require.True(t, ok)
	assert.Equal(t, 1, got.tag)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []named{{"help", 1}, {"poll", 2}, {"help", 3}}, r.All())
}

func TestRegistryAllIsACopy(t *testing.T) {
	r := newRegistry()
	r.Register(named{"a", 1})
	all := r.All()
	all[0].tag = 9

	got, _ := r.Get("a")
	assert.Equal(t, 1, got.tag)
	assert.Equal(t, 1, r.All()[0].tag)
}

func TestApplyFirstIsOutermost(t *testing.T) {
	var trace []string
	mw := func(name string) Middleware[string] {
		return func(next Handler[string]) Handler[string] {
			return func(ctx context.Context, inv string) error {
				trace = append(trace, name+">")
				err := next(ctx, inv)
				trace = append(trace, "<"+name)
				return err
			}
		}
	}

	h := Apply(func(context.Context, string) error {
		trace = append(trace, "run")
		return nil
	}, mw("outer"), mw("inner"))

	require.NoError(t, h(context.Background(), "x"))
	assert.Equal(t, []string{"outer>", "inner>", "run", "<inner", "<outer"}, trace)
}
