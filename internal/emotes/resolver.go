package emotes

import (
	"context"

	"github.com/keshon/server-herald/internal/transport"
)

// Resolver is shared by the role and join engines.
type Resolver struct {
	Cache    *Cache
	Standard *StandardTable
}

// Resolve looks name up among the guild's custom emotes first, then in the
// standard table. ok is false when neither has it.
func (r *Resolver) Resolve(ctx context.Context, guildID, name string) (transport.Emote, bool, error) {
	set, err := r.Cache.Guild(ctx, guildID)
	if err != nil {
		return transport.Emote{}, false, err
	}
	for _, e := range set {
		if e.Name == name {
			return e, true, nil
		}
	}
	e, ok := r.Standard.Lookup(name)
	return e, ok, nil
}

// Random draws one custom emote uniformly using intn, which must return a value
// in [0,n). ok is false when the guild has none.
func (r *Resolver) Random(ctx context.Context, guildID string, intn func(n int) int) (transport.Emote, bool, error) {
	set, err := r.Cache.Guild(ctx, guildID)
	if err != nil {
		return transport.Emote{}, false, err
	}
	if len(set) == 0 {
		return transport.Emote{}, false, nil
	}
	return set[intn(len(set))], true, nil
}
