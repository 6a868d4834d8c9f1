package crafting

import "github.com/rogueforge/simcore/pkg/rng"

// Streams owns the four independent crafting RNG channels keyed by
// rng.CraftStream, each seeded from the session seed per
// rng.CraftStreamSeed, per spec.md §4.1's "four independent channels keyed
// {Gathering, Refinement, CraftQuality, Enhancement}".
type Streams struct {
	channels [4]*rng.Channel
}

// NewStreams derives all four crafting channels from one session seed.
func NewStreams(sessionSeed uint32) *Streams {
	s := &Streams{}
	for i := rng.CraftStreamGathering; i <= rng.CraftStreamEnhancement; i++ {
		s.channels[i] = rng.NewChannel(rng.CraftStreamSeed(sessionSeed, i))
	}
	return s
}

// Next returns the named stream's channel for the caller to draw from. Next
// itself draws nothing; the stream advances as the caller draws from the
// returned channel.
func (s *Streams) Next(stream rng.CraftStream) *rng.Channel {
	return s.channels[stream]
}
