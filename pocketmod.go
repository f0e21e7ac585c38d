// Package pocketmod decodes and mixes Amiga ProTracker/SoundTracker "MOD"
// music modules into interleaved stereo float audio, one render call at a
// time. It is a synchronous, single-threaded, allocation-free engine: all
// state lives in a Context, data is read-only and borrowed for the
// Context's lifetime, and Render performs no I/O.
//
// This package intentionally does not read files, write audio devices, or
// convert its output to integer PCM — see the cmd/ tools in this module for
// those concerns.
package pocketmod

// Compile-time configuration. These mirror the #define knobs of the
// original C decoder (POCKETMOD_MAX_CHANNELS, POCKETMOD_MAX_SAMPLES,
// POCKETMOD_NO_INTERPOLATION); in Go the idiomatic way to expose a
// compile-time tunable is an exported const a caller can fork and change,
// not a runtime flag — changing either array bound reshapes Context, so
// there is no way to make it a runtime parameter without allocation.
const (
	// MaxChannels bounds the channel count a Context can hold. Modules
	// with more channels than this are rejected by Init.
	MaxChannels = 32

	// MaxSamples bounds the instrument slot count a Context can hold.
	MaxSamples = 31

	// Interpolate selects linear interpolation between consecutive sample
	// frames during mixing. Set to false to match the original decoder
	// built with POCKETMOD_NO_INTERPOLATION, trading audio quality for a
	// cheaper per-sample inner loop.
	Interpolate = true
)

// sampleData is a read-only view of one instrument's sample payload. Frames
// are signed 8-bit PCM stored as raw bytes; callers reinterpret them via
// int8 rather than copying into a differently-typed slice.
type sampleData struct {
	data   []byte
	length int
}

// Context holds one song's playback state. The zero Context is not usable;
// call Init first. A Context must not be used from two goroutines at once,
// but independent Contexts are fully independent and safe to run in
// parallel.
type Context struct {
	// Read-only song data, bound by Init into the caller's data slice.
	source      []byte
	order       []byte
	patterns    []byte
	length      int
	reset       int
	numPatterns int
	numSamples  int
	numChannels int
	samples     [MaxSamples]sampleData

	// Timing.
	samplesPerSecond int
	ticksPerLine     int
	samplesPerTick   float32

	// Loop detection.
	visited   [16]byte
	loopCount int

	// Render state.
	channels     [MaxChannels]channelState
	patternDelay byte
	lfoRNG       uint32

	// Position, from least to most granular.
	pattern int8
	line    int8
	tick    int16
	sample  float32

	// muted is a presentation-only bitmask (channel i muted iff bit i is
	// set) consulted by Render. It is not part of spec.md's state model
	// and is excluded from every invariant and algebraic law: toggling it
	// never reallocates, resizes, or changes scheduling, only whether a
	// channel's contribution reaches the mix.
	muted uint32
}

// NewContext allocates a zeroed Context. Callers may also just declare a
// Context value directly (var c pocketmod.Context); NewContext exists for
// symmetry with the rest of the API and for callers that want a pointer
// immediately.
func NewContext() *Context {
	return &Context{}
}

// LoopCount returns the number of times playback has looped back to an
// already-visited pattern-order position. It is monotonically
// non-decreasing across Render calls.
func (c *Context) LoopCount() int {
	return c.loopCount
}

// Position reports the current order index and line within that order's
// pattern. It is a read-only accessor for display purposes and does not
// affect playback.
func (c *Context) Position() (order, line int) {
	return int(c.pattern), int(c.line)
}

// NumChannels reports the channel count of the loaded song.
func (c *Context) NumChannels() int {
	return c.numChannels
}

// NumSamples reports the instrument slot count of the loaded song (15 for
// the untagged SoundTracker format, 31 for every tagged format).
func (c *Context) NumSamples() int {
	return c.numSamples
}

// NumPatterns reports one more than the highest pattern number in the
// song's order table, i.e. the number of patterns stored in the file.
func (c *Context) NumPatterns() int {
	return c.numPatterns
}

// Length reports the number of entries in the song's pattern-order table.
func (c *Context) Length() int {
	return c.length
}

// SetChannelMuted toggles whether channel ch contributes to Render's output.
// Muting is purely a presentation concern for interactive players (see
// cmd/modplay); it does not affect scheduling, effect processing, or any
// other channel state.
func (c *Context) SetChannelMuted(ch int, muted bool) {
	if ch < 0 || ch >= MaxChannels {
		return
	}
	if muted {
		c.muted |= 1 << uint(ch)
	} else {
		c.muted &^= 1 << uint(ch)
	}
}

// ChannelMuted reports whether channel ch is currently muted.
func (c *Context) ChannelMuted(ch int) bool {
	if ch < 0 || ch >= MaxChannels {
		return false
	}
	return c.muted&(1<<uint(ch)) != 0
}
