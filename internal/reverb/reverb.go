// Package reverb post-processes rendered audio with a simple feedback comb
// filter, for cmd/ tools that want a bit of room tone on top of pocketmod's
// dry mix. Unlike a fixed hardware mixer, a pocketmod.Context can have
// anywhere from 1 to MaxChannels channels, so FromPreset scales decay by the
// song's own channel count: a dense multi-channel mix already has plenty of
// its own voices colliding, so it gets proportionally less feedback than a
// sparse one, instead of every song getting identical reverb regardless of
// how much is already going on in the mix.
//
// It operates directly on the stereo frames pocketmod.Context.Render
// produces, ahead of internal/pcm's int16 conversion, so a reverb tail never
// has to be un-clipped before it's fed back.
package reverb

// Reverber accepts rendered stereo frames and emits the (possibly delayed)
// processed result. Implementations may buffer: GetAudio can return fewer
// frames than requested, or zero, while waiting for enough input to start
// producing output.
type Reverber interface {
	InputSamples(in [][2]float32) int
	GetAudio(out [][2]float32) int
}

// PassThrough is a Reverber that buffers audio without altering it, used
// when reverb is disabled but callers still want a uniform Reverber
// pipeline.
type PassThrough struct {
	audio             [][2]float32
	bufSize           int
	readPos, writePos int
	n                 int
}

var _ Reverber = (*PassThrough)(nil)

// NewPassThrough creates a PassThrough backed by a ring buffer of
// bufferSize frames.
func NewPassThrough(bufferSize int) *PassThrough {
	return &PassThrough{
		audio:   make([][2]float32, bufferSize),
		bufSize: bufferSize,
	}
}

func (r *PassThrough) InputSamples(in [][2]float32) int {
	free := r.bufSize - r.n
	n := len(in)
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	if r.writePos+n >= r.bufSize {
		n1 := r.bufSize - r.writePos
		n2 := n - n1
		copy(r.audio[r.writePos:r.writePos+n1], in[:n1])
		copy(r.audio[:n2], in[n1:n1+n2])
		r.writePos = n2
	} else {
		copy(r.audio[r.writePos:r.writePos+n], in[:n])
		r.writePos += n
	}
	r.n += n
	return n
}

func (r *PassThrough) GetAudio(out [][2]float32) int {
	n := len(out)
	if n > r.n {
		n = r.n
	}
	if n == 0 {
		return 0
	}

	if r.readPos+n > r.bufSize {
		n1 := r.bufSize - r.readPos
		n2 := n - n1
		copy(out[:n1], r.audio[r.readPos:r.readPos+n1])
		copy(out[n1:n], r.audio[:n2])
		r.readPos = n2
	} else {
		copy(out[:n], r.audio[r.readPos:r.readPos+n])
		r.readPos += n
	}
	r.n -= n
	return n
}

// Comb is a feedback comb filter Reverber: once delayOffset frames have
// accumulated, each new frame feeds back decay-scaled, per channel, into the
// frame delayMs later. It keeps every frame it has been fed, so its memory
// grows with the length of the render; cmd/modplay's live playback keeps
// growing it for as long as it plays.
type Comb struct {
	delayOffset       int
	decay             float32
	audio             [][2]float32
	readPos, writePos int
}

var _ Reverber = (*Comb)(nil)

// NewComb creates a Comb with delayMs of feedback delay at sampleRate,
// reserving room for initialSize frames up front.
func NewComb(initialSize int, decay float32, delayMs, sampleRate int) *Comb {
	return &Comb{
		delayOffset: (delayMs * sampleRate) / 1000,
		decay:       decay,
		audio:       make([][2]float32, 0, initialSize),
	}
}

func (c *Comb) InputSamples(in [][2]float32) int {
	c.audio = append(c.audio, in...)
	if len(c.audio) > c.delayOffset {
		ns := len(c.audio) - (c.delayOffset + c.writePos)
		for i := 0; i < ns; i++ {
			dst := &c.audio[i+c.delayOffset+c.writePos]
			src := c.audio[i+c.writePos]
			dst[0] += src[0] * c.decay
			dst[1] += src[1] * c.decay
		}
		c.writePos += ns
	}
	rem := c.delayOffset - len(c.audio)
	if rem < 0 {
		rem = 0
	}
	return rem
}

func (c *Comb) GetAudio(out [][2]float32) int {
	wanted := len(out)
	have := len(c.audio) - c.readPos
	if wanted > have {
		wanted = have
	}
	if wanted > 0 {
		copy(out, c.audio[c.readPos:c.readPos+wanted])
		c.readPos += wanted
	}
	return wanted
}

// baselineChannels is the classic 4-channel ProTracker mix the preset decay
// constants below were tuned against.
const baselineChannels = 4

// maxDecayScale caps how much a very sparse (1-2 channel) song can boost
// decay over the baseline, so a near-empty mix doesn't runaway into a wash
// of feedback.
const maxDecayScale = float32(1.5)

// FromPreset builds the Reverber named by preset ("none", "light",
// "medium", "silly") at sampleRate, scaling decay for numChannels (the
// song's own channel count, from Context.NumChannels). An unrecognized
// preset is an error; callers that don't want reverb at all should pass
// "none" rather than skip this call, so every caller goes through the same
// Reverber pipeline.
func FromPreset(preset string, sampleRate, numChannels int) (Reverber, error) {
	decay := float32(0.2)
	delayMs := 150
	switch preset {
	case "light":
	case "medium":
		decay, delayMs = 0.3, 250
	case "silly":
		decay, delayMs = 0.5, 2500
	case "none":
		decay = 0
	default:
		return nil, &unrecognizedPresetError{preset}
	}

	if decay == 0 {
		return NewPassThrough(10 * 1024), nil
	}

	if numChannels < 1 {
		numChannels = 1
	}
	scale := float32(baselineChannels) / float32(numChannels)
	if scale > maxDecayScale {
		scale = maxDecayScale
	}
	decay *= scale

	return NewComb(10*1024, decay, delayMs, sampleRate), nil
}

type unrecognizedPresetError struct{ preset string }

func (e *unrecognizedPresetError) Error() string {
	return "reverb: unrecognized preset " + e.preset
}
