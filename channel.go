package pocketmod

// Dirty bits requesting re-derivation of pitch/volume on the next update
// pass, per spec.md §3/§4.D step 3.
const (
	dirtyPitch  = 0x01
	dirtyVolume = 0x02
)

// channelState is the per-channel register file from spec.md §3.
type channelState struct {
	dirty   byte
	sample  byte // 0 means silent
	volume  byte // 0..64
	balance byte // 0=left, 255=right

	period int16 // 0, or within the finetune row's range (108..907 over all rows)
	target int16 // tone portamento destination

	finetune byte // 0..15

	loopCount byte // E6x state
	loopLine  byte

	lfoStep  byte
	lfoType  [2]byte // [0]=vibrato, [1]=tremolo waveform selector

	effect byte // 0x0..0xf or 0xe0..0xef
	param  byte // raw parameter from the current line

	// Per-effect parameter memories (spec.md §4.C).
	param3  byte
	param4  byte
	param7  byte
	param9  byte
	paramE1 byte
	paramE2 byte
	paramEA byte
	paramEB byte

	realVolume byte // post-tremolo volume, 0..64

	position  float32 // -1 means cut/silent
	increment float32
}

// memorizeWhole implements the whole-byte parameter memory rule: the stored
// value is overwritten only when the new value is nonzero (3xx, 5xx, E1x,
// E2x, EAx, EBx).
func memorizeWhole(dst *byte, src byte) {
	if src != 0 {
		*dst = src
	}
}

// memorizeNibbles implements the per-nibble parameter memory rule: each
// nibble replaces the stored nibble only when nonzero (4xy, 7xy).
func memorizeNibbles(dst *byte, src byte) {
	lo := *dst & 0x0f
	if src&0x0f != 0 {
		lo = src & 0x0f
	}
	hi := *dst & 0xf0
	if src&0xf0 != 0 {
		hi = src & 0xf0
	}
	*dst = hi | lo
}

func clampVolume(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 64 {
		return 64
	}
	return byte(v)
}

// lfo evaluates the vibrato/tremolo oscillator selected by the channel's
// waveform setting. rng is the scheduler's LFO random state, advanced once
// per channel per tick by the caller.
func lfo(ch *channelState, rng uint32, step int, tremolo bool) int {
	idx := 0
	if tremolo {
		idx = 1
	}
	switch ch.lfoType[idx] & 3 {
	case 0:
		return lfoSin(step & 0x3f)
	case 1:
		return 0xff - ((step & 0x3f) << 3)
	case 2:
		if step&0x3f < 0x20 {
			return 0xff
		}
		return -0xff
	default: // 3: random
		return int(rng&0x1ff) - 0xff
	}
}

// updatePitch re-derives ch.increment from ch.period, applying vibrato or
// arpeggio if active. Clears dirtyPitch.
func (ch *channelState) updatePitch(c *Context) {
	ch.increment = 0
	if ch.period != 0 {
		period := float32(ch.period)

		switch {
		case ch.effect == 0x4 || ch.effect == 0x6:
			step := int(ch.param4>>4) * int(ch.lfoStep)
			rate := int(ch.param4 & 0x0f)
			period += float32(lfo(ch, c.lfoRNG, step, false)*rate) / 128.0
		case ch.effect == 0x0 && ch.param != 0:
			shift := uint((2 - int(c.tick)%3) * 4)
			step := (ch.param >> shift) & 0x0f
			period /= arpeggioRatio[step]
		}

		ch.increment = 3546894.6 / (period * float32(c.samplesPerSecond))
	}
	ch.dirty &^= dirtyPitch
}

// updateVolume re-derives ch.realVolume from ch.volume, applying tremolo if
// active. Clears dirtyVolume.
func (ch *channelState) updateVolume(c *Context) {
	volume := int(ch.volume)
	if ch.effect == 0x7 {
		step := int(ch.lfoStep) * int(ch.param7>>4)
		volume += lfo(ch, c.lfoRNG, step, true) * int(ch.param7&0x0f) >> 6
	}
	ch.realVolume = clampVolume(volume)
	ch.dirty &^= dirtyVolume
}

// pitchSlide applies a relative period change, clamping to the valid period
// range for the channel's finetune, and marks pitch dirty. Used by porta
// up/down and the fine-porta extended effects.
func (ch *channelState) pitchSlide(amount int) {
	p := int(ch.period) + amount
	row := &amigaPeriod[ch.finetune]
	if p < int(row[35]) {
		p = int(row[35])
	}
	if p > int(row[0]) {
		p = int(row[0])
	}
	ch.period = int16(p)
	ch.dirty |= dirtyPitch
}

// volumeSlide applies a signed volume change derived from an Axy-style
// parameter byte and marks volume dirty. If both nibbles of param are
// nonzero, the high (increase) nibble wins — an undocumented ProTracker
// quirk that some tunes rely on.
func (ch *channelState) volumeSlide(param int) {
	var change int
	if param&0xf0 != 0 {
		change = param >> 4
	} else {
		change = -(param & 0x0f)
	}
	ch.volume = clampVolume(int(ch.volume) + change)
	ch.dirty |= dirtyVolume
}

// tonePortamento slides ch.period toward ch.target by ch.param3 per tick,
// clamping on overshoot so it never passes the target.
func (ch *channelState) tonePortamento() {
	rate := int(ch.param3)
	rising := ch.period < ch.target
	closer := int(ch.period)
	if rising {
		closer += rate
	} else {
		closer -= rate
	}
	stillRising := closer < int(ch.target)
	if stillRising == rising {
		ch.period = int16(closer)
	} else {
		ch.period = ch.target
	}
	ch.dirty |= dirtyPitch
}
