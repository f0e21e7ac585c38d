// Package pcm converts pocketmod's unclamped float32 stereo frames into
// clipped 16-bit PCM, the format cmd/modwav and cmd/modplay need for a WAV
// file or an audio device.
package pcm

// Encode writes len(frames) interleaved int16 stereo samples into out,
// which must have at least 2*len(frames) elements. boost scales the signal
// before clipping; pass 1 for unity gain. Values outside int16 range are
// clamped rather than wrapped.
func Encode(frames [][2]float32, boost float64, out []int16) {
	for i, f := range frames {
		out[i*2+0] = clip(float64(f[0]) * boost)
		out[i*2+1] = clip(float64(f[1]) * boost)
	}
}

func clip(v float64) int16 {
	s := v * 32767.0
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
