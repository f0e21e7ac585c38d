// Command modwav renders a MOD file to a WAV file, stopping once LoopCount
// reaches the --loops pass count (default 1: one full pass, up to the first
// detected loop), optionally passed through a comb reverb.
package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/rombankzero/pocketmod"
	"github.com/rombankzero/pocketmod/internal/pcm"
	"github.com/rombankzero/pocketmod/internal/reverb"
	"github.com/rombankzero/pocketmod/internal/wavwriter"
)

const renderChunkFrames = 2048

func main() {
	log.SetReportTimestamp(false)
	log.SetPrefix("modwav")

	hz := pflag.IntP("hz", "r", 44100, "output sample rate")
	boost := pflag.Float64P("boost", "b", 1.0, "linear volume boost before clipping")
	out := pflag.StringP("out", "o", "", "output WAV path (required)")
	reverbPreset := pflag.String("reverb", "none", "reverb preset: none, light, medium, silly")
	loops := pflag.IntP("loops", "l", 1, "stop after this many passes through the song")
	pflag.Parse()

	if pflag.NArg() != 1 || *out == "" {
		log.Fatal("usage: modwav --out <output.wav> <song.mod>")
	}

	data, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		log.Fatal("reading song", "err", err)
	}

	var c pocketmod.Context
	if !c.Init(data, *hz) {
		log.Fatal("not a recognized MOD file", "file", pflag.Arg(0))
	}

	rv, err := reverb.FromPreset(*reverbPreset, *hz, c.NumChannels())
	if err != nil {
		log.Fatal("reverb preset", "err", err)
	}

	outF, err := os.Create(*out)
	if err != nil {
		log.Fatal("creating output", "err", err)
	}
	defer outF.Close()

	w, err := wavwriter.NewWriter(outF, *hz)
	if err != nil {
		log.Fatal("writing WAV header", "err", err)
	}

	frames := make([][2]float32, renderChunkFrames)
	wet := make([][2]float32, renderChunkFrames)
	pcmBuf := make([]int16, renderChunkFrames*2)

	for c.LoopCount() < *loops {
		n := c.Render(frames)
		rv.InputSamples(frames[:n])

		got := rv.GetAudio(wet)
		if got > 0 {
			pcm.Encode(wet[:got], *boost, pcmBuf[:got*2])
			if err := w.WriteFrame(pcmBuf[:got*2]); err != nil {
				log.Fatal("writing frame", "err", err)
			}
		}
		if n == 0 {
			break
		}
	}

	// Flush whatever the reverb tail still holds.
	for {
		got := rv.GetAudio(wet)
		if got == 0 {
			break
		}
		pcm.Encode(wet[:got], *boost, pcmBuf[:got*2])
		if err := w.WriteFrame(pcmBuf[:got*2]); err != nil {
			log.Fatal("writing frame", "err", err)
		}
	}

	if err := w.WriteTitle(title(data)); err != nil {
		log.Fatal("writing title chunk", "err", err)
	}
	if _, err := w.Finish(); err != nil {
		log.Fatal("finishing WAV", "err", err)
	}
}

func title(data []byte) string {
	if len(data) < 20 {
		return ""
	}
	return strings.TrimRight(string(data[0:20]), "\x00")
}
