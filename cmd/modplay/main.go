// Command modplay plays a MOD file live through the default audio device
// and prints a one-line position readout (order/line/loop count) while it
// plays. The listener can toggle per-channel mute/solo live with the
// left/right arrow keys to pick a channel and q/s to mute/solo it, the same
// bindings chriskillpack/modplayer's play.go uses. Ctrl-C or Esc stops
// cleanly.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/rombankzero/pocketmod"
	"github.com/rombankzero/pocketmod/internal/pcm"
	"github.com/rombankzero/pocketmod/internal/reverb"
)

func main() {
	log.SetReportTimestamp(false)
	log.SetPrefix("modplay")

	hz := pflag.IntP("hz", "r", 44100, "output sample rate")
	boost := pflag.Float64P("boost", "b", 1.0, "linear volume boost before clipping")
	mute := pflag.String("mute", "", "comma-separated channel numbers to mute at startup, e.g. 0,2")
	reverbPreset := pflag.String("reverb", "none", "reverb preset: none, light, medium, silly")
	pflag.Parse()

	if pflag.NArg() != 1 {
		log.Fatal("usage: modplay [flags] <song.mod>")
	}

	data, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		log.Fatal("reading song", "err", err)
	}

	var c pocketmod.Context
	if !c.Init(data, *hz) {
		log.Fatal("not a recognized MOD file", "file", pflag.Arg(0))
	}
	for _, s := range strings.Split(*mute, ",") {
		if s == "" {
			continue
		}
		ch, err := strconv.Atoi(s)
		if err != nil {
			log.Fatal("bad -mute value", "value", s)
		}
		c.SetChannelMuted(ch, true)
	}

	rv, err := reverb.FromPreset(*reverbPreset, *hz, c.NumChannels())
	if err != nil {
		log.Fatal("reverb preset", "err", err)
	}

	if err := portaudio.Initialize(); err != nil {
		log.Fatal("initializing portaudio", "err", err)
	}
	defer portaudio.Terminate()

	var mu sync.Mutex
	frames := make([][2]float32, 0)
	wet := make([][2]float32, 0)

	streamCB := func(out []int16) {
		mu.Lock()
		defer mu.Unlock()
		n := len(out) / 2
		if cap(frames) < n {
			frames = make([][2]float32, n)
			wet = make([][2]float32, n)
		}
		frames = frames[:n]
		wet = wet[:n]

		got := c.Render(frames)
		for i := got; i < n; i++ {
			frames[i] = [2]float32{}
		}

		rv.InputSamples(frames)
		got = rv.GetAudio(wet)
		for i := got; i < n; i++ {
			// The reverber handed back fewer frames than requested (a
			// PassThrough holds at most its ring-buffer size); fill the gap
			// with silence rather than leaving stale samples in out.
			wet[i] = [2]float32{}
		}
		pcm.Encode(wet, *boost, out)
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, float64(*hz), portaudio.FramesPerBufferUnspecified, streamCB)
	if err != nil {
		log.Fatal("opening audio stream", "err", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		log.Fatal("starting audio stream", "err", err)
	}
	defer stream.Stop()

	done := make(chan struct{})
	var stopOnce sync.Once
	stop := func() { stopOnce.Do(func() { close(done) }) }

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	go func() {
		<-sigch
		stop()
	}()

	keyboardDone := make(chan struct{})
	go func() {
		defer close(keyboardDone)
		selected, soloChannel := 0, -1
		keyboard.Listen(func(key keys.Key) (bool, error) {
			if key.Code == keys.CtrlC || key.Code == keys.Escape {
				stop()
				return true, nil
			}

			switch key.Code {
			case keys.Left:
				mu.Lock()
				if selected > 0 {
					selected--
				}
				mu.Unlock()
			case keys.Right:
				mu.Lock()
				if selected < c.NumChannels()-1 {
					selected++
				}
				mu.Unlock()
			case keys.RuneKey:
				if len(key.Runes) == 0 {
					break
				}
				switch key.Runes[0] {
				case 'q':
					mu.Lock()
					c.SetChannelMuted(selected, !c.ChannelMuted(selected))
					mu.Unlock()
				case 's':
					mu.Lock()
					if soloChannel != selected {
						for ch := 0; ch < c.NumChannels(); ch++ {
							c.SetChannelMuted(ch, ch != selected)
						}
						soloChannel = selected
					} else {
						for ch := 0; ch < c.NumChannels(); ch++ {
							c.SetChannelMuted(ch, false)
						}
						soloChannel = -1
					}
					mu.Unlock()
				}
			}
			return false, nil
		})
	}()

	cyan := color.New(color.FgCyan).SprintfFunc()
	yellow := color.New(color.FgYellow).SprintfFunc()

	fmt.Println(pflag.Arg(0))
	lastOrder, lastLine := -1, -1
	for {
		select {
		case <-done:
			// Give the keyboard listener a moment to unwind and restore
			// terminal state; a SIGINT-driven stop doesn't itself wake it
			// (it's blocked waiting on a keypress), so don't wait forever.
			select {
			case <-keyboardDone:
			case <-time.After(200 * time.Millisecond):
			}
			return
		default:
		}

		mu.Lock()
		order, line := c.Position()
		loops := c.LoopCount()
		mu.Unlock()

		if order != lastOrder || line != lastLine {
			fmt.Printf("\r%s %s loops=%d   ", cyan("order %3d", order), yellow("line %2d", line), loops)
			lastOrder, lastLine = order, line
		}
	}
}
