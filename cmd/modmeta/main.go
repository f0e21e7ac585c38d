// Command modmeta prints a MOD file's header fields without playing it:
// format identification, channel/sample counts, order length, and the
// sample slots themselves. A file pocketmod refuses to Init is reported as
// not a recognized MOD file and nothing is printed for it.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/rombankzero/pocketmod"
)

func main() {
	log.SetReportTimestamp(false)
	log.SetPrefix("modmeta")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: modmeta <song.mod>\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		log.Fatal("reading song", "err", err)
	}

	var c pocketmod.Context
	if !c.Init(data, 44100) {
		log.Fatal("not a recognized MOD file", "file", pflag.Arg(0))
	}

	fmt.Printf("title:      %q\n", title(data))
	fmt.Printf("channels:   %d\n", c.NumChannels())
	fmt.Printf("samples:    %d\n", c.NumSamples())
	fmt.Printf("order len:  %d\n", c.Length())
	fmt.Printf("patterns:   %d\n", c.NumPatterns())
	fmt.Println()

	for i := 1; i <= c.NumSamples(); i++ {
		off := 20 + (i-1)*30
		if off+22 > len(data) {
			break
		}
		name := sanitize(data[off : off+22])
		if name == "" {
			continue
		}
		length := (int(data[off+22])<<8 | int(data[off+23])) * 2
		fmt.Printf("  sample %2d: %-22q %6d bytes\n", i, name, length)
	}
}

func title(data []byte) string {
	if len(data) < 20 {
		return ""
	}
	return sanitize(data[0:20])
}

func sanitize(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}
