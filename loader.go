package pocketmod

import "errors"

// Sentinel errors naming the classes of input Init rejects, the taxonomy
// from spec.md §7. Init itself never returns an error value — it keeps the
// boolean contract from spec.md so the hot path matches the original ABI —
// and no function in this module returns these values; the cmd/ tools
// report a false Init as "not a recognized MOD file".
var (
	ErrMalformedHeader  = errors.New("pocketmod: malformed or unrecognized MOD header")
	ErrCapacityExceeded = errors.New("pocketmod: song exceeds compiled-in channel/sample capacity")
	ErrOutOfBoundsOrder = errors.New("pocketmod: order table references data past end of file")
	ErrInvalidArgument  = errors.New("pocketmod: invalid rate or empty buffer")
)

// formatTag associates a 4-byte MOD signature with its channel count.
type formatTag struct {
	tag      [4]byte
	channels int
}

var fixedFormatTags = []formatTag{
	{[4]byte{'M', '.', 'K', '.'}, 4},
	{[4]byte{'M', '!', 'K', '!'}, 4},
	{[4]byte{'F', 'L', 'T', '4'}, 4},
	{[4]byte{'4', 'C', 'H', 'N'}, 4},
	{[4]byte{'O', 'K', 'T', 'A'}, 8},
	{[4]byte{'O', 'C', 'T', 'A'}, 8},
	{[4]byte{'C', 'D', '8', '1'}, 8},
	{[4]byte{'F', 'A', '0', '8'}, 8},
}

// identify inspects data and fills in the header fields of c: order table
// location, song length/reset, pattern data location, sample count and
// channel count. It does not validate that those fields are in range; that
// happens in Init. Returns false if the data doesn't look like a MOD at all.
func identify(c *Context, data []byte) bool {
	if len(data) >= 1084 {
		var tag [4]byte
		copy(tag[:], data[1080:1084])

		n, ok := channelsForTag(tag)
		if !ok {
			n, ok = variableChannelTag(tag)
		}
		if ok {
			c.numChannels = n
			c.numSamples = 31
			c.length = int(data[950])
			c.reset = int(data[951])
			c.order = data[952:1080]
			c.patterns = data[1084:]
			return true
		}
	}

	if len(data) < 600 {
		return false
	}

	// Title and the 15 sample names must be printable ASCII or NUL.
	if !asciiOrNUL(data[0:20]) {
		return false
	}
	for i := 0; i < 15; i++ {
		off := 20 + i*30
		if !asciiOrNUL(data[off : off+22]) {
			return false
		}
	}

	c.numChannels = 4
	c.numSamples = 15
	c.length = int(data[470])
	c.reset = int(data[471])
	c.order = data[472:600]
	c.patterns = data[600:]
	return true
}

// FLT8 is intentionally unsupported: its pattern-pairing layout differs from
// every other tagged format and no reference file was ever on hand to
// validate a decoder against, so it falls through to "unrecognized".
func channelsForTag(tag [4]byte) (int, bool) {
	for _, ft := range fixedFormatTags {
		if ft.tag == tag {
			return ft.channels, true
		}
	}
	return 0, false
}

// variableChannelTag recognizes "NCHN" (1..8 channels) and "NNCH" (10..32
// channels, two ASCII digits).
func variableChannelTag(tag [4]byte) (int, bool) {
	if tag[1] == 'C' && tag[2] == 'H' && tag[3] == 'N' && isDigit(tag[0]) {
		n := int(tag[0] - '0')
		if n >= 1 && n <= 8 {
			return n, true
		}
		return 0, false
	}
	if tag[2] == 'C' && tag[3] == 'H' && isDigit(tag[0]) && isDigit(tag[1]) {
		n := int(tag[0]-'0')*10 + int(tag[1]-'0')
		if n >= 10 && n <= 32 {
			return n, true
		}
	}
	return 0, false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func asciiOrNUL(b []byte) bool {
	for _, c := range b {
		if c != 0 && (c < ' ' || c > '~') {
			return false
		}
	}
	return true
}

// sampleMeta returns the header fields that follow the 22-byte name of
// 1-based sample index k: [0:2] length in words, [2] finetune, [3] volume,
// [4:6] loop start in words, [6:8] loop length in words. The returned
// 30-byte slice runs on into the next sample's name.
func sampleMeta(source []byte, k int) []byte {
	off := 12 + 30*k
	return source[off : off+30]
}

// Init zero-initializes c, identifies and validates the MOD data, and binds
// read-only views into data for the order table, pattern data and sample
// payloads. data must outlive c. Returns false (and leaves c unusable) on
// any malformed input, per spec.md §4.B/§7.
func (c *Context) Init(data []byte, rate int) bool {
	*c = Context{}

	if rate <= 0 || len(data) == 0 {
		return false
	}
	c.source = data

	if !identify(c, data) {
		return false
	}
	if c.numChannels > MaxChannels {
		return false
	}
	if MaxSamples < 31 {
		for i := 0; i < c.numSamples; i++ {
			meta := sampleMeta(data, i+1)
			length := (int(meta[0])<<8 | int(meta[1])) * 2
			if i >= MaxSamples && length > 2 {
				return false
			}
		}
	}
	if c.length == 0 || c.length > 128 {
		return false
	}
	if c.reset >= c.length {
		c.reset = 0
	}

	numPatterns := 0
	for i := 0; i < 128 && c.order[i] < 128; i++ {
		if int(c.order[i]) > numPatterns {
			numPatterns = int(c.order[i])
		}
	}
	numPatterns++
	c.numPatterns = numPatterns

	patternBytes := 256 * c.numChannels * numPatterns
	headerBytes := len(data) - len(c.patterns)

	for i := 0; i < c.length; i++ {
		if headerBytes+256*c.numChannels*int(c.order[i]) > len(data) {
			return false
		}
	}
	if headerBytes+patternBytes > len(data) {
		return false
	}
	c.patterns = c.patterns[:patternBytes]

	remaining := len(data) - headerBytes - patternBytes
	cursor := headerBytes + patternBytes
	for i := 0; i < c.numSamples; i++ {
		meta := sampleMeta(data, i+1)
		length := (int(meta[0])<<8 | int(meta[1])) * 2
		if length <= 2 {
			length = 0
		}
		if length > remaining {
			length = remaining
		}
		c.samples[i].data = data[cursor : cursor+length]
		c.samples[i].length = length
		cursor += length
		remaining -= length
	}

	for i := 0; i < c.numChannels; i++ {
		pan := -0x20
		if (((i + 1) >> 1) & 1) != 0 {
			pan = 0x20
		}
		c.channels[i].balance = byte(0x80 + pan)
	}

	c.ticksPerLine = 6
	c.samplesPerSecond = rate
	c.samplesPerTick = float32(rate) / 50.0
	c.lfoRNG = 0x0BADC0DE
	c.pattern = 0
	c.line = -1
	c.tick = int16(c.ticksPerLine - 1)
	c.nextTick()

	return true
}
