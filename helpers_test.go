package pocketmod

// Test-only MOD file construction. Real MOD files are never used as test
// fixtures here — every test builds the smallest byte layout that exercises
// what it's checking, the way player_test.go builds hand-crafted pattern
// tables instead of loading .mod files from disk.

type testCell struct {
	sample int
	period int
	effect byte
	param  byte
}

type testSample struct {
	lengthBytes     int
	finetune        byte
	volume          byte
	loopStartBytes  int
	loopLengthBytes int
	data            []byte
}

func packCell(c testCell) [4]byte {
	var a byte
	var b3 byte
	if c.effect >= 0xe0 && c.effect <= 0xef {
		a = 0x0e
		b3 = (c.effect&0x0f)<<4 | (c.param & 0x0f)
	} else {
		a = c.effect
		b3 = c.param
	}
	b0 := byte((c.sample>>4)&0x0f)<<4 | byte((c.period>>8)&0x0f)
	b1 := byte(c.period & 0xff)
	b2 := byte(c.sample&0x0f)<<4 | a
	return [4]byte{b0, b1, b2, b3}
}

// buildMOD assembles a 31-sample, numChannels MOD file body from pattern
// lines (each a slice of numChannels testCells) and a sample table (up to 31
// entries; missing slots are left silent). The tag is M.K. for 4 channels,
// NCHN below 10 channels and NNCH from 10 up.
func buildMOD(numChannels int, order []byte, patternLines [][]testCell, samples []testSample) []byte {
	buf := make([]byte, 20) // title

	for i := 0; i < 31; i++ {
		hdr := make([]byte, 30)
		if i < len(samples) {
			s := samples[i]
			wordLen := s.lengthBytes / 2
			hdr[22] = byte(wordLen >> 8)
			hdr[23] = byte(wordLen)
			hdr[24] = s.finetune & 0x0f
			hdr[25] = s.volume
			loopStartWord := s.loopStartBytes / 2
			hdr[26] = byte(loopStartWord >> 8)
			hdr[27] = byte(loopStartWord)
			loopLenWord := s.loopLengthBytes / 2
			if loopLenWord == 0 {
				loopLenWord = 1 // encodes "no loop" (byte length 2)
			}
			hdr[28] = byte(loopLenWord >> 8)
			hdr[29] = byte(loopLenWord)
		} else {
			hdr[28], hdr[29] = 0, 1
		}
		buf = append(buf, hdr...)
	}

	ord := make([]byte, 128)
	copy(ord, order)
	buf = append(buf, byte(len(order)))
	buf = append(buf, 0) // reset
	buf = append(buf, ord...)
	switch {
	case numChannels == 4:
		buf = append(buf, 'M', '.', 'K', '.')
	case numChannels < 10:
		buf = append(buf, byte('0'+numChannels), 'C', 'H', 'N')
	default:
		buf = append(buf, byte('0'+numChannels/10), byte('0'+numChannels%10), 'C', 'H')
	}

	for _, line := range patternLines {
		for ch := 0; ch < numChannels; ch++ {
			var c testCell
			if ch < len(line) {
				c = line[ch]
			}
			packed := packCell(c)
			buf = append(buf, packed[:]...)
		}
	}

	for _, s := range samples {
		buf = append(buf, s.data...)
	}

	return buf
}

// padLines pads lines to a full 64-line pattern by appending silent lines,
// since Init/nextLine always operate in units of 64-line patterns.
func padLines(lines [][]testCell, numChannels int) [][]testCell {
	for len(lines) < 64 {
		lines = append(lines, make([]testCell, numChannels))
	}
	return lines
}

// emptyPattern returns one full silent 64-line pattern.
func emptyPattern(numChannels int) [][]testCell {
	return padLines(nil, numChannels)
}
