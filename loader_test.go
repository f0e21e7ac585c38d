package pocketmod

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func minimalMOD(numChannels int, order []byte) []byte {
	return buildMOD(numChannels, order, emptyPattern(numChannels), nil)
}

func TestInitRejectsEmptyInput(t *testing.T) {
	var c Context
	require.False(t, c.Init(nil, 44100))
}

func TestInitRejectsNonPositiveRate(t *testing.T) {
	var c Context
	data := minimalMOD(4, []byte{0})
	require.False(t, c.Init(data, 0))
	require.False(t, c.Init(data, -1))
}

func TestInitAcceptsMinimalFourChannelFile(t *testing.T) {
	var c Context
	data := minimalMOD(4, []byte{0})
	require.True(t, c.Init(data, 44100))
	require.Equal(t, 4, c.NumChannels())
	require.Equal(t, 31, c.NumSamples())
	require.Equal(t, 1, c.Length())
	require.Equal(t, 1, c.NumPatterns())
}

func TestInitRejectsTruncatedPatternData(t *testing.T) {
	var c Context
	data := minimalMOD(4, []byte{0})
	truncated := data[:len(data)-100]
	require.False(t, c.Init(truncated, 44100))
}

func TestInitRejectsZeroLength(t *testing.T) {
	var c Context
	data := minimalMOD(4, nil)
	data[950] = 0 // length byte
	require.False(t, c.Init(data, 44100))
}

func TestInitClampsOutOfRangeReset(t *testing.T) {
	var c Context
	data := minimalMOD(4, []byte{0, 0, 0})
	data[951] = 200 // reset far beyond length
	require.True(t, c.Init(data, 44100))
}

func TestInitComputesNumPatternsFromOrderTable(t *testing.T) {
	var c Context
	numChannels := 4
	order := []byte{0, 2, 1}
	patterns := append(append(append([][]testCell{}, emptyPattern(numChannels)...), emptyPattern(numChannels)...), emptyPattern(numChannels)...)
	data := buildMOD(numChannels, order, patterns, nil)

	require.True(t, c.Init(data, 44100))
	require.Equal(t, 3, c.NumPatterns()) // highest pattern number in the order table is 2
}

func TestInitComputesNumPatternsFromFullOrderTableNotJustLength(t *testing.T) {
	var c Context
	numChannels := 4
	order := []byte{0, 1} // length 2, but the order table has 128 slots
	var patterns [][]testCell
	for i := 0; i < 10; i++ {
		patterns = append(patterns, emptyPattern(numChannels)...)
	}
	data := buildMOD(numChannels, order, patterns, nil)

	// pocketmod.h's numPatterns scan walks the full 128-entry order table,
	// not just the first `length` entries actually played. Plant a high
	// reference past the playable length to prove that scan isn't truncated.
	data[952+5] = 9

	require.True(t, c.Init(data, 44100))
	require.Equal(t, 10, c.NumPatterns())
}

func TestChannelsForTagFixedFormats(t *testing.T) {
	n, ok := channelsForTag([4]byte{'M', '.', 'K', '.'})
	require.True(t, ok)
	require.Equal(t, 4, n)

	n, ok = channelsForTag([4]byte{'O', 'K', 'T', 'A'})
	require.True(t, ok)
	require.Equal(t, 8, n)

	_, ok = channelsForTag([4]byte{'F', 'L', 'T', '8'})
	require.False(t, ok) // FLT8 is intentionally unsupported
}

func TestVariableChannelTag(t *testing.T) {
	n, ok := variableChannelTag([4]byte{'6', 'C', 'H', 'N'})
	require.True(t, ok)
	require.Equal(t, 6, n)

	n, ok = variableChannelTag([4]byte{'1', '6', 'C', 'H'})
	require.True(t, ok)
	require.Equal(t, 16, n)

	_, ok = variableChannelTag([4]byte{'9', '9', 'C', 'H'})
	require.False(t, ok) // out of 10..32 range
}

func TestDefaultPanningIsLRRLForFourChannels(t *testing.T) {
	var c Context
	data := minimalMOD(4, []byte{0})
	require.True(t, c.Init(data, 44100))

	require.EqualValues(t, 0x60, c.channels[0].balance)
	require.EqualValues(t, 0xa0, c.channels[1].balance)
	require.EqualValues(t, 0xa0, c.channels[2].balance)
	require.EqualValues(t, 0x60, c.channels[3].balance)
}
