// Package tickmap implements the concentrated-liquidity tick bitmap and
// liquidity-at-tick map (spec §3 "Tick bitmap", §4.C), grounded on
// degenbot's uniswap/v4_libraries/tick_bitmap.py. Rather than scanning raw
// 256-bit bitmap words bit-by-bit, this follows that production
// implementation's approach of keeping the set of known initialized ticks
// sorted and bisecting it, using the bitmap words only to answer the
// "has this word ever been observed" question a sparse map needs.
package tickmap

import (
	"sort"

	"github.com/johnayoung/go-defi-engine/pkg/errkinds"
)

// LiquidityData is the per-tick liquidity-net/liquidity-gross pair.
type LiquidityData struct {
	LiquidityNet   int64
	LiquidityGross uint64
}

// Map is a tick bitmap plus liquidity-at-tick map for one pool.
type Map struct {
	sparse      bool
	tickSpacing int32
	words       map[int16]struct{} // observed word positions (sparse mode)
	ticks       map[int32]LiquidityData
}

// NewMap constructs an empty tick map. sparse=true requires words to be
// registered via ObserveWord before FlipTick/NextInitializedTickWithinOneWord
// will operate on them; sparse=false treats every word as observed.
func NewMap(tickSpacing int32, sparse bool) *Map {
	return &Map{
		sparse:      sparse,
		tickSpacing: tickSpacing,
		words:       make(map[int16]struct{}),
		ticks:       make(map[int32]LiquidityData),
	}
}

// Position decomposes a tick into (word_pos, bit_pos) using EVM-style
// arithmetic shift / floored modulo (§4.C.1).
func Position(tick int32) (wordPos int16, bitPos uint8) {
	wordPos = int16(tick >> 8)
	bp := tick % 256
	if bp < 0 {
		bp += 256
	}
	return wordPos, uint8(bp)
}

// Compress rounds tick down toward negative infinity by tickSpacing.
func Compress(tick, tickSpacing int32) int32 {
	q := tick / tickSpacing
	if tick%tickSpacing != 0 && (tick < 0) != (tickSpacing < 0) {
		q--
	}
	return q
}

// ObserveWord marks wordPos as known to a sparse map (the caller fetched it
// from the chain reader). No-op in dense mode.
func (m *Map) ObserveWord(wordPos int16) {
	m.words[wordPos] = struct{}{}
}

func (m *Map) wordKnown(wordPos int16) bool {
	if !m.sparse {
		return true
	}
	_, ok := m.words[wordPos]
	return ok
}

// SetTick installs liquidity data for an initialized tick and marks its
// word as observed.
func (m *Map) SetTick(tick int32, data LiquidityData) {
	m.ticks[tick] = data
	wordPos, _ := Position(tick)
	m.words[wordPos] = struct{}{}
}

// Tick returns the liquidity data at tick, if initialized.
func (m *Map) Tick(tick int32) (LiquidityData, bool) {
	d, ok := m.ticks[tick]
	return d, ok
}

// FlipTick toggles the initialized state of tick, failing if tick is not a
// multiple of tickSpacing or (sparse mode) its word has never been
// observed.
func (m *Map) FlipTick(tick int32) error {
	if tick%m.tickSpacing != 0 {
		return &errkinds.InvalidTick{Tick: tick, TickSpacing: m.tickSpacing}
	}
	wordPos, _ := Position(Compress(tick, m.tickSpacing))
	if !m.wordKnown(wordPos) {
		return &errkinds.LiquidityMapWordMissing{WordPosition: wordPos}
	}
	if _, ok := m.ticks[tick]; ok {
		delete(m.ticks, tick)
	} else {
		m.ticks[tick] = LiquidityData{}
	}
	m.words[wordPos] = struct{}{}
	return nil
}

func (m *Map) sortedKnownTicks() []int32 {
	out := make([]int32, 0, len(m.ticks))
	for t := range m.ticks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// NextInitializedTickWithinOneWord returns the next initialized tick at or
// adjacent to tick within a single word, matching §4.C.3. When lte is true,
// it scans toward negative infinity (inclusive of tick); when false, it
// scans strictly upward.
func (m *Map) NextInitializedTickWithinOneWord(tick int32, lte bool) (nextTick int32, initialized bool, err error) {
	compressed := Compress(tick, m.tickSpacing)

	if lte {
		if _, ok := m.ticks[tick]; ok {
			return tick, true, nil
		}
		wordPos, _ := Position(compressed)
		if !m.wordKnown(wordPos) {
			return 0, false, &errkinds.LiquidityMapWordMissing{WordPosition: wordPos}
		}
		lowestTickInWord := m.tickSpacing * (256 * int32(wordPos))
		known := m.sortedKnownTicks()
		idx := sort.Search(len(known), func(i int) bool { return known[i] >= tick })
		var next int32
		if idx == 0 {
			next = lowestTickInWord
		} else {
			prev := known[idx-1]
			if prev > lowestTickInWord {
				next = prev
			} else {
				next = lowestTickInWord
			}
		}
		_, isInit := m.ticks[next]
		return next, isInit, nil
	}

	wordPos, _ := Position(compressed + 1)
	if !m.wordKnown(wordPos) {
		return 0, false, &errkinds.LiquidityMapWordMissing{WordPosition: wordPos}
	}
	highestTickInWord := m.tickSpacing*(256*int32(wordPos)) + m.tickSpacing*255
	known := m.sortedKnownTicks()
	idx := sort.Search(len(known), func(i int) bool { return known[i] > tick })
	var next int32
	if idx == len(known) {
		next = highestTickInWord
	} else {
		candidate := known[idx]
		if candidate < highestTickInWord {
			next = candidate
		} else {
			next = highestTickInWord
		}
	}
	_, isInit := m.ticks[next]
	return next, isInit, nil
}
