package rf103

/*------------------------------------------------------------------
 *
 * Purpose:	Framebits Codec.  Converts raw frame data bits to user
 *		output bytes and vice versa: either 8-bit ASCII
 *		pass-through, or 5-bit Baudot (ITA-2) with a sticky
 *		letter/figure shift.
 *
 *---------------------------------------------------------------*/

// Codec is the polymorphic operation set the receive and transmit loops
// are built against -- the Go-native replacement for the source's pair
// of encoder/decoder function pointers (spec.md §9).
type Codec interface {
	// Encode converts one input byte into 1 or 2 data words (LSB-first,
	// DataBits wide each), or none when the codec has no code for it
	// (Baudot returns nil for bytes outside its two tables).
	Encode(b byte) []uint32

	// Decode converts one received data word into zero or more output
	// bytes (Baudot shift codes emit nothing; a character needing the
	// opposite shift is never produced by Decode -- that split happens
	// on Encode).
	Decode(word uint32) []byte

	// Reset clears any codec state (Baudot shift).  Called by the
	// receive loop on carrier acquisition.
	Reset()

	// DataBits is the width D each data word occupies.
	DataBits() int
}

// ASCIICodec is the stateless 8-bit pass-through codec.
type ASCIICodec struct{}

func NewASCIICodec() *ASCIICodec { return &ASCIICodec{} }

func (ASCIICodec) DataBits() int { return 8 }

func (ASCIICodec) Encode(b byte) []uint32 {
	return []uint32{uint32(b)}
}

func (ASCIICodec) Decode(word uint32) []byte {
	return []byte{byte(word & 0xFF)}
}

func (*ASCIICodec) Reset() {}

// Baudot (ITA-2) shift state and reserved codes.
type baudotShift int

const (
	shiftLetters baudotShift = iota
	shiftFigures
)

const (
	baudotLetterShift byte = 0x1F
	baudotFigureShift byte = 0x1B
	baudotSpace       byte = 0x04
	baudotCR          byte = 0x08
	baudotLF          byte = 0x02
	baudotNUL         byte = 0x00
)

// baudotLetters and baudotFigures are the two 32-entry ITA-2 lookup
// tables.  Index 0 maps to NUL on both tables, by ITA-2 convention.
var baudotLetters = [32]byte{
	0x00, 'E', '\n', 'A', ' ', 'S', 'I', 'U',
	'\r', 'D', 'R', 'J', 'N', 'F', 'C', 'K',
	'T', 'Z', 'L', 'W', 'H', 'Y', 'P', 'Q',
	'O', 'B', 'G', 0, 'M', 'X', 'V', 0,
}

var baudotFigures = [32]byte{
	0x00, '3', '\n', '-', ' ', '\'', '8', '7',
	'\r', '$', '4', '\a', ',', '!', ':', '(',
	'5', '"', ')', '2', '#', '6', '0', '1',
	'9', '?', '&', 0, '.', '/', ';', 0,
}

// baudotEncodeTable maps ASCII bytes back to (code, requiredShift) for
// encode.  Built once from the two decode tables.  Space, CR, and LF
// share the same code in both the letters and figures tables -- they
// are marked anyShift so encoding them never forces, or changes, the
// codec's sticky shift state, matching how ITA-2/RTTY encoders treat
// shift-independent codes.
type baudotEncodeEntry struct {
	code     byte
	shift    baudotShift
	anyShift bool
}

var baudotEncodeTable = buildBaudotEncodeTable()

func buildBaudotEncodeTable() map[byte]baudotEncodeEntry {
	m := make(map[byte]baudotEncodeEntry)
	for code, ch := range baudotLetters {
		if ch != 0 {
			m[ch] = baudotEncodeEntry{code: byte(code), shift: shiftLetters}
		}
	}
	for code, ch := range baudotFigures {
		if ch == 0 {
			continue
		}
		if existing, exists := m[ch]; exists {
			// Same character already registered from the letters table.
			// If it shares the same code in both tables it's shift-
			// agnostic (space/CR/LF); otherwise letters takes priority.
			if existing.code == byte(code) {
				existing.anyShift = true
				m[ch] = existing
			}
			continue
		}
		m[ch] = baudotEncodeEntry{code: byte(code), shift: shiftFigures}
	}
	return m
}

// BaudotCodec implements the 5-bit ITA-2 codec with sticky shift state.
type BaudotCodec struct {
	shift baudotShift
}

func NewBaudotCodec() *BaudotCodec {
	return &BaudotCodec{shift: shiftLetters}
}

func (*BaudotCodec) DataBits() int { return 5 }

func (c *BaudotCodec) Reset() { c.shift = shiftLetters }

// Encode emits the shift code followed by the data code (nwords = 2)
// when b requires the opposite shift from the codec's current sticky
// state; otherwise just the data code (nwords = 1).  Shift-agnostic
// characters (space/CR/LF) never emit a shift code and never change
// the sticky state.
func (c *BaudotCodec) Encode(b byte) []uint32 {
	entry, ok := baudotEncodeTable[b]
	if !ok {
		return nil
	}
	if entry.anyShift || entry.shift == c.shift {
		return []uint32{uint32(entry.code)}
	}

	var shiftCode byte
	if entry.shift == shiftFigures {
		shiftCode = baudotFigureShift
	} else {
		shiftCode = baudotLetterShift
	}
	c.shift = entry.shift
	return []uint32{uint32(shiftCode), uint32(entry.code)}
}

// Decode consumes one 5-bit word.  Shift codes flip state and emit
// nothing; NUL is ignored; everything else maps through the active
// table.
func (c *BaudotCodec) Decode(word uint32) []byte {
	code := byte(word & 0x1F)
	switch code {
	case baudotLetterShift:
		c.shift = shiftLetters
		return nil
	case baudotFigureShift:
		c.shift = shiftFigures
		return nil
	case baudotNUL:
		return nil
	}

	var ch byte
	if c.shift == shiftLetters {
		ch = baudotLetters[code]
	} else {
		ch = baudotFigures[code]
	}
	if ch == 0 {
		return nil
	}
	return []byte{ch}
}
