package osr

import (
	"errors"
	"fmt"
	"io"
	"math"

	pk "github.com/Tnze/go-mc/net/packet"
)

// String lengths use the same unsigned LEB128 encoding as a Minecraft VarInt
// for every non-negative int32, so the go-mc codec is reused here.
const maxStringLen = math.MaxInt32

// writeLength writes n as an unsigned LEB128 length prefix.
func writeLength(w io.Writer, n int) error {
	if n < 0 || n > maxStringLen {
		return fmt.Errorf("%w: string of %d bytes", ErrFieldTooLarge, n)
	}
	_, err := pk.VarInt(n).WriteTo(w)
	return err
}

// readLength reads an unsigned LEB128 length prefix. Over-long encodings
// (redundant 0x80 continuation bytes) and values past 31 bits are rejected
// because they would not be reproduced on write.
func readLength(r io.Reader) (int, error) {
	var (
		v    pk.VarInt
		last lastByte
	)
	n, err := v.ReadFrom(io.TeeReader(r, &last))
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ErrTruncatedInput
		}
		return 0, fmt.Errorf("%w: length prefix: %v", ErrMalformedString, err)
	}
	// The fifth byte holds bits 28-34; only the low three fit a length.
	if n == 5 && last > 0x07 {
		return 0, fmt.Errorf("%w: length prefix overflows 31 bits", ErrMalformedString)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: length prefix %d out of range", ErrMalformedString, uint32(v))
	}
	if n != int64(lengthSize(int(v))) {
		return 0, fmt.Errorf("%w: non-canonical length prefix", ErrMalformedString)
	}
	return int(v), nil
}

// lastByte remembers the final byte written to it.
type lastByte byte

func (l *lastByte) Write(p []byte) (int, error) {
	if len(p) > 0 {
		*l = lastByte(p[len(p)-1])
	}
	return len(p), nil
}

// lengthSize is the encoded size of a length prefix for n.
func lengthSize(n int) int {
	size := 1
	for n >= 0x80 {
		n >>= 7
		size++
	}
	return size
}
