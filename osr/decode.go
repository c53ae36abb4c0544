package osr

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// String marker bytes.
const (
	stringAbsent  = 0x00
	stringPresent = 0x0b
)

// Decode reads a whole replay from r. Bytes after the last field known for
// the replay's version and mods are kept in Replay.Trailing.
func Decode(r io.Reader) (*Replay, error) {
	d := &decoder{r: bufio.NewReader(r)}
	rep := &Replay{}

	rep.Mode = Mode(d.u8("mode"))
	rep.Version = d.u32("version")
	rep.BeatmapHash = d.str("beatmap_hash")
	rep.PlayerName = d.str("player_name")
	rep.ReplayHash = d.str("replay_hash")
	rep.Count300 = d.u16("count_300")
	rep.Count100 = d.u16("count_100")
	rep.Count50 = d.u16("count_50")
	rep.CountGeki = d.u16("count_geki")
	rep.CountKatu = d.u16("count_katu")
	rep.CountMiss = d.u16("count_miss")
	rep.Score = d.u32("score")
	rep.MaxCombo = d.u16("max_combo")
	rep.Perfect = d.u8("perfect") != 0
	rep.Mods = ModsFromBitmask(d.u32("mods"))
	rep.LifeBar = d.str("life_bar")
	rep.Timestamp = d.u64("timestamp")
	rep.CompressedData = d.blob("compressed_data")

	l := layoutFor(rep.Version, rep.Mods)
	switch l.scoreIDSize {
	case 8:
		rep.OnlineScoreID = d.u64("online_score_id")
	case 4:
		rep.OnlineScoreID = uint64(d.u32("online_score_id"))
	}
	if l.targetAccuracy {
		rep.TargetAccuracy = math.Float64frombits(d.u64("target_accuracy"))
	}
	rep.Trailing = d.rest("trailing")

	if d.err != nil {
		return nil, d.err
	}
	return rep, nil
}

// Unmarshal decodes a replay held in memory.
func Unmarshal(data []byte) (*Replay, error) {
	return Decode(bytes.NewReader(data))
}

// decoder reads little-endian fields. After the first failure every read is
// a no-op and err holds the failure.
type decoder struct {
	r     *bufio.Reader
	buf   [8]byte
	off   int64 // bytes consumed
	start int64 // offset of the field being read
	err   error
}

func (d *decoder) fail(field string, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrTruncatedInput
	}
	d.err = &FieldError{Op: "decode", Field: field, Offset: d.start, Err: err}
}

func (d *decoder) fixed(field string, n int) []byte {
	if d.err != nil {
		return nil
	}
	d.start = d.off
	b := d.buf[:n]
	if _, err := io.ReadFull(d.r, b); err != nil {
		d.fail(field, err)
		return nil
	}
	d.off += int64(n)
	return b
}

func (d *decoder) u8(field string) uint8 {
	if b := d.fixed(field, 1); b != nil {
		return b[0]
	}
	return 0
}

func (d *decoder) u16(field string) uint16 {
	if b := d.fixed(field, 2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (d *decoder) u32(field string) uint32 {
	if b := d.fixed(field, 4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (d *decoder) u64(field string) uint64 {
	if b := d.fixed(field, 8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

// readN reads exactly n bytes without trusting n for the allocation size.
func (d *decoder) readN(n int64) ([]byte, error) {
	var buf bytes.Buffer
	got, err := io.Copy(&buf, io.LimitReader(d.r, n))
	if err != nil {
		return nil, err
	}
	d.off += got
	if got < n {
		return nil, io.ErrUnexpectedEOF
	}
	return buf.Bytes(), nil
}

func (d *decoder) str(field string) *string {
	marker := d.u8(field)
	if d.err != nil {
		return nil
	}
	switch marker {
	case stringAbsent:
		return nil
	case stringPresent:
	default:
		d.fail(field, fmt.Errorf("%w: marker %#x", ErrMalformedString, marker))
		return nil
	}

	n, err := readLength(d.r)
	if err != nil {
		d.fail(field, err)
		return nil
	}
	d.off += int64(lengthSize(n))
	b, err := d.readN(int64(n))
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: declared length %d exceeds input", ErrMalformedString, n)
		}
		d.fail(field, err)
		return nil
	}
	if !utf8.Valid(b) {
		d.fail(field, ErrInvalidEncoding)
		return nil
	}
	return Str(string(b))
}

func (d *decoder) blob(field string) []byte {
	n := d.u32(field)
	if d.err != nil {
		return nil
	}
	if n == 0 {
		return []byte{}
	}
	b, err := d.readN(int64(n))
	if err != nil {
		d.fail(field, err)
		return nil
	}
	return b
}

func (d *decoder) rest(field string) []byte {
	if d.err != nil {
		return nil
	}
	d.start = d.off
	b, err := io.ReadAll(d.r)
	if err != nil {
		d.fail(field, err)
		return nil
	}
	if len(b) == 0 {
		return nil
	}
	return b
}
