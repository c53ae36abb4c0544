package osr

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf8"
)

// Encode writes rep to w in the .osr layout. TargetAccuracy is written only
// when rep.Mods has TargetPractice, and OnlineScoreID only for versions that
// carry it; a non-zero value with no slot in the layout fails with
// ErrFieldTooLarge rather than being dropped.
func Encode(w io.Writer, rep *Replay) error {
	e := &encoder{w: bufio.NewWriter(w)}

	e.u8("mode", uint8(rep.Mode))
	e.u32("version", rep.Version)
	e.str("beatmap_hash", rep.BeatmapHash)
	e.str("player_name", rep.PlayerName)
	e.str("replay_hash", rep.ReplayHash)
	e.u16("count_300", rep.Count300)
	e.u16("count_100", rep.Count100)
	e.u16("count_50", rep.Count50)
	e.u16("count_geki", rep.CountGeki)
	e.u16("count_katu", rep.CountKatu)
	e.u16("count_miss", rep.CountMiss)
	e.u32("score", rep.Score)
	e.u16("max_combo", rep.MaxCombo)
	e.u8("perfect", boolByte(rep.Perfect))
	e.u32("mods", rep.Mods.Bitmask())
	e.str("life_bar", rep.LifeBar)
	e.u64("timestamp", rep.Timestamp)
	e.blob("compressed_data", rep.CompressedData)

	l := layoutFor(rep.Version, rep.Mods)
	switch l.scoreIDSize {
	case 0:
		if rep.OnlineScoreID != 0 {
			e.fail("online_score_id", fmt.Errorf("%w: version %d has no online score id, got %d",
				ErrFieldTooLarge, rep.Version, rep.OnlineScoreID))
		}
	case 8:
		e.u64("online_score_id", rep.OnlineScoreID)
	case 4:
		if rep.OnlineScoreID > math.MaxUint32 {
			e.fail("online_score_id", fmt.Errorf("%w: %d does not fit 32 bits for version %d",
				ErrFieldTooLarge, rep.OnlineScoreID, rep.Version))
		}
		e.u32("online_score_id", uint32(rep.OnlineScoreID))
	}
	if l.targetAccuracy {
		e.u64("target_accuracy", math.Float64bits(rep.TargetAccuracy))
	} else if math.Float64bits(rep.TargetAccuracy) != 0 {
		e.fail("target_accuracy", fmt.Errorf("%w: %v set without TargetPractice",
			ErrFieldTooLarge, rep.TargetAccuracy))
	}
	e.raw("trailing", rep.Trailing)

	if e.err != nil {
		return e.err
	}
	if err := e.w.Flush(); err != nil {
		return fmt.Errorf("osr: flush: %w", err)
	}
	return nil
}

// Marshal encodes rep into a new byte slice.
func Marshal(rep *Replay) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// encoder mirrors decoder: the first error sticks.
type encoder struct {
	w   *bufio.Writer
	buf [8]byte
	err error
}

func (e *encoder) fail(field string, err error) {
	if e.err == nil {
		e.err = &FieldError{Op: "encode", Field: field, Err: err}
	}
}

func (e *encoder) raw(field string, b []byte) {
	if e.err != nil || len(b) == 0 {
		return
	}
	if _, err := e.w.Write(b); err != nil {
		e.fail(field, err)
	}
}

func (e *encoder) u8(field string, v uint8) {
	e.buf[0] = v
	e.raw(field, e.buf[:1])
}

func (e *encoder) u16(field string, v uint16) {
	binary.LittleEndian.PutUint16(e.buf[:2], v)
	e.raw(field, e.buf[:2])
}

func (e *encoder) u32(field string, v uint32) {
	binary.LittleEndian.PutUint32(e.buf[:4], v)
	e.raw(field, e.buf[:4])
}

func (e *encoder) u64(field string, v uint64) {
	binary.LittleEndian.PutUint64(e.buf[:8], v)
	e.raw(field, e.buf[:8])
}

func (e *encoder) str(field string, s *string) {
	if s == nil {
		e.u8(field, stringAbsent)
		return
	}
	if !utf8.ValidString(*s) {
		e.fail(field, ErrInvalidEncoding)
		return
	}
	e.u8(field, stringPresent)
	if e.err != nil {
		return
	}
	if err := writeLength(e.w, len(*s)); err != nil {
		e.fail(field, err)
		return
	}
	if _, err := e.w.WriteString(*s); err != nil {
		e.fail(field, err)
	}
}

func (e *encoder) blob(field string, b []byte) {
	if uint64(len(b)) > math.MaxUint32 {
		e.fail(field, fmt.Errorf("%w: %d bytes", ErrFieldTooLarge, len(b)))
		return
	}
	e.u32(field, uint32(len(b)))
	e.raw(field, b)
}
