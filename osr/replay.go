package osr

import (
	"bytes"
	"fmt"
	"time"
)

// Mode is the ruleset a replay was played in.
type Mode uint8

const (
	Standard Mode = iota
	Taiko
	Catch
	Mania
)

func (m Mode) String() string {
	switch m {
	case Standard:
		return "osu"
	case Taiko:
		return "taiko"
	case Catch:
		return "fruits"
	case Mania:
		return "mania"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Replay holds every field of a .osr file in file order. The codec does not
// validate values; it only enforces wire widths.
type Replay struct {
	Mode    Mode
	Version uint32

	// Optional strings: nil is written as the absent marker, a non-nil
	// pointer (even to "") as a present string.
	BeatmapHash *string
	PlayerName  *string
	ReplayHash  *string

	Count300  uint16
	Count100  uint16
	Count50   uint16
	CountGeki uint16
	CountKatu uint16
	CountMiss uint16

	Score    uint32
	MaxCombo uint16
	Perfect  bool
	Mods     Mods

	LifeBar *string

	// Timestamp is in 100ns ticks since 0001-01-01, see TimeFromTicks.
	Timestamp uint64

	// CompressedData is the LZMA compressed input stream, kept opaque.
	CompressedData []byte

	// OnlineScoreID is written as 32 or 64 bits depending on Version and
	// omitted for very old versions; see layoutFor.
	OnlineScoreID uint64

	// TargetAccuracy is only present when Mods has TargetPractice.
	TargetAccuracy float64

	// Trailing holds any bytes after the last known field.
	Trailing []byte
}

// Str returns a pointer to s for the optional string fields.
func Str(s string) *string { return &s }

// Time returns Timestamp as a UTC time.
func (r *Replay) Time() time.Time { return TimeFromTicks(r.Timestamp) }

// SetTime stores t as Timestamp.
func (r *Replay) SetTime(t time.Time) error {
	ticks, err := TicksFromTime(t)
	if err != nil {
		return err
	}
	r.Timestamp = ticks
	return nil
}

// Clone returns a deep copy of r.
func (r *Replay) Clone() *Replay {
	c := *r
	c.BeatmapHash = cloneStr(r.BeatmapHash)
	c.PlayerName = cloneStr(r.PlayerName)
	c.ReplayHash = cloneStr(r.ReplayHash)
	c.LifeBar = cloneStr(r.LifeBar)
	c.CompressedData = bytes.Clone(r.CompressedData)
	c.Trailing = bytes.Clone(r.Trailing)
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	return Str(*s)
}
