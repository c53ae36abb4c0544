package osr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wire builds replay bytes by hand, independently of the encoder.
type wire struct{ bytes.Buffer }

func (w *wire) u8(v uint8) *wire { w.WriteByte(v); return w }
func (w *wire) u16(v uint16) *wire { _ = binary.Write(&w.Buffer, binary.LittleEndian, v); return w }
func (w *wire) u32(v uint32) *wire { _ = binary.Write(&w.Buffer, binary.LittleEndian, v); return w }
func (w *wire) u64(v uint64) *wire { _ = binary.Write(&w.Buffer, binary.LittleEndian, v); return w }
func (w *wire) absent() *wire { return w.u8(0x00) }

// str writes a present string; s must be shorter than 128 bytes.
func (w *wire) str(s string) *wire {
	w.u8(0x0b).u8(uint8(len(s)))
	w.WriteString(s)
	return w
}

// minimalReplay returns a small version 20140721 replay with the given player.
func minimalReplay(player string) []byte {
	w := &wire{}
	w.u8(uint8(Standard)).u32(20140721)
	w.str("d41d8cd98f00b204e9800998ecf8427e").str(player).absent()
	w.u16(300).u16(20).u16(3).u16(40).u16(10).u16(1)
	w.u32(1234567).u16(512).u8(0)
	w.u32(uint32(Hidden | DoubleTime))
	w.str("0|1,1000|0.5,")
	w.u64(julyTicks)
	w.u32(4).u8(0x5d).u8(0x00).u8(0x00).u8(0x80)
	w.u64(987654321)
	return w.Bytes()
}

func sampleReplay() *Replay {
	return &Replay{
		Mode:           Taiko,
		Version:        20230621,
		BeatmapHash:    Str("0123456789abcdef0123456789abcdef"),
		PlayerName:     Str("peppy"),
		ReplayHash:     Str("fedcba9876543210fedcba9876543210"),
		Count300:       812,
		Count100:       41,
		Count50:        2,
		CountGeki:      199,
		CountKatu:      17,
		CountMiss:      3,
		Score:          4_012_345,
		MaxCombo:       655,
		Perfect:        false,
		Mods:           ModsFromBitmask(uint32(Hidden|HardRock) | 1<<31),
		LifeBar:        Str("0|1,2500|0.96,5000|1,"),
		Timestamp:      julyTicks,
		CompressedData: bytes.Repeat([]byte{0x5d, 0x00, 0x00, 0x20, 0x00}, 64),
		OnlineScoreID:  4_000_000_000_123,
	}
}

func TestDecode_Minimal(t *testing.T) {
	rep, err := Unmarshal(minimalReplay("alice"))
	require.NoError(t, err)

	assert.Equal(t, Standard, rep.Mode)
	assert.Equal(t, uint32(20140721), rep.Version)
	require.NotNil(t, rep.PlayerName)
	assert.Equal(t, "alice", *rep.PlayerName)
	assert.Nil(t, rep.ReplayHash)
	assert.Equal(t, uint16(300), rep.Count300)
	assert.Equal(t, uint16(20), rep.Count100)
	assert.Equal(t, uint16(3), rep.Count50)
	assert.Equal(t, uint16(40), rep.CountGeki)
	assert.Equal(t, uint16(10), rep.CountKatu)
	assert.Equal(t, uint16(1), rep.CountMiss)
	assert.Equal(t, uint32(1234567), rep.Score)
	assert.Equal(t, uint16(512), rep.MaxCombo)
	assert.False(t, rep.Perfect)
	assert.Equal(t, Mods{Known: Hidden | DoubleTime}, rep.Mods)
	assert.Equal(t, "0|1,1000|0.5,", *rep.LifeBar)
	assert.Equal(t, uint64(julyTicks), rep.Timestamp)
	assert.Equal(t, []byte{0x5d, 0x00, 0x00, 0x80}, rep.CompressedData)
	assert.Equal(t, uint64(987654321), rep.OnlineScoreID)
	assert.Nil(t, rep.Trailing)
}

func TestEncode_MatchesWire(t *testing.T) {
	in := minimalReplay("alice")
	rep, err := Unmarshal(in)
	require.NoError(t, err)

	out, err := Marshal(rep)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRoundTrip_AllPresent(t *testing.T) {
	rep := sampleReplay()
	rep.Mods = rep.Mods.With(TargetPractice)
	rep.TargetAccuracy = 0.9731

	data, err := Marshal(rep)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, rep, got)

	again, err := Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestRoundTrip_AllAbsent(t *testing.T) {
	rep := sampleReplay()
	rep.BeatmapHash = nil
	rep.PlayerName = nil
	rep.ReplayHash = nil
	rep.LifeBar = nil
	rep.CompressedData = []byte{}

	data, err := Marshal(rep)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, rep, got)
}

func TestRoundTrip_EmptyStringsStayPresent(t *testing.T) {
	rep := sampleReplay()
	rep.PlayerName = Str("")
	rep.LifeBar = Str("")

	data, err := Marshal(rep)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	require.NotNil(t, got.PlayerName)
	require.NotNil(t, got.LifeBar)
	assert.Equal(t, "", *got.PlayerName)
	assert.Equal(t, rep, got)
}

func TestRoundTrip_LongUnicodeString(t *testing.T) {
	rep := sampleReplay()
	rep.PlayerName = Str(string(bytes.Repeat([]byte("ぺっぴー"), 100)))

	data, err := Marshal(rep)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, *rep.PlayerName, *got.PlayerName)
}

func TestEncode_NilDataIsEmpty(t *testing.T) {
	rep := sampleReplay()
	rep.CompressedData = nil

	data, err := Marshal(rep)
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.NotNil(t, got.CompressedData)
	assert.Empty(t, got.CompressedData)
}

func TestLayout_TrailerSize(t *testing.T) {
	size := func(version uint32, mods Mods) int {
		rep := sampleReplay()
		rep.Version = version
		rep.Mods = mods
		rep.OnlineScoreID = 0
		if version >= VersionScoreID32 {
			rep.OnlineScoreID = 7
		}
		data, err := Marshal(rep)
		require.NoError(t, err)

		got, err := Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, rep, got, "version %d", version)
		return len(data)
	}

	old := size(VersionScoreID32-1, Mods{})
	assert.Equal(t, old+4, size(VersionScoreID32, Mods{}))
	assert.Equal(t, old+4, size(VersionScoreID64-1, Mods{}))
	assert.Equal(t, old+8, size(VersionScoreID64, Mods{}))
	assert.Equal(t, old+16, size(VersionScoreID64, Mods{Known: TargetPractice}))
	assert.Equal(t, old+8, size(VersionScoreID32-1, Mods{Known: TargetPractice}))
}

func TestLayout_OldVersionHasNoScoreID(t *testing.T) {
	rep := sampleReplay()
	rep.Version = VersionScoreID32 - 1
	rep.OnlineScoreID = 0

	data, err := Marshal(rep)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, rep, got)

	rep.OnlineScoreID = 5
	_, err = Marshal(rep)
	require.ErrorIs(t, err, ErrFieldTooLarge)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "online_score_id", fe.Field)
}

func TestEncode_TargetAccuracyNeedsTargetPractice(t *testing.T) {
	rep := sampleReplay()
	rep.TargetAccuracy = 0.5

	_, err := Marshal(rep)
	require.ErrorIs(t, err, ErrFieldTooLarge)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "target_accuracy", fe.Field)

	rep.Mods = rep.Mods.With(TargetPractice)
	data, err := Marshal(rep)
	require.NoError(t, err)
	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.TargetAccuracy)
}

func TestEncode_ScoreIDTooLarge(t *testing.T) {
	rep := sampleReplay()
	rep.Version = VersionScoreID32
	rep.OnlineScoreID = 1 << 32

	_, err := Marshal(rep)
	require.ErrorIs(t, err, ErrFieldTooLarge)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "online_score_id", fe.Field)
	assert.Equal(t, "encode", fe.Op)
}

func TestEncode_InvalidUTF8(t *testing.T) {
	rep := sampleReplay()
	rep.PlayerName = Str("\xff\xfe")

	_, err := Marshal(rep)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecode_TruncatedMidField(t *testing.T) {
	in := minimalReplay("alice")

	// Mode byte plus three of the four version bytes.
	_, err := Unmarshal(in[:4])
	require.ErrorIs(t, err, ErrTruncatedInput)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "version", fe.Field)
	assert.Equal(t, "decode", fe.Op)
	assert.Equal(t, int64(1), fe.Offset)
	assert.Contains(t, err.Error(), "version at byte 1")

	_, err = Unmarshal(nil)
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDecode_MissingTrailer(t *testing.T) {
	in := minimalReplay("alice")

	_, err := Unmarshal(in[:len(in)-8])
	require.ErrorIs(t, err, ErrTruncatedInput)
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "online_score_id", fe.Field)
	assert.Equal(t, int64(len(in)-8), fe.Offset)

	rep := sampleReplay()
	rep.Mods = rep.Mods.With(TargetPractice)
	data, err := Marshal(rep)
	require.NoError(t, err)

	_, err = Unmarshal(data[:len(data)-8])
	require.ErrorIs(t, err, ErrTruncatedInput)
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "target_accuracy", fe.Field)
}

func TestDecode_EveryPrefixFails(t *testing.T) {
	rep := sampleReplay()
	rep.Mods = rep.Mods.With(TargetPractice)
	data, err := Marshal(rep)
	require.NoError(t, err)

	for i := 0; i < len(data); i++ {
		_, err := Unmarshal(data[:i])
		require.Error(t, err, "prefix %d", i)
		assert.True(t, errors.Is(err, ErrTruncatedInput) || errors.Is(err, ErrMalformedString),
			"prefix %d: %v", i, err)
	}
}

func TestDecode_StringErrors(t *testing.T) {
	header := func() *wire {
		w := &wire{}
		w.u8(0).u32(20140721)
		return w
	}

	t.Run("bad marker", func(t *testing.T) {
		w := header().u8(0x05)
		_, err := Unmarshal(w.Bytes())
		assert.ErrorIs(t, err, ErrMalformedString)
	})

	t.Run("length exceeds input", func(t *testing.T) {
		w := header().u8(0x0b).u8(40)
		w.WriteString("short")
		_, err := Unmarshal(w.Bytes())
		assert.ErrorIs(t, err, ErrMalformedString)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		w := header().u8(0x0b).u8(2).u8(0xff).u8(0xfe)
		_, err := Unmarshal(w.Bytes())
		assert.ErrorIs(t, err, ErrInvalidEncoding)

		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "beatmap_hash", fe.Field)
		assert.Equal(t, int64(5), fe.Offset)
	})

	t.Run("non-canonical length", func(t *testing.T) {
		w := header().u8(0x0b).u8(0x80).u8(0x00)
		_, err := Unmarshal(w.Bytes())
		assert.ErrorIs(t, err, ErrMalformedString)
	})

	t.Run("truncated length", func(t *testing.T) {
		w := header().u8(0x0b).u8(0x80)
		_, err := Unmarshal(w.Bytes())
		assert.ErrorIs(t, err, ErrTruncatedInput)
	})
}

func TestDecode_KeepsTrailingBytes(t *testing.T) {
	in := append(minimalReplay("alice"), 0xde, 0xad, 0xbe, 0xef)

	rep, err := Unmarshal(in)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, rep.Trailing)

	out, err := Marshal(rep)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecode_UnknownModeAndMods(t *testing.T) {
	in := minimalReplay("alice")
	in[0] = 9
	// mods sit after mode, version, three strings, six counts, score, combo and perfect.
	off := 1 + 4 + (2 + 32) + (2 + 5) + 1 + 12 + 4 + 2 + 1
	binary.LittleEndian.PutUint32(in[off:], 1<<31|uint32(Flashlight))

	rep, err := Unmarshal(in)
	require.NoError(t, err)
	assert.Equal(t, Mode(9), rep.Mode)
	assert.Equal(t, "Mode(9)", rep.Mode.String())
	assert.Equal(t, uint32(1<<31), rep.Mods.Unknown)
	assert.True(t, rep.Mods.Has(Flashlight))

	out, err := Marshal(rep)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestClone(t *testing.T) {
	rep := sampleReplay()
	c := rep.Clone()
	require.Equal(t, rep, c)

	*c.PlayerName = "someone else"
	c.CompressedData[0] = 0xff
	assert.Equal(t, "peppy", *rep.PlayerName)
	assert.Equal(t, byte(0x5d), rep.CompressedData[0])
}
