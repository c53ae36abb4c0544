package osr

import (
	"fmt"
	"math/bits"
	"strings"
)

// Mod is a single gameplay modifier bit.
type Mod uint32

const (
	NoFail Mod = 1 << iota
	Easy
	TouchDevice
	Hidden
	HardRock
	SuddenDeath
	DoubleTime
	Relax
	HalfTime
	Nightcore
	Flashlight
	Autoplay
	SpunOut
	Autopilot
	Perfect
	Key4
	Key5
	Key6
	Key7
	Key8
	FadeIn
	Random
	Cinema
	TargetPractice
	Key9
	KeyCoop
	Key1
	Key3
	Key2
	ScoreV2
	Mirror
)

// knownMods covers every bit that has a name in modNames.
const knownMods = Mod(1<<31 - 1)

var modNames = map[Mod]string{
	NoFail:         "NF",
	Easy:           "EZ",
	TouchDevice:    "TD",
	Hidden:         "HD",
	HardRock:       "HR",
	SuddenDeath:    "SD",
	DoubleTime:     "DT",
	Relax:          "RX",
	HalfTime:       "HT",
	Nightcore:      "NC",
	Flashlight:     "FL",
	Autoplay:       "AT",
	SpunOut:        "SO",
	Autopilot:      "AP",
	Perfect:        "PF",
	Key4:           "4K",
	Key5:           "5K",
	Key6:           "6K",
	Key7:           "7K",
	Key8:           "8K",
	FadeIn:         "FI",
	Random:         "RD",
	Cinema:         "CN",
	TargetPractice: "TP",
	Key9:           "9K",
	KeyCoop:        "CO",
	Key1:           "1K",
	Key3:           "3K",
	Key2:           "2K",
	ScoreV2:        "V2",
	Mirror:         "MR",
}

var modsByName = func() map[string]Mod {
	m := make(map[string]Mod, len(modNames))
	for mod, name := range modNames {
		m[name] = mod
	}
	return m
}()

// String returns the two-letter short name, or a hex form for unnamed bits.
func (m Mod) String() string {
	if name, ok := modNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mod(%#x)", uint32(m))
}

// Mods is the set of modifiers applied to a play. Bits without a name are kept
// in Unknown so that re-encoding never drops them.
type Mods struct {
	Known   Mod
	Unknown uint32
}

// ModsFromBitmask splits a raw mods value into named and unnamed bits.
func ModsFromBitmask(v uint32) Mods {
	return Mods{
		Known:   Mod(v) & knownMods,
		Unknown: v &^ uint32(knownMods),
	}
}

// Bitmask is the inverse of ModsFromBitmask.
func (m Mods) Bitmask() uint32 {
	return uint32(m.Known) | m.Unknown
}

// Has reports whether every bit of mod is set.
func (m Mods) Has(mod Mod) bool {
	return mod != 0 && m.Known&mod == mod
}

// With returns a copy of m with mod added.
func (m Mods) With(mod Mod) Mods {
	m.Known |= mod & knownMods
	m.Unknown |= uint32(mod &^ knownMods)
	return m
}

// Without returns a copy of m with mod removed.
func (m Mods) Without(mod Mod) Mods {
	m.Known &^= mod
	m.Unknown &^= uint32(mod)
	return m
}

// List returns the named mods in bit order.
func (m Mods) List() []Mod {
	out := make([]Mod, 0, bits.OnesCount32(uint32(m.Known)))
	for v := uint32(m.Known); v != 0; v &= v - 1 {
		out = append(out, Mod(v&-v))
	}
	return out
}

// String concatenates the short names, e.g. "HDDT". Unknown bits are
// appended in hex. The empty set renders as "NM".
func (m Mods) String() string {
	if m.Bitmask() == 0 {
		return "NM"
	}
	var sb strings.Builder
	for _, mod := range m.List() {
		sb.WriteString(modNames[mod])
	}
	if m.Unknown != 0 {
		fmt.Fprintf(&sb, "+%#x", m.Unknown)
	}
	return sb.String()
}

// ParseMods parses a list of two-letter mod names. With an empty sep the
// input is read as consecutive two-character tokens ("HDDT"); otherwise it is
// split on sep ("HD,DT") and whitespace around each token is ignored.
// Names are case-insensitive and repeats are harmless.
func ParseMods(s, sep string) (Mods, error) {
	var tokens []string
	if sep == "" {
		s = strings.TrimSpace(s)
		for len(s) > 0 {
			n := 2
			if len(s) < n {
				n = len(s)
			}
			tokens = append(tokens, s[:n])
			s = s[n:]
		}
	} else if strings.TrimSpace(s) != "" {
		tokens = strings.Split(s, sep)
	}

	var m Mods
	for _, tok := range tokens {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		mod, ok := modsByName[tok]
		if !ok {
			return Mods{}, fmt.Errorf("%w: %q", ErrUnknownModName, tok)
		}
		m.Known |= mod
	}
	return m, nil
}
