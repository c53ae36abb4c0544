// Package osr reads and writes osu! replay (.osr) files.
//
// A replay is a flat little-endian record:
//   - mode (byte), version (int32)
//   - beatmap hash, player name, replay hash (optional strings)
//   - judgement counts, score, max combo, perfect flag, mods
//   - life bar graph (optional string), timestamp (int64 ticks)
//   - [len:int32][compressed replay data]
//   - version and mods dependent trailer (online score id, target practice accuracy)
//
// Optional strings are a marker byte (0x00 absent, 0x0b present) followed by a
// ULEB128 byte length and UTF-8 bytes. The compressed replay data is carried as
// an opaque payload and is never decompressed. Decode followed by Encode
// reproduces the input byte for byte.
package osr
