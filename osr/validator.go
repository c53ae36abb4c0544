package osr

import (
	"fmt"
	"io"
	"log"
	"os"
)

// ValidateFile decodes the replay at path and logs warnings for values that
// decode fine but look wrong to the game client. Only decode failures are
// returned as errors.
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("replay file not found: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("replay file is empty (0 bytes)")
	}

	rep, err := ReadFile(path)
	if err != nil {
		return err
	}

	if rep.Mode > Mania {
		log.Printf("[osr] WARNING: unknown game mode: %d", uint8(rep.Mode))
	}
	if rep.Mods.Unknown != 0 {
		log.Printf("[osr] WARNING: unknown mod bits set: %#x", rep.Mods.Unknown)
	}
	if rep.PlayerName == nil || *rep.PlayerName == "" {
		log.Printf("[osr] WARNING: replay has no player name")
	}
	if rep.BeatmapHash == nil {
		log.Printf("[osr] WARNING: replay has no beatmap hash")
	}
	if len(rep.CompressedData) == 0 {
		log.Printf("[osr] WARNING: replay data is empty")
	}
	if rep.LifeBar != nil {
		if _, err := ParseLifeBar(*rep.LifeBar); err != nil {
			log.Printf("[osr] WARNING: %v", err)
		}
	}
	if rep.Timestamp < UnixEpochTicks {
		log.Printf("[osr] WARNING: timestamp predates 1970: %s", rep.Time())
	}
	if len(rep.Trailing) > 0 {
		log.Printf("[osr] WARNING: %d unrecognized trailing bytes", len(rep.Trailing))
	}

	name := "<none>"
	if rep.PlayerName != nil {
		name = *rep.PlayerName
	}
	log.Printf("[osr] Validated %s: %s v%d, player %s, mods %s, score %d, %d bytes",
		path, rep.Mode, rep.Version, name, rep.Mods, rep.Score, info.Size())

	return nil
}

// ValidateFileQuiet is like ValidateFile but suppresses all log output.
func ValidateFileQuiet(path string) error {
	oldFlags := log.Flags()
	oldOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer func() {
		log.SetFlags(oldFlags)
		log.SetOutput(oldOutput)
	}()

	return ValidateFile(path)
}
