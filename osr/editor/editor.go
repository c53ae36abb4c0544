// Package editor rewrites selected fields of an osu! replay: the player
// name, the mods and the timestamp. Everything else, including the
// compressed replay data, is carried over unchanged.
package editor

import (
	"fmt"
	"log"

	"github.com/reallyoldfogie/osr-replay-go/osr"
)

// Options lists the overrides to apply. A nil field leaves the replay value
// as it is.
type Options struct {
	Name *string `yaml:"name"`
	Mods *string `yaml:"mods"`
	Date *string `yaml:"date"`

	// ModsSeparator splits Mods; empty means two-letter tokens ("HDDT").
	ModsSeparator string `yaml:"mods_separator"`
}

// Empty reports whether o changes nothing.
func (o Options) Empty() bool {
	return o.Name == nil && o.Mods == nil && o.Date == nil
}

// Merge returns o with every field set in override replacing its own.
func (o Options) Merge(override Options) Options {
	if override.Name != nil {
		o.Name = override.Name
	}
	// The separator belongs to the mods string it splits; it is only taken
	// on its own when override keeps o's mods.
	if override.Mods != nil {
		o.Mods = override.Mods
		o.ModsSeparator = override.ModsSeparator
	} else if override.ModsSeparator != "" {
		o.ModsSeparator = override.ModsSeparator
	}
	if override.Date != nil {
		o.Date = override.Date
	}
	return o
}

// Apply mutates rep in place. All overrides are parsed before any field is
// touched, so rep is unchanged when an error is returned.
func Apply(rep *osr.Replay, opts Options) error {
	var (
		mods  osr.Mods
		ticks uint64
		err   error
	)
	if opts.Mods != nil {
		if mods, err = osr.ParseMods(*opts.Mods, opts.ModsSeparator); err != nil {
			return fmt.Errorf("mods: %w", err)
		}
	}
	if opts.Date != nil {
		if ticks, err = osr.ParseTicks(*opts.Date); err != nil {
			return fmt.Errorf("date: %w", err)
		}
	}

	if opts.Name != nil {
		log.Printf("[editor] Changing username to: %s", *opts.Name)
		rep.PlayerName = osr.Str(*opts.Name)
	}
	if opts.Mods != nil {
		log.Printf("[editor] Changing mods to: %s", mods)
		rep.Mods = mods
		if !mods.Has(osr.TargetPractice) {
			rep.TargetAccuracy = 0
		}
	}
	if opts.Date != nil {
		log.Printf("[editor] Changing date and time to: %s", *opts.Date)
		rep.Timestamp = ticks
	}
	return nil
}

// EditFile decodes src, applies opts and writes the result to dst. On any
// error dst is left as it was; src and dst may be the same path.
func EditFile(src, dst string, opts Options) error {
	rep, err := osr.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := Apply(rep, opts); err != nil {
		return err
	}
	if err := osr.WriteFile(dst, rep); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
