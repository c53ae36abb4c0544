package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/reallyoldfogie/osr-replay-go/osr"
)

// describe formats a decode failure with the field and byte offset it
// stopped at, e.g. "player_name at byte 41: osr: truncated input".
func describe(err error) string {
	var fe *osr.FieldError
	if errors.As(err, &fe) {
		return fmt.Sprintf("%s at byte %d: %v", fe.Field, fe.Offset, fe.Err)
	}
	return err.Error()
}

// summary is the one-line decoded view printed with -v.
func summary(rep *osr.Replay) string {
	name := "<none>"
	if rep.PlayerName != nil {
		name = *rep.PlayerName
	}
	return fmt.Sprintf("%s v%d, player %s, mods %s, score %d, combo %d, %d miss, played %s, %d bytes of replay data",
		rep.Mode, rep.Version, name, rep.Mods, rep.Score, rep.MaxCombo, rep.CountMiss,
		rep.Time().Format(time.RFC3339), len(rep.CompressedData))
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <replay.osr> [replay2.osr ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Decodes osu! replay files and reports the first field that fails.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	verbose := flag.Bool("v", false, "Print a decoded summary of each replay")
	quiet := flag.Bool("q", false, "Quiet mode (errors only, no warnings)")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	files := flag.Args()
	failed := 0

	for _, file := range files {
		base := filepath.Base(file)

		var err error
		if *quiet {
			err = osr.ValidateFileQuiet(file)
		} else {
			err = osr.ValidateFile(file)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %s: %s\n", base, describe(err))
			failed++
			continue
		}

		switch {
		case *verbose:
			rep, err := osr.ReadFile(file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "❌ %s: %s\n", base, describe(err))
				failed++
				continue
			}
			fmt.Printf("✅ %s: %s\n", base, summary(rep))
		case !*quiet:
			fmt.Printf("✅ %s: valid\n", base)
		}
	}

	if !*quiet && len(files) > 1 {
		fmt.Printf("\n%d of %d replay files are valid\n", len(files)-failed, len(files))
	}
	if failed > 0 {
		os.Exit(1)
	}
}
