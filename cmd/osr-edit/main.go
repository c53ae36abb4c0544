package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/reallyoldfogie/osr-replay-go/osr/editor"
)

// optionalString is a flag that records whether it was given at all, so an
// explicit empty value can be told apart from an omitted flag.
type optionalString struct{ v *string }

func (o *optionalString) String() string {
	if o.v == nil {
		return ""
	}
	return *o.v
}

func (o *optionalString) Set(s string) error {
	o.v = &s
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -replay <in.osr> -output <out.osr> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Rewrites the player name, mods or date of an osu! replay.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	var replay, output, plan, sep string
	var name, mods, date optionalString

	flag.StringVar(&replay, "replay", "", "Path to the source replay file")
	flag.StringVar(&output, "output", "", "Path to the output replay file")
	flag.StringVar(&plan, "plan", "", "Optional YAML edit plan; flags override its values")
	flag.StringVar(&sep, "sep", "", "Separator between mod names (empty: two-letter tokens, e.g. HDDT)")
	flag.Var(&name, "name", "Username to change it to")
	flag.Var(&mods, "mods", "Mods to change it to, e.g. HDDT")
	flag.Var(&date, "date", "Date to change it to\nFormat: \"YYYY-MM-DD hh:mm:ss +HH[:MM]\"\nExample: \"2023-07-08 16:20:00 +03\" being 4:20pm UTC+3 on July 8th, 2023")
	flag.Parse()

	if replay == "" || output == "" {
		flag.Usage()
		os.Exit(2)
	}

	var opts editor.Options
	if plan != "" {
		p, err := editor.LoadPlan(plan)
		if err != nil {
			log.Fatalf("load plan: %v", err)
		}
		opts = p
	}
	opts = opts.Merge(editor.Options{Name: name.v, Mods: mods.v, Date: date.v, ModsSeparator: sep})

	if opts.Empty() {
		log.Printf("[editor] no changes requested, copying replay as is")
	}
	if err := editor.EditFile(replay, output, opts); err != nil {
		log.Fatalf("edit: %v", err)
	}
	fmt.Printf("wrote %s\n", output)
}
