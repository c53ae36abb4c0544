package editor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPlan reads Options from a YAML edit plan:
//
//	name: bob
//	mods: HD,DT
//	mods_separator: ","
//	date: "2023-07-08 16:20:00 +03"
//
// A missing file yields empty Options.
func LoadPlan(path string) (Options, error) {
	var opts Options
	if err := loadFromFile(&opts, path); err != nil {
		return Options{}, fmt.Errorf("failed to load edit plan: %w", err)
	}
	return opts, nil
}

func loadFromFile(opts *Options, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return yaml.Unmarshal(data, opts)
}
