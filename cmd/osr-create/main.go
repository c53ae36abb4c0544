package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/reallyoldfogie/osr-replay-go/osr"
)

// countsFlag parses "300,100,50,geki,katu,miss".
type countsFlag [6]uint16

func (c *countsFlag) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.Itoa(int(v))
	}
	return strings.Join(parts, ",")
}

func (c *countsFlag) Set(v string) error {
	parts := strings.Split(v, ",")
	if len(parts) != len(c) {
		return fmt.Errorf("invalid --counts, want 300,100,50,geki,katu,miss")
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16)
		if err != nil {
			return fmt.Errorf("count %d: %w", i, err)
		}
		c[i] = uint16(n)
	}
	return nil
}

// Writes a synthetic replay, mostly useful as a fixture for osr-edit.
func main() {
	var out, player, beatmap, mods, date, data, lifebar string
	var mode, version, score, combo, scoreID uint64
	var accuracy float64
	var perfect bool
	var counts countsFlag

	flag.StringVar(&out, "out", "example.osr", "Output .osr path")
	flag.Uint64Var(&mode, "mode", 0, "Game mode (0 osu, 1 taiko, 2 fruits, 3 mania)")
	flag.Uint64Var(&version, "version", 20230621, "Client version (yyyymmdd)")
	flag.StringVar(&player, "player", "player", "Player name")
	flag.StringVar(&beatmap, "beatmap", "", "Beatmap MD5 hash")
	flag.StringVar(&mods, "mods", "", "Mods, e.g. HDDT")
	flag.StringVar(&date, "date", "", "Date \"YYYY-MM-DD hh:mm:ss +HH\" (default now)")
	flag.StringVar(&data, "data", "", "Compressed replay data as hex")
	flag.StringVar(&lifebar, "lifebar", "", "Life bar graph, e.g. 0|1,5000|0.8,")
	flag.Uint64Var(&score, "score", 0, "Total score")
	flag.Uint64Var(&combo, "combo", 0, "Max combo")
	flag.Uint64Var(&scoreID, "score-id", 0, "Online score id")
	flag.Float64Var(&accuracy, "tp-accuracy", 0, "Target practice accuracy (with TP mod)")
	flag.BoolVar(&perfect, "perfect", false, "Full combo")
	flag.Var(&counts, "counts", "Judgement counts 300,100,50,geki,katu,miss")
	flag.Parse()

	if mode > 0xff || version > 0xffffffff || score > 0xffffffff || combo > 0xffff {
		log.Fatalf("value out of range")
	}

	m, err := osr.ParseMods(mods, "")
	if err != nil {
		log.Fatalf("mods: %v", err)
	}
	payload, err := hex.DecodeString(data)
	if err != nil {
		log.Fatalf("data: %v", err)
	}

	rep := &osr.Replay{
		Mode:           osr.Mode(mode),
		Version:        uint32(version),
		BeatmapHash:    osr.Str(beatmap),
		PlayerName:     osr.Str(player),
		ReplayHash:     osr.Str(""),
		Count300:       counts[0],
		Count100:       counts[1],
		Count50:        counts[2],
		CountGeki:      counts[3],
		CountKatu:      counts[4],
		CountMiss:      counts[5],
		Score:          uint32(score),
		MaxCombo:       uint16(combo),
		Perfect:        perfect,
		Mods:           m,
		CompressedData: payload,
		OnlineScoreID:  scoreID,
		TargetAccuracy: accuracy,
	}
	if lifebar != "" {
		rep.LifeBar = osr.Str(lifebar)
	}

	if date == "" {
		err = rep.SetTime(time.Now())
	} else {
		rep.Timestamp, err = osr.ParseTicks(date)
	}
	if err != nil {
		log.Fatalf("date: %v", err)
	}

	if err := osr.WriteFile(out, rep); err != nil {
		log.Fatalf("write replay: %v", err)
	}

	fmt.Printf("wrote %s (%s, %s, %d bytes of replay data)\n", out, rep.Mode, rep.Mods, len(payload))
}
