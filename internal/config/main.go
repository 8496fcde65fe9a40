package config

import (
	"log"
	"strconv"
	"strings"

	"git.lost.host/meutraa/groove/internal/scroll"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	Directory    = kingpin.Arg("directory", "Song/chart directory").Required().ExistingDir()
	Rate         = kingpin.Flag("rate", "Playback rate").Default("1.0").Short('r').Float64()
	Offset       = kingpin.Flag("offset", "Global offset").Default("0ms").Short('o').Duration()
	FramePeriod  = kingpin.Flag("frame-period", "Render frame period").Default("1ms").Short('p').Duration()
	DrawDistance = kingpin.Flag("draw-distance", "Pixels of runway above the receptors").Default("1080").Float64()
	ExitHoldTime = kingpin.Flag("exit-hold", "Seconds the exit key must be held").Default("1s").Duration()
	Keyboard     = kingpin.Flag("keyboard", "Keyboard event device").Default("/dev/input/event0").String()
	Gamepad      = kingpin.Flag("gamepad", "Gamepad event device").String()
	ScoreDB      = kingpin.Flag("score-db", "Score history database file").Default("./scores.db").String()
	ProfileDB    = kingpin.Flag("profile-db", "Profile database file").Default("./profile.db").String()

	scrollSpeed = kingpin.Flag("scroll-speed", "Scroll speed, e.g. C600, X2.5, M500").Short('s').String()
	keys4       = kingpin.Flag("keys-single", "Key codes for 4k").Default("32,33,36,37").Short('k').String()
	keys6       = kingpin.Flag("keys-solo", "Key codes for 6k").Default("31,32,33,36,37,38").String()
	keys8       = kingpin.Flag("keys-double", "Key codes for 8k").Default("30,31,32,33,36,37,38,39").String()
)

func init() {
	kingpin.Version("0.1.0")
	kingpin.Parse()
}

// ScrollSpeed is the command line override, if one was given. The
// profile's stored preference applies otherwise.
func ScrollSpeed() (scroll.Setting, bool) {
	if *scrollSpeed == "" {
		return scroll.Setting{}, false
	}
	setting, err := scroll.FromString(*scrollSpeed)
	if nil != err {
		log.Println("ignoring scroll speed flag:", err)
		return scroll.Setting{}, false
	}
	return setting, true
}

func parseKeyCodes(s string) []uint16 {
	codes := []uint16{}
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 16)
		if nil != err {
			log.Println("ignoring key code", part)
			continue
		}
		codes = append(codes, uint16(v))
	}
	return codes
}

func Keys(nKeys int) []uint16 {
	switch nKeys {
	case 6:
		return parseKeyCodes(*keys6)
	case 8:
		return parseKeyCodes(*keys8)
	}
	return parseKeyCodes(*keys4)
}
