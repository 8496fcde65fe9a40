package parser

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io/ioutil"
	"math/big"
	"strconv"
	"strings"

	"git.lost.host/meutraa/groove/internal/game"
)

type DefaultParser struct{}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note

func noteTypeFor(ch byte) (game.NoteType, bool) {
	switch ch {
	case '1':
		return game.Tap, true
	case '2':
		return game.Hold, true
	case '4':
		return game.Roll, true
	case 'M', 'm':
		return game.Mine, true
	}
	return game.Tap, false
}

func (p *DefaultParser) Parse(file string) ([]*game.Chart, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, fmt.Errorf("unable to read chart file: %w", err)
	}
	return p.ParseData(string(data))
}

func (p *DefaultParser) ParseData(data string) ([]*game.Chart, error) {
	str := strings.ReplaceAll(data, "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]

	tags, displayBPM, err := parseTimingTags(meta)
	if nil != err {
		return nil, err
	}

	charts := []*game.Chart{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		nKeys, ok := game.NKeyMap[chartType]
		if !ok {
			continue
		}
		section := lines[6]
		if end := strings.Index(section, ";"); end >= 0 {
			section = section[:end]
		}
		difficulty := game.Difficulty{
			Name:    strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			Msd:     strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			Section: section,
			NKeys:   nKeys,
		}

		chart := parseNoteSection(difficulty, nKeys)
		chart.Timing = tags
		chart.Timing.MeasureRows = measureRows(difficulty.Section)
		chart.DisplayBPM = displayBPM
		chart.ShortHash = shortHash(difficulty.Section)
		charts = append(charts, chart)
	}

	return charts, nil
}

func parseTimingTags(meta string) (game.TimingTags, string, error) {
	tags := game.TimingTags{}
	displayBPM := ""

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimSpace(mdl)
		mdl = strings.TrimPrefix(mdl, "#")
		switch {
		case strings.HasPrefix(mdl, "OFFSET:"):
			offs, err := strconv.ParseFloat(tagBody(mdl, "OFFSET:"), 64)
			if nil != err {
				return tags, "", fmt.Errorf("unable to parse #OFFSET: %w", err)
			}
			// The tag is the audio start relative to beat 0; we want the
			// time of beat 0.
			tags.Offset = -offs
		case strings.HasPrefix(mdl, "BPMS:"):
			tags.BPMs = parseBeatValues(tagBody(mdl, "BPMS:"))
		case strings.HasPrefix(mdl, "STOPS:"):
			tags.Stops = parseBeatValues(tagBody(mdl, "STOPS:"))
		case strings.HasPrefix(mdl, "DELAYS:"):
			tags.Delays = parseBeatValues(tagBody(mdl, "DELAYS:"))
		case strings.HasPrefix(mdl, "WARPS:"):
			tags.Warps = parseBeatValues(tagBody(mdl, "WARPS:"))
		case strings.HasPrefix(mdl, "SPEEDS:"):
			tags.Speeds = parseSpeedSegments(tagBody(mdl, "SPEEDS:"))
		case strings.HasPrefix(mdl, "DISPLAYBPM:"):
			displayBPM = tagBody(mdl, "DISPLAYBPM:")
		}
	}
	return tags, displayBPM, nil
}

func tagBody(mdl, prefix string) string {
	mdl = strings.TrimPrefix(mdl, prefix)
	mdl = strings.ReplaceAll(mdl, "\n", "")
	return strings.TrimSpace(strings.TrimSuffix(mdl, ";"))
}

// parseBeatValues reads a "beat=value,beat=value" list, skipping
// malformed pairs rather than failing the chart.
func parseBeatValues(body string) []game.BeatValue {
	values := []game.BeatValue{}
	if body == "" {
		return values
	}
	for _, pair := range strings.Split(body, ",") {
		parts := strings.Split(pair, "=")
		if len(parts) < 2 {
			continue
		}
		beat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if nil != err {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if nil != err {
			continue
		}
		values = append(values, game.BeatValue{Beat: beat, Value: value})
	}
	return values
}

// parseSpeedSegments reads "beat=ratio=delay=unit" entries, unit 0 being
// beats and 1 seconds.
func parseSpeedSegments(body string) []game.SpeedSegment {
	segments := []game.SpeedSegment{}
	if body == "" {
		return segments
	}
	for _, entry := range strings.Split(body, ",") {
		parts := strings.Split(entry, "=")
		if len(parts) < 4 {
			continue
		}
		beat, err0 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		ratio, err1 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		delay, err2 := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		unit, err3 := strconv.ParseInt(strings.TrimSpace(parts[3]), 10, 8)
		if err0 != nil || err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		segment := game.SpeedSegment{Beat: beat, Ratio: ratio, Delay: delay}
		if unit == 1 {
			segment.Unit = game.SpeedUnitSeconds
		}
		segments = append(segments, segment)
	}
	return segments
}

// parseNoteSection turns the raw measure data into row-indexed notes.
// Beats and times are resolved later against the timing table, so notes
// carry only their row here.
func parseNoteSection(difficulty game.Difficulty, nKeys int) *game.Chart {
	notes := []*game.Note{}
	holdHeads := make([]*game.Note, nKeys)
	noteCount, holdCount, rollCount, mineCount := 0, 0, 0, 0
	rowIndex := 0

	for _, block := range strings.Split(difficulty.Section, ",") {
		lines := measureLines(block)
		lineCount := int64(len(lines))

		for i, line := range lines {
			r := big.NewRat(int64(i*4), lineCount)
			denom := int(r.Denom().Int64())

			for col := 0; col < nKeys && col < len(line); col++ {
				ch := line[col]
				if ch == '3' {
					if head := holdHeads[col]; head != nil {
						head.Hold = &game.HoldData{EndRowIndex: rowIndex}
						holdHeads[col] = nil
					}
					continue
				}
				noteType, ok := noteTypeFor(ch)
				if !ok {
					continue
				}
				note := &game.Note{
					Column:   col,
					Type:     noteType,
					RowIndex: rowIndex,
					Denom:    denom,
				}
				switch noteType {
				case game.Mine:
					mineCount++
				case game.Hold:
					holdCount++
					noteCount++
					holdHeads[col] = note
				case game.Roll:
					rollCount++
					noteCount++
					holdHeads[col] = note
				default:
					noteCount++
				}
				notes = append(notes, note)
			}
			rowIndex++
		}
	}

	return &game.Chart{
		Notes:      notes,
		NoteCount:  noteCount,
		HoldCount:  holdCount,
		RollCount:  rollCount,
		MineCount:  mineCount,
		Difficulty: difficulty,
	}
}

func measureLines(block string) []string {
	lines := []string{}
	for _, l := range strings.Split(block, "\n") {
		l = strings.TrimSpace(l)
		if len(l) < 4 || strings.HasPrefix(l, "//") || strings.Contains(l, ";") {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

func measureRows(section string) []int {
	rows := []int{}
	for _, block := range strings.Split(section, ",") {
		rows = append(rows, len(measureLines(block)))
	}
	return rows
}

func shortHash(section string) string {
	sum := sha256.Sum256([]byte(section))
	return base64.StdEncoding.EncodeToString(sum[:])[:16]
}
