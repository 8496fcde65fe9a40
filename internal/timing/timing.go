package timing

import (
	"log"
	"math"
	"sort"

	"git.lost.host/meutraa/groove/internal/game"
)

const fallbackBPM = 120.0

// Data is an immutable beat/time conversion table built once per chart
// from its BPM, stop, delay, warp and speed segments. All engine queries
// during play go through here, so everything is precomputed and every
// lookup is a binary search.
type Data struct {
	points    []point
	speeds    []game.SpeedSegment
	warps     []game.BeatValue
	warpSkip  []float64 // prefix sum of warped beats before warps[i]
	rowToBeat []float64
	offset    float64 // global (machine) offset in seconds
	maxBPM    float64
}

// point marks a beat where the beat to time mapping changes shape.
//
//	timeStart  - when this beat is first reached
//	timeAtBeat - when a note on exactly this beat fires
//	timeEnd    - when beats after this point start accruing again
//	spb        - seconds per beat after this point, 0 inside a warp
//
// A stop pauses after the beat (timeAtBeat == timeStart), a delay pauses
// before it (timeAtBeat == timeEnd).
type point struct {
	beat       float64
	timeStart  float64
	timeAtBeat float64
	timeEnd    float64
	spb        float64
	bpm        float64
}

type BeatInfo struct {
	Beat     float64
	InFreeze bool
	InDelay  bool
}

// New builds the conversion table. songOffset is the time in seconds at
// which beat 0 occurs (already negated from the #OFFSET tag by the
// parser). globalOffset is the machine-wide tweak applied to queries.
func New(tags game.TimingTags, globalOffset float64) *Data {
	bpms := sanitizeBPMs(tags.BPMs)

	stops := indexByBeat(tags.Stops)
	delays := indexByBeat(tags.Delays)
	warps := cleanSegments(tags.Warps)

	// Collect every beat at which the mapping changes.
	beatSet := map[float64]struct{}{}
	for _, b := range bpms {
		beatSet[b.Beat] = struct{}{}
	}
	for b := range stops {
		beatSet[b] = struct{}{}
	}
	for b := range delays {
		beatSet[b] = struct{}{}
	}
	for _, w := range warps {
		beatSet[w.Beat] = struct{}{}
		beatSet[w.Beat+w.Value] = struct{}{}
	}
	beats := make([]float64, 0, len(beatSet))
	for b := range beatSet {
		beats = append(beats, b)
	}
	sort.Float64s(beats)

	warpEndAt := func(beat float64) (float64, bool) {
		for _, w := range warps {
			if w.Beat == beat {
				return w.Beat + w.Value, true
			}
		}
		return 0, false
	}

	points := make([]point, 0, len(beats))
	curTime := tags.Offset
	curBPM := bpms[0].Value
	maxBPM := 0.0
	lastBeat := 0.0
	warpEnd := math.Inf(-1)

	for _, beat := range beats {
		// Advance time from the previous event, zero-cost while warped.
		if beat > lastBeat {
			span := beat - lastBeat
			if lastBeat < warpEnd {
				skipped := math.Min(beat, warpEnd) - lastBeat
				span -= skipped
			}
			if span > 0 {
				curTime += span * (60.0 / curBPM)
			}
		}

		for _, b := range bpms {
			if b.Beat == beat {
				curBPM = b.Value
			}
		}
		if curBPM > maxBPM {
			maxBPM = curBPM
		}

		p := point{
			beat:       beat,
			timeStart:  curTime,
			timeAtBeat: curTime,
			timeEnd:    curTime,
			bpm:        curBPM,
			spb:        60.0 / curBPM,
		}
		if d, ok := delays[beat]; ok {
			p.timeAtBeat += d
			p.timeEnd += d
		}
		if s, ok := stops[beat]; ok {
			p.timeEnd += s
		}
		if end, ok := warpEndAt(beat); ok && end > warpEnd {
			warpEnd = end
		}
		if beat < warpEnd {
			p.spb = 0
		}
		curTime = p.timeEnd
		lastBeat = beat
		points = append(points, p)
	}

	if len(points) == 0 || points[0].beat != 0 {
		head := point{
			beat:       0,
			timeStart:  tags.Offset,
			timeAtBeat: tags.Offset,
			timeEnd:    tags.Offset,
			bpm:        bpms[0].Value,
			spb:        60.0 / bpms[0].Value,
		}
		points = append([]point{head}, points...)
	}

	warpSkip := make([]float64, len(warps))
	skipped := 0.0
	for i, w := range warps {
		warpSkip[i] = skipped
		skipped += w.Value
	}

	return &Data{
		points:    points,
		speeds:    cleanSpeeds(tags.Speeds),
		warps:     warps,
		warpSkip:  warpSkip,
		rowToBeat: buildRowTable(tags.MeasureRows),
		offset:    globalOffset,
		maxBPM:    maxBPM,
	}
}

func sanitizeBPMs(in []game.BeatValue) []game.BeatValue {
	out := make([]game.BeatValue, 0, len(in))
	for _, b := range in {
		if !math.IsInf(b.Value, 0) && !math.IsNaN(b.Value) && b.Value > 0 {
			out = append(out, b)
		} else {
			log.Printf("dropping degenerate bpm %v at beat %v", b.Value, b.Beat)
		}
	}
	if len(out) == 0 {
		out = append(out, game.BeatValue{Beat: 0, Value: fallbackBPM})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Beat < out[j].Beat })
	if out[0].Beat != 0 {
		out = append([]game.BeatValue{{Beat: 0, Value: out[0].Value}}, out...)
	}
	return out
}

func indexByBeat(in []game.BeatValue) map[float64]float64 {
	m := make(map[float64]float64, len(in))
	for _, v := range in {
		if v.Value > 0 {
			m[v.Beat] += v.Value
		}
	}
	return m
}

func cleanSegments(in []game.BeatValue) []game.BeatValue {
	out := make([]game.BeatValue, 0, len(in))
	for _, v := range in {
		if v.Value > 0 {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Beat < out[j].Beat })
	return out
}

func cleanSpeeds(in []game.SpeedSegment) []game.SpeedSegment {
	out := make([]game.SpeedSegment, 0, len(in))
	for _, s := range in {
		if !math.IsNaN(s.Ratio) && !math.IsInf(s.Ratio, 0) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Beat < out[j].Beat })
	return out
}

func buildRowTable(measureRows []int) []float64 {
	table := []float64{}
	for measure, rows := range measureRows {
		if rows <= 0 {
			continue
		}
		for row := 0; row < rows; row++ {
			beat := float64(measure)*4.0 + float64(row)/float64(rows)*4.0
			table = append(table, beat)
		}
	}
	return table
}

// pointFor returns the last point at or before beat.
func (d *Data) pointFor(beat float64) *point {
	i := sort.Search(len(d.points), func(i int) bool { return d.points[i].beat > beat })
	if i == 0 {
		return &d.points[0]
	}
	return &d.points[i-1]
}

// TimeForBeat maps a musical beat to seconds of music time.
func (d *Data) TimeForBeat(beat float64) float64 {
	return d.timeForBeat(beat) - d.offset
}

func (d *Data) timeForBeat(beat float64) float64 {
	p := d.pointFor(beat)
	if beat == p.beat {
		return p.timeAtBeat
	}
	if beat < p.beat {
		// Before the first point, extrapolate backwards.
		return p.timeStart + (beat-p.beat)*p.spbOrDefault()
	}
	return p.timeEnd + (beat-p.beat)*p.spb
}

func (p *point) spbOrDefault() float64 {
	if p.spb > 0 {
		return p.spb
	}
	return 60.0 / fallbackBPM
}

// BeatForTime is the inverse of TimeForBeat.
func (d *Data) BeatForTime(t float64) float64 {
	return d.BeatInfoForTime(t).Beat
}

// BeatInfoForTime additionally reports whether the time falls inside a
// stop or a delay, during which the beat holds still.
func (d *Data) BeatInfoForTime(t float64) BeatInfo {
	t += d.offset
	i := sort.Search(len(d.points), func(i int) bool { return d.points[i].timeStart > t })
	if i == 0 {
		p := &d.points[0]
		return BeatInfo{Beat: p.beat + (t-p.timeStart)/p.spbOrDefault()}
	}
	p := &d.points[i-1]
	if t < p.timeAtBeat {
		return BeatInfo{Beat: p.beat, InDelay: true}
	}
	if t < p.timeEnd {
		return BeatInfo{Beat: p.beat, InFreeze: true}
	}
	if p.spb <= 0 {
		// Inside a warp: the beat snaps forward with the next point, and
		// queries land there instead; at the boundary hold the beat.
		return BeatInfo{Beat: p.beat}
	}
	return BeatInfo{Beat: p.beat + (t-p.timeEnd)/p.spb}
}

// BeatForRow maps a note row index to its beat. A false return means the
// chart data had no row there and the note must be dropped at load time.
func (d *Data) BeatForRow(row int) (float64, bool) {
	if row < 0 || row >= len(d.rowToBeat) {
		return 0, false
	}
	return d.rowToBeat[row], true
}

// RowForBeat finds the row index closest to the given beat.
func (d *Data) RowForBeat(beat float64) (int, bool) {
	if len(d.rowToBeat) == 0 {
		return 0, false
	}
	i := sort.Search(len(d.rowToBeat), func(i int) bool { return d.rowToBeat[i] >= beat })
	if i == 0 {
		return 0, true
	}
	if i >= len(d.rowToBeat) {
		return len(d.rowToBeat) - 1, true
	}
	if beat-d.rowToBeat[i-1] <= d.rowToBeat[i]-beat {
		return i - 1, true
	}
	return i, true
}

func (d *Data) BPMForBeat(beat float64) float64 {
	return d.pointFor(beat).bpm
}

// DisplayedBeat is the beat with warped spans collapsed, used for beat
// based scroll positioning. Musical beats keep counting through a warp;
// displayed beats do not.
func (d *Data) DisplayedBeat(beat float64) float64 {
	skipped := 0.0
	for _, w := range d.warps {
		if w.Beat >= beat {
			break
		}
		skipped += math.Min(beat-w.Beat, w.Value)
	}
	return beat - skipped
}

// SpeedMultiplier evaluates the active speed segment, interpolating from
// the previous ratio across the segment's delay span.
func (d *Data) SpeedMultiplier(beat, t float64) float64 {
	i := sort.Search(len(d.speeds), func(i int) bool { return d.speeds[i].Beat > beat })
	if i == 0 {
		return 1.0
	}
	seg := d.speeds[i-1]
	prev := 1.0
	if i >= 2 {
		prev = d.speeds[i-2].Ratio
	}
	if seg.Delay <= 0 {
		return seg.Ratio
	}
	var progress float64
	if seg.Unit == game.SpeedUnitSeconds {
		progress = (t - d.TimeForBeat(seg.Beat)) / seg.Delay
	} else {
		progress = (beat - seg.Beat) / seg.Delay
	}
	if progress >= 1 {
		return seg.Ratio
	}
	if progress < 0 {
		progress = 0
	}
	return prev + (seg.Ratio-prev)*progress
}

// CappedMaxBPM returns the largest positive BPM in the chart, optionally
// capped, used to derive an MMod reference BPM when the chart does not
// declare one. Falls back to 120 for degenerate charts.
func (d *Data) CappedMaxBPM(cap float64) float64 {
	max := d.maxBPM
	if max <= 0 {
		for _, p := range d.points {
			if !math.IsInf(p.bpm, 0) && p.bpm > max {
				max = p.bpm
			}
		}
	}
	if cap > 0 && max > cap {
		max = cap
	}
	if max <= 0 {
		return fallbackBPM
	}
	return max
}
