package parser

import (
	"testing"

	"git.lost.host/meutraa/groove/internal/game"
)

const chartData = `#TITLE:Test Song;
#ARTIST:Nobody;
#OFFSET:-0.5;
#BPMS:0=120,8=240;
#STOPS:4=0.5;
#DELAYS:;
#WARPS:12=2;
#SPEEDS:0=1=0=0,8=2=4=0;
#DISPLAYBPM:240;

#NOTES:
     dance-single:
     :
     Challenge:
     12:
     0,0,0,0,0:
0010
0000
1000
0000
,
2001
0000
3000
000M
,
0000
0100
0000
0000
0000
0000
0000
0000
;

#NOTES:
     pump-single:
     :
     Hard:
     9:
     0,0,0,0,0:
00000
;
`

func TestParseData(t *testing.T) {
	p := &DefaultParser{}
	charts, err := p.ParseData(chartData)
	if nil != err {
		t.Fatal(err)
	}
	if len(charts) != 1 {
		t.Fatal("expected one supported chart, got", len(charts))
	}
	c := charts[0]

	if c.Difficulty.Name != "Challenge" || c.Difficulty.Msd != "12" || c.Difficulty.NKeys != 4 {
		t.Log("difficulty:", c.Difficulty)
		t.Fail()
	}
	if c.NoteCount != 5 || c.HoldCount != 1 || c.RollCount != 0 || c.MineCount != 1 {
		t.Log("counts:", c.NoteCount, c.HoldCount, c.RollCount, c.MineCount)
		t.Fail()
	}
	if c.DisplayBPM != "240" {
		t.Log("display bpm:", c.DisplayBPM)
		t.Fail()
	}
	if len(c.ShortHash) != 16 {
		t.Log("short hash:", c.ShortHash)
		t.Fail()
	}
}

func TestParseDataTimingTags(t *testing.T) {
	p := &DefaultParser{}
	charts, err := p.ParseData(chartData)
	if nil != err {
		t.Fatal(err)
	}
	tags := charts[0].Timing

	// The audio starts half a second before beat 0.
	if tags.Offset != 0.5 {
		t.Log("offset:", tags.Offset)
		t.Fail()
	}
	if len(tags.BPMs) != 2 || tags.BPMs[1] != (game.BeatValue{Beat: 8, Value: 240}) {
		t.Log("bpms:", tags.BPMs)
		t.Fail()
	}
	if len(tags.Stops) != 1 || tags.Stops[0] != (game.BeatValue{Beat: 4, Value: 0.5}) {
		t.Log("stops:", tags.Stops)
		t.Fail()
	}
	if len(tags.Delays) != 0 {
		t.Log("delays:", tags.Delays)
		t.Fail()
	}
	if len(tags.Warps) != 1 || tags.Warps[0] != (game.BeatValue{Beat: 12, Value: 2}) {
		t.Log("warps:", tags.Warps)
		t.Fail()
	}
	if len(tags.Speeds) != 2 || tags.Speeds[1].Ratio != 2 || tags.Speeds[1].Unit != game.SpeedUnitBeats {
		t.Log("speeds:", tags.Speeds)
		t.Fail()
	}
	want := []int{4, 4, 8}
	if len(tags.MeasureRows) != len(want) {
		t.Fatal("measure rows:", tags.MeasureRows)
	}
	for i, rows := range want {
		if tags.MeasureRows[i] != rows {
			t.Log("measure", i, "rows:", tags.MeasureRows[i])
			t.Fail()
		}
	}
}

func TestParseDataNotes(t *testing.T) {
	p := &DefaultParser{}
	charts, err := p.ParseData(chartData)
	if nil != err {
		t.Fatal(err)
	}
	notes := charts[0].Notes

	first := notes[0]
	if first.RowIndex != 0 || first.Column != 2 || first.Type != game.Tap || first.Denom != 1 {
		t.Log("first note:", first)
		t.Fail()
	}

	var hold, mine, eighth *game.Note
	for _, n := range notes {
		switch {
		case n.Type == game.Hold:
			hold = n
		case n.Type == game.Mine:
			mine = n
		case n.RowIndex == 9:
			eighth = n
		}
	}

	if hold == nil || hold.Hold == nil || hold.Hold.EndRowIndex != 6 || hold.RowIndex != 4 {
		t.Log("hold:", hold)
		t.Fail()
	}
	if mine == nil || mine.RowIndex != 7 || mine.Column != 3 || mine.Mine != game.MinePending {
		t.Log("mine:", mine)
		t.Fail()
	}
	if eighth == nil || eighth.Column != 1 || eighth.Denom != 2 {
		t.Log("eighth note:", eighth)
		t.Fail()
	}
}
