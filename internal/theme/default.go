package theme

import (
	"fmt"
	"image/color"
	"strings"

	"git.lost.host/meutraa/groove/internal/game"
)

type DefaultTheme struct {
}

const (
	mineSym     = "⨯"
	holdSym     = "┃"
	rollSym     = "╏"
	deadHoldSym = "╎"
)

var (
	syms       = []string{"⬤", "⬤", "⬤", "⬤", "⬤", "⬤", "⬤", "⬤"}
	receptors  = []string{"◯", "◯", "◯", "◯", "◯", "◯", "◯", "◯"}
	noteColors = map[int]color.RGBA{
		1:  {236, 30, 0, 255},    // 1/4 red
		2:  {0, 118, 236, 255},   // 1/8 blue
		3:  {106, 0, 236, 255},   // 1/12 purple
		4:  {236, 195, 0, 255},   // 1/16 yellow
		6:  {236, 0, 106, 255},   // 1/24 pink
		8:  {236, 128, 0, 255},   // 1/32 orange
		12: {173, 236, 236, 255}, // 1/48 light blue
		16: {0, 236, 128, 255},   // 1/64 green
		48: {110, 147, 89, 255},  // 1/192 olive
		-1: {106, 106, 106, 255}, // other grey
	}
	gradeNames = map[game.Grade]string{
		game.Fantastic: "\033[38;2;33;235;255mFantastic\033[0m",
		game.Excellent: "\033[38;2;255;235;77m Excellent\033[0m",
		game.Great:     "\033[38;2;102;255;102m  Great\033[0m",
		game.Decent:    "\033[38;2;177;101;221m  Decent\033[0m",
		game.WayOff:    "\033[38;2;196;123;72m  Way Off\033[0m",
		game.Miss:      "\033[1;31m   Miss\033[0m",
	}
)

func getNoteColor(d int) color.RGBA {
	col, ok := noteColors[d]
	if !ok {
		return noteColors[-1]
	}
	return col
}

func colored(c color.RGBA, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

func sym(table []string, column int) string {
	if column < len(table) {
		return table[column]
	}
	return table[0]
}

func (t *DefaultTheme) RenderNote(column, denom int) string {
	return colored(getNoteColor(denom), sym(syms, column))
}

func (t *DefaultTheme) RenderMine(column int) string {
	return colored(getNoteColor(1), mineSym)
}

func (t *DefaultTheme) RenderHoldBody(column int, life float64) string {
	if life <= 0 {
		return colored(noteColors[-1], deadHoldSym)
	}
	return colored(color.RGBA{0, 236, 128, 255}, holdSym)
}

func (t *DefaultTheme) RenderRollBody(column int, life float64) string {
	if life <= 0 {
		return colored(noteColors[-1], deadHoldSym)
	}
	return colored(color.RGBA{0, 195, 236, 255}, rollSym)
}

func (t *DefaultTheme) RenderReceptor(column int, glow, bop float64) string {
	r := sym(receptors, column)
	if glow > 0 {
		return colored(color.RGBA{255, 255, 255, 255}, r)
	}
	if bop > 0 {
		return colored(color.RGBA{150, 150, 150, 255}, r)
	}
	return colored(color.RGBA{90, 90, 90, 255}, r)
}

func (t *DefaultTheme) JudgementName(grade game.Grade) string {
	if name, ok := gradeNames[grade]; ok {
		return name
	}
	return ""
}

func (t *DefaultTheme) HoldResultName(result game.HoldResult) string {
	switch result {
	case game.Held:
		return "\033[38;2;102;255;102mHeld\033[0m"
	case game.LetGo:
		return "\033[1;31mLet Go\033[0m"
	}
	return ""
}

func (t *DefaultTheme) LifeMeter(life float64, failing bool, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(life * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if failing {
		return colored(color.RGBA{236, 30, 0, 255}, bar)
	}
	if life >= 1.0 {
		return colored(color.RGBA{255, 235, 77, 255}, bar)
	}
	return colored(color.RGBA{102, 255, 102, 255}, bar)
}

func (t *DefaultTheme) ComboText(combo int) string {
	if combo < 4 {
		return ""
	}
	return fmt.Sprintf("\033[1m%d\033[0m", combo)
}

func (t *DefaultTheme) TierColor(percent float64) color.RGBA {
	switch {
	case percent >= 0.96:
		return color.RGBA{33, 235, 255, 255}
	case percent >= 0.89:
		return color.RGBA{255, 235, 77, 255}
	case percent >= 0.80:
		return color.RGBA{102, 255, 102, 255}
	case percent >= 0.68:
		return color.RGBA{0, 118, 236, 255}
	default:
		return color.RGBA{196, 123, 72, 255}
	}
}
