package theme

import (
	"image/color"

	"git.lost.host/meutraa/groove/internal/game"
)

type Theme interface {
	RenderNote(column, denom int) string
	RenderMine(column int) string
	RenderHoldBody(column int, life float64) string
	RenderRollBody(column int, life float64) string
	RenderReceptor(column int, glow, bop float64) string
	JudgementName(grade game.Grade) string
	HoldResultName(result game.HoldResult) string
	LifeMeter(life float64, failing bool, width int) string
	ComboText(combo int) string
	TierColor(percent float64) color.RGBA
}
