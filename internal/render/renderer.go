package render

import (
	"image/color"
	"time"
)

type Renderer interface {
	Init() error
	Deinit() error
	Size() (width, height int)
	RenderLoop(framePeriod time.Duration, render func(now time.Time, deltaTime float64) bool)
	Fill(row, column int, message string)
	FillColor(row, column int, color color.RGBA, message string)
	Clear()
}
