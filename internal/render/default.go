package render

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	buffer       strings.Builder
	restoreState *term.State
}

func (r *DefaultRenderer) Init() error {
	state, err := term.MakeRaw(int(os.Stdout.Fd()))
	if nil != err {
		return err
	}
	r.restoreState = state

	fmt.Printf("%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Printf("%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *DefaultRenderer) Size() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if nil != err {
		return 80, 24
	}
	return width, height
}

// RenderLoop drives the frame callback until it returns false, pacing
// frames to the period. deltaTime is wall time since the previous frame.
func (r *DefaultRenderer) RenderLoop(
	framePeriod time.Duration,
	render func(now time.Time, deltaTime float64) bool,
) {
	cont := true
	last := time.Now()
	for cont {
		now := time.Now()
		deltaTime := now.Sub(last).Seconds()
		last = now
		deadline := now.Add(framePeriod)

		cont = render(now, deltaTime)

		r.flush()

		remainingTime := deadline.Sub(time.Now())
		if remainingTime > 0 {
			time.Sleep(remainingTime)
		}
	}
}

func (r *DefaultRenderer) Clear() {
	r.buffer.WriteString("\033[2J")
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column int, c color.RGBA, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.Itoa(int(c.R)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.G)))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(int(c.B)))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) flush() {
	os.Stdout.WriteString(r.buffer.String())
	r.buffer.Reset()
}
