package audio

// Cut selects a portion of a music file, with StartSec below zero
// meaning a preroll of silence before playback begins.
type Cut struct {
	StartSec  float64
	LengthSec float64
}

// Service is the engine-facing audio boundary. Calls are fire and
// forget: failures are logged by the implementation and gameplay keeps
// going in silence.
type Service interface {
	PlayMusic(path string, cut Cut)
	PlaySFX(name string)
	StopMusic()
}

// Nop is used by tests and headless runs.
type Nop struct{}

func (Nop) PlayMusic(string, Cut) {}
func (Nop) PlaySFX(string)        {}
func (Nop) StopMusic()            {}
