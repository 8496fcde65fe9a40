package audio

import (
	"log"
	"math"
	"os"
	"path"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
)

// DefaultService plays music and effects through the beep speaker. The
// speaker is initialized once from the music file's sample rate; effects
// are resampled onto it.
type DefaultService struct {
	mu          sync.Mutex
	rate        float64
	sampleRate  beep.SampleRate
	initialized bool
	music       *beep.Ctrl
	streamer    beep.StreamSeekCloser
}

// NewDefaultService creates a service playing at the given rate
// multiplier (1.0 is normal speed).
func NewDefaultService(rate float64) *DefaultService {
	if rate <= 0 {
		rate = 1.0
	}
	return &DefaultService{rate: rate}
}

// Effect names used by the engine, resolved to files shipped next to
// the binary.
var sfxFiles = map[string]string{
	"boom": "assets/sounds/boom.ogg",
}

func sfxPath(name string) (string, bool) {
	p, ok := sfxFiles[name]
	return p, ok
}

func decode(file *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	if path.Ext(file.Name()) == ".ogg" {
		return vorbis.Decode(file)
	}
	return mp3.Decode(file)
}

func (s *DefaultService) PlayMusic(p string, cut Cut) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(p)
	if nil != err {
		log.Println("unable to open music file:", err)
		return
	}
	streamer, format, err := decode(f)
	if nil != err {
		log.Println("unable to decode music file:", err)
		f.Close()
		return
	}

	if !s.initialized {
		s.sampleRate = beep.SampleRate(math.Round(float64(format.SampleRate) * s.rate))
		if err := speaker.Init(s.sampleRate, format.SampleRate.N(time.Second/60)); nil != err {
			log.Println("unable to initialize speaker:", err)
			streamer.Close()
			return
		}
		s.initialized = true
	}

	var stream beep.Streamer = streamer
	if cut.StartSec < 0 {
		silence := s.sampleRate.N(time.Duration(-cut.StartSec * float64(time.Second)))
		stream = beep.Seq(beep.Silence(silence), stream)
	} else if cut.StartSec > 0 {
		if err := streamer.Seek(format.SampleRate.N(time.Duration(cut.StartSec * float64(time.Second)))); nil != err {
			log.Println("unable to seek music:", err)
		}
	}
	if cut.LengthSec > 0 && !math.IsInf(cut.LengthSec, 1) {
		stream = beep.Take(format.SampleRate.N(time.Duration(cut.LengthSec*float64(time.Second))), stream)
	}

	s.stopLocked()
	s.music = &beep.Ctrl{Streamer: stream}
	s.streamer = streamer
	speaker.Play(s.music)
}

func (s *DefaultService) PlaySFX(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}

	p, ok := sfxPath(name)
	if !ok {
		log.Println("unknown sfx:", name)
		return
	}
	f, err := os.Open(p)
	if nil != err {
		log.Println("unable to open sfx:", err)
		return
	}
	streamer, format, err := decode(f)
	if nil != err {
		log.Println("unable to decode sfx:", err)
		f.Close()
		return
	}
	speaker.Play(beep.Seq(
		beep.Resample(4, format.SampleRate, s.sampleRate, streamer),
		beep.Callback(func() { streamer.Close() }),
	))
}

func (s *DefaultService) StopMusic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *DefaultService) stopLocked() {
	if s.music == nil {
		return
	}
	speaker.Lock()
	s.music.Paused = true
	speaker.Unlock()
	if s.streamer != nil {
		if err := s.streamer.Close(); nil != err {
			log.Println("unable to close music streamer:", err)
		}
	}
	s.music = nil
	s.streamer = nil
}
