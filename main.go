package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"git.lost.host/meutraa/groove/internal/audio"
	"git.lost.host/meutraa/groove/internal/config"
	"git.lost.host/meutraa/groove/internal/game"
	"git.lost.host/meutraa/groove/internal/input"
	"git.lost.host/meutraa/groove/internal/judge"
	"git.lost.host/meutraa/groove/internal/parser"
	"git.lost.host/meutraa/groove/internal/profile"
	"git.lost.host/meutraa/groove/internal/render"
	"git.lost.host/meutraa/groove/internal/score"
	"git.lost.host/meutraa/groove/internal/theme"
	"git.lost.host/meutraa/groove/internal/timing"
	"github.com/eiannone/keyboard"
)

func main() {
	if err := run(); nil != err {
		log.Fatalln(err)
	}
}

func findSongFiles(dir string) (audioFile, chartFile string, err error) {
	var mp3File, oggFile string
	err = filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch path.Ext(info.Name()) {
		case ".mp3":
			mp3File = p
		case ".ogg":
			oggFile = p
		case ".sm":
			chartFile = p
		}
		return nil
	})
	if nil != err {
		return "", "", fmt.Errorf("unable to walk song directory: %w", err)
	}

	audioFile = mp3File
	if oggFile != "" {
		audioFile = oggFile
	}
	if audioFile == "" || chartFile == "" {
		return "", "", errors.New("unable to find .sm and .mp3/.ogg file in given directory")
	}
	return audioFile, chartFile, nil
}

func selectChart(charts []*game.Chart, keyChannel <-chan keyboard.KeyEvent) (*game.Chart, error) {
	for i, c := range charts {
		fmt.Printf("%2v) %3v  %5v  %v\n", i, c.Difficulty.Msd, c.NoteCount, c.Difficulty.Name)
	}
	key := <-keyChannel
	if key.Key == keyboard.KeyEsc {
		return nil, errors.New("cancelled")
	}
	index, err := strconv.ParseInt(string(key.Rune), 10, 64)
	if nil != err || index < 0 || index > int64(len(charts)-1) {
		return nil, fmt.Errorf("invalid difficulty selection %q", string(key.Rune))
	}
	return charts[index], nil
}

func run() error {
	var r render.Renderer = &render.DefaultRenderer{}
	var th theme.Theme = &theme.DefaultTheme{}
	var psr parser.Parser = &parser.DefaultParser{}

	keyChannel, err := keyboard.GetKeys(128)
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer func() {
		if err := keyboard.Close(); nil != err {
			log.Println("unable to close keyboard:", err)
		}
	}()

	audioFile, chartFile, err := findSongFiles(*config.Directory)
	if nil != err {
		return err
	}

	charts, err := psr.Parse(chartFile)
	if nil != err {
		return err
	}
	chart, err := selectChart(charts, keyChannel)
	if nil != err {
		return err
	}

	profiles := profile.NewService(*config.ProfileDB)
	if err := profiles.Init(); nil != err {
		return fmt.Errorf("unable to open profile database: %w", err)
	}
	defer profiles.Deinit()
	player := profiles.Load()

	scores := score.NewStore(*config.ScoreDB)
	if err := scores.Init(); nil != err {
		return fmt.Errorf("unable to open score database: %w", err)
	}
	defer scores.Deinit()

	scrollSpeed := player.ScrollSpeed
	if override, ok := config.ScrollSpeed(); ok {
		scrollSpeed = override
		player.ScrollSpeed = override
		profiles.Save(player)
	}

	log.Printf("Opening %v (%v) as %v\n", audioFile, chartFile, player.Name)

	queue := input.NewQueue()
	codes := config.Keys(chart.Difficulty.NKeys)
	if err := input.ReadDevice(*config.Keyboard, codes, input.SourceKeyboard, queue); nil != err {
		return fmt.Errorf("unable to open keyboard device: %w", err)
	}
	if *config.Gamepad != "" {
		if err := input.ReadDevice(*config.Gamepad, codes, input.SourceGamepad, queue); nil != err {
			log.Println("unable to open gamepad device:", err)
		}
	}

	t := timing.New(chart.Timing, (*config.Offset).Seconds())
	engine := judge.New(chart, t, judge.Options{
		ScrollSpeed:  scrollSpeed,
		DrawDistance: *config.DrawDistance,
		Audio:        audio.NewDefaultService(*config.Rate),
		Queue:        queue,
		ExitHoldTime: (*config.ExitHoldTime).Seconds(),
	})

	if err := r.Init(); nil != err {
		return fmt.Errorf("unable to initialize renderer: %w", err)
	}

	field := render.NewField(r, th)
	engine.Start(audioFile, time.Now())

	action := judge.ActionNone
	r.RenderLoop(*config.FramePeriod, func(now time.Time, deltaTime float64) bool {
		for i := 0; i < len(keyChannel); i++ {
			key := <-keyChannel
			if key.Key == keyboard.KeyEsc {
				// The console has no key release events, so an escape
				// press exits without the hold gesture.
				engine.HoldExit(judge.ActionSelectMusic, now.Add(-time.Hour))
			}
		}

		action = engine.Update(now, deltaTime)
		if action != judge.ActionNone {
			return false
		}

		snap := engine.Snapshot()
		field.Draw(&snap)
		return true
	})

	if err := r.Deinit(); nil != err {
		log.Println("unable to restore terminal:", err)
	}

	results := engine.Results()
	if action == judge.ActionEvaluation || results.Completed {
		printEvaluation(chart, results)
		scores.Save(chart.ShortHash, score.Record{
			JudgementCounts: results.JudgementCounts,
			HoldsHeld:       results.HoldsHeld,
			RollsHeld:       results.RollsHeld,
			MinesHit:        results.MinesHit,
			MinesAvoided:    results.MinesAvoided,
			HandsAchieved:   results.HandsAchieved,
			MaxCombo:        results.MaxCombo,
			EarnedPoints:    results.EarnedPoints,
			PossiblePoints:  results.PossiblePoints,
			Percent:         results.Percent,
			Failed:          results.Failed,
			FullCombo:       results.FullCombo,
			ScrollSpeed:     results.ScrollSpeed.String(),
			Rate:            *config.Rate,
			PlayedAt:        time.Now(),
		})
	}
	return nil
}

func printEvaluation(chart *game.Chart, results judge.Results) {
	tier := score.TierFor(results.Percent, results.Failed)
	fmt.Printf("\n  %v  %.2f%%  %v\n\n", tier, results.Percent*100, chart.Difficulty.Name)

	for grade := game.Grade(0); grade < game.NumGrades; grade++ {
		fmt.Printf("  %10v  %5v\n", grade, results.JudgementCounts[grade])
	}
	fmt.Printf("\n  %10v  %v/%v\n", "Holds", results.HoldsHeld, results.HoldsTotal)
	fmt.Printf("  %10v  %v/%v\n", "Rolls", results.RollsHeld, results.RollsTotal)
	fmt.Printf("  %10v  %v/%v avoided\n", "Mines", results.MinesAvoided, results.MinesTotal)
	fmt.Printf("  %10v  %v\n", "Hands", results.HandsAchieved)
	fmt.Printf("  %10v  %v\n", "Max Combo", results.MaxCombo)
	if results.FullCombo {
		fmt.Printf("\n  Full combo (%v or better)\n", results.FullComboGrade)
	}
	if results.Failed {
		fmt.Printf("\n  \033[1;31mFailed\033[0m\n")
	}
}
