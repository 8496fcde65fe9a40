package parser

import "git.lost.host/meutraa/groove/internal/game"

type Parser interface {
	Parse(file string) ([]*game.Chart, error)
}
