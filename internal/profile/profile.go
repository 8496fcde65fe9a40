package profile

import (
	"database/sql"
	"log"

	"git.lost.host/meutraa/groove/internal/scroll"
	_ "github.com/mattn/go-sqlite3"
)

// Profile is the player's stored preferences.
type Profile struct {
	Name        string
	ScrollSpeed scroll.Setting
}

type Service interface {
	Init() error
	Deinit()

	// Load the single local profile, creating it on first run
	Load() Profile

	Save(p Profile)
}

type DefaultService struct {
	db   *sql.DB
	path string
}

func NewService(path string) *DefaultService {
	if path == "" {
		path = "./profile.db"
	}
	return &DefaultService{path: path}
}

func (s *DefaultService) Init() error {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists profile
	  (
		  id integer not null primary key,
		  name text,
		  scroll_speed text
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultService) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *DefaultService) Load() Profile {
	p := Profile{Name: "player", ScrollSpeed: scroll.Default()}

	var name, speed string
	err := s.db.QueryRow("select name, scroll_speed from profile where id = 1").
		Scan(&name, &speed)
	if err == sql.ErrNoRows {
		s.Save(p)
		return p
	}
	if nil != err {
		log.Println("unable to load profile", err)
		return p
	}

	if name != "" {
		p.Name = name
	}
	if setting, err := scroll.FromString(speed); nil == err {
		p.ScrollSpeed = setting
	}
	return p
}

func (s *DefaultService) Save(p Profile) {
	_, err := s.db.Exec(
		"insert into profile(id, name, scroll_speed) values(1, ?, ?) "+
			"on conflict(id) do update set name = ?, scroll_speed = ?",
		p.Name, p.ScrollSpeed.String(), p.Name, p.ScrollSpeed.String())
	if nil != err {
		log.Println("unable to save profile", err)
	}
}
