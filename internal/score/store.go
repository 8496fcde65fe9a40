package score

import (
	"database/sql"
	"log"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "github.com/mattn/go-sqlite3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one finished play of one chart.
type Record struct {
	JudgementCounts []int
	HoldsHeld       int
	RollsHeld       int
	MinesHit        int
	MinesAvoided    int
	HandsAchieved   int
	MaxCombo        int
	EarnedPoints    int
	PossiblePoints  int
	Percent         float64
	Failed          bool
	FullCombo       bool
	ScrollSpeed     string
	Rate            float64
	PlayedAt        time.Time
}

type History struct {
	Sum    string
	Record Record
}

type Store interface {
	Init() error
	Deinit()

	// Save the result of this performance
	Save(sum string, record Record)

	// Load up previous results for the chart
	Load(sum string) []History

	// Best returns the highest scoring prior play, if any
	Best(sum string) (Record, bool)
}

type DefaultStore struct {
	db   *sql.DB
	path string
}

func NewStore(path string) *DefaultStore {
	if path == "" {
		path = "./scores.db"
	}
	return &DefaultStore{path: path}
}

func (s *DefaultStore) Init() error {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists scores
	  (
		  id integer not null primary key,
		  sum text,
		  percent real,
		  record bytearray
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		return err
	}

	s.db = db
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *DefaultStore) Save(sum string, record Record) {
	data, err := json.Marshal(record)
	if nil != err {
		log.Println("unable to marshal record", err)
		return
	}
	_, err = s.db.Exec("insert into scores(sum, percent, record) values(?, ?, ?)",
		sum, record.Percent, data)
	if nil != err {
		log.Println("unable to save score", err)
		return
	}
}

func (s *DefaultStore) Load(sum string) []History {
	histories := []History{}
	rows, err := s.db.Query("select sum, record from scores where sum = ?", sum)
	if nil != err && err != sql.ErrNoRows {
		log.Println("unable to load scores", err)
		return histories
	}
	defer rows.Close()
	for rows.Next() {
		var recordSum string
		var data []byte
		rows.Scan(&recordSum, &data)
		var record Record
		err := json.Unmarshal(data, &record)
		if nil != err {
			log.Println("unable to unmarshal record history")
			continue
		}
		histories = append(histories, History{Sum: recordSum, Record: record})
	}
	return histories
}

func (s *DefaultStore) Best(sum string) (Record, bool) {
	var data []byte
	err := s.db.QueryRow(
		"select record from scores where sum = ? order by percent desc limit 1", sum).
		Scan(&data)
	if nil != err {
		if err != sql.ErrNoRows {
			log.Println("unable to load best score", err)
		}
		return Record{}, false
	}
	var record Record
	if err := json.Unmarshal(data, &record); nil != err {
		log.Println("unable to unmarshal best record")
		return Record{}, false
	}
	return record, true
}
