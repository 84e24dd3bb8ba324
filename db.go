package ptimg

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// PageDB records every page that has been successfully descrambled so
// that an interrupted download can be resumed without redoing work.
// Pages are keyed by the SHA1 of the scrambled source image rather than
// by page number since books are occasionally renumbered.
type PageDB struct {
	db *sql.DB
}

// NewPageDB opens, creating if necessary, the database at the given
// path.
func NewPageDB(file string) (*PageDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS page (id INTEGER PRIMARY KEY NOT NULL, book INTEGER NOT NULL, page INTEGER NOT NULL, sha1 TEXT NOT NULL UNIQUE, path TEXT NOT NULL)"); err != nil {
		return nil, err
	}

	return &PageDB{
		db: db,
	}, nil
}

// FindPageBySHA1 returns the output path previously recorded for the
// given source image checksum, or the empty string if there is none.
func (d *PageDB) FindPageBySHA1(sum string) (string, error) {
	var path string
	switch err := d.db.QueryRow("SELECT path FROM page WHERE sha1 = ?", sum).Scan(&path); err {
	case sql.ErrNoRows:
		return "", nil
	case nil:
		return path, nil
	default:
		return "", err
	}
}

// AddPage records a freshly descrambled page.
func (d *PageDB) AddPage(book, page int, sum, path string) error {
	_, err := d.db.Exec("INSERT INTO page (book, page, sha1, path) VALUES (?, ?, ?, ?)", book, page, sum, path)
	return err
}

// Close closes the underlying database.
func (d *PageDB) Close() error {
	return d.db.Close()
}
