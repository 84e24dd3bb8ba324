/*
Package ptimg downloads and reconstructs scrambled comic pages.

Each page is published as a scrambled image alongside a ptimg JSON
descriptor; the descriptor is decoded by package manifest and the page
reassembled by package tile. The plumbing here fetches the pairs,
descrambles them concurrently and writes the results out as PNG files,
keeping a small database of already-processed pages so that an
interrupted download can be resumed.
*/
package ptimg

import "log"

// Ptimg ties the page database and logger together with the settings
// used when downloading and saving pages.
type Ptimg struct {
	db     *PageDB
	logger *log.Logger

	// UserAgent is sent with every request; if empty DefaultUserAgent
	// is used.
	UserAgent string
	// Workers is the number of concurrent descramble workers used by
	// Download.
	Workers int
	// Colors, if greater than zero, quantizes saved pages to at most
	// this many colors.
	Colors int
	// Scale, if set and not one, resamples saved pages by this factor.
	Scale float64
}

// New opens the page database at the given path and returns a new
// Ptimg using it.
func New(db string, logger *log.Logger) (*Ptimg, error) {
	pageDB, err := NewPageDB(db)
	if err != nil {
		return nil, err
	}

	return &Ptimg{
		db:      pageDB,
		logger:  logger,
		Workers: 4,
	}, nil
}

// Close closes the underlying page database.
func (m *Ptimg) Close() error {
	return m.db.Close()
}
