package ptimg

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/bodgit/ptimg/manifest"
	"github.com/bodgit/ptimg/tile"
)

type page struct {
	number     int
	image      []byte
	descriptor []byte
}

// Descramble decodes a scrambled page image, parses its descriptor and
// returns the reconstructed page.
func Descramble(img, descriptor []byte) (image.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, err
	}

	v, err := manifest.Parse(descriptor)
	if err != nil {
		return nil, err
	}

	return tile.Composite(src, v)
}

func (m *Ptimg) fetchPages(ctx context.Context, client *Client) (<-chan page, <-chan error, error) {
	out := make(chan page)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for n := 1; ; n++ {
			img, err := client.Page(ctx, n)
			if errors.Is(err, ErrNotFound) {
				m.logger.Printf("%d pages fetched\n", n-1)
				return
			}
			if err != nil {
				errc <- fmt.Errorf("page %d: %w", n, err)
				return
			}

			descriptor, err := client.Manifest(ctx, n)
			if err != nil {
				errc <- fmt.Errorf("page %d: %w", n, err)
				return
			}

			select {
			case out <- page{number: n, image: img, descriptor: descriptor}:
			case <-ctx.Done():
				errc <- errors.New("fetch cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (m *Ptimg) pageWorker(ctx context.Context, book int, dir string, in <-chan page) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for p := range in {
			sum := fmt.Sprintf("%x", sha1.Sum(p.image))

			path, err := m.db.FindPageBySHA1(sum)
			if err != nil {
				errc <- err
				return
			}
			if path != "" {
				m.logger.Printf("page %d already descrambled as \"%s\"\n", p.number, path)
				continue
			}

			img, err := Descramble(p.image, p.descriptor)
			if err != nil {
				errc <- fmt.Errorf("page %d: %w", p.number, err)
				return
			}

			path = filepath.Join(dir, fmt.Sprintf("%d.png", p.number))
			if err := m.SavePNG(path, img); err != nil {
				errc <- fmt.Errorf("page %d: %w", p.number, err)
				return
			}

			if err := m.db.AddPage(book, p.number, sum, path); err != nil {
				errc <- err
				return
			}

			m.logger.Printf("saved \"%s\"\n", path)
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Download fetches every page of the book behind the given viewer URL,
// descrambles them and writes the results as PNG files into a directory
// named after the book id under dir. The first failing page aborts the
// whole book.
func (m *Ptimg) Download(ctx context.Context, rawurl, dir string) error {
	base, id, err := ParseViewerURL(rawurl)
	if err != nil {
		return err
	}
	return m.download(ctx, NewClient(base, m.UserAgent), id, dir)
}

func (m *Ptimg) download(ctx context.Context, client *Client, id int, dir string) error {
	dir = filepath.Join(dir, strconv.Itoa(id))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	pages, errc, err := m.fetchPages(ctx, client)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	workers := m.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		errc, err := m.pageWorker(ctx, id, dir, pages)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return waitForPipeline(errcList...)
}
