package main

import (
	"context"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/ptimg"
	"github.com/urfave/cli/v2"
	_ "golang.org/x/image/webp"
)

const defaultDB = "ptimg.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newPtimg(c *cli.Context) (*ptimg.Ptimg, error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	m, err := ptimg.New(c.String("db"), logger)
	if err != nil {
		return nil, err
	}

	m.UserAgent = c.String("user-agent")
	m.Workers = c.Int("workers")
	m.Colors = c.Int("colors")
	m.Scale = c.Float64("scale")

	return m, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "ptimg"
	app.Usage = "Scrambled comic page downloader"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PTIMG_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to page database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
		&cli.StringFlag{
			Name:  "user-agent",
			Value: ptimg.DefaultUserAgent,
			Usage: "User-Agent header sent to the image host",
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: 4,
			Usage: "number of concurrent descramble workers",
		},
		&cli.IntFlag{
			Name:  "colors",
			Usage: "quantize saved pages to at most this many colors",
		},
		&cli.Float64Flag{
			Name:  "scale",
			Usage: "resample saved pages by this factor",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "fetch",
			Usage:       "Download and descramble a whole book",
			Description: "",
			ArgsUsage:   "URL",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "out",
					Value: cwd,
					Usage: "directory to save pages into",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newPtimg(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				if err := m.Download(context.Background(), c.Args().First(), c.String("out")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "descramble",
			Usage:       "Descramble a single local image and descriptor pair",
			Description: "",
			ArgsUsage:   "IMAGE MANIFEST OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 3 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				img, err := ioutil.ReadFile(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				descriptor, err := ioutil.ReadFile(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				out, err := ptimg.Descramble(img, descriptor)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := newPtimg(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer m.Close()

				if err := m.SavePNG(c.Args().Get(2), out); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
