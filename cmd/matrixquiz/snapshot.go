package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-matrixquiz/internal/linalg"
	"github.com/opd-ai/go-matrixquiz/pkg/matrixquiz"
)

type snapshotOptions struct {
	configPath string
	out        string
	which      string
	guess      string
	secret     string
	seed       int64
}

func snapshotCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render one plane to a PNG file without opening a window",
		Example: `  matrixquiz snapshot --seed 3 --which secret --out secret.png
  matrixquiz snapshot --which guess --guess 2,1,-1,3 --out - > guess.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(opts, stdout, stderr)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Lua configuration file (defaults when empty)")
	f.StringVarP(&opts.out, "out", "o", "plane.png", `output file, "-" for stdout`)
	f.StringVar(&opts.which, "which", "secret", "plane to render: secret or guess")
	f.StringVar(&opts.guess, "guess", "", "guess entries a,b,c,d in row-major order")
	f.StringVar(&opts.secret, "secret", "", "secret entries a,b,c,d instead of a sampled matrix")
	f.Int64Var(&opts.seed, "seed", 0, "seed for the sampled secret (0 = config)")
	return cmd
}

func runSnapshot(opts *snapshotOptions, stdout, stderr io.Writer) error {
	which, err := matrixquiz.ParsePlane(opts.which)
	if err != nil {
		return err
	}

	qopts := matrixquiz.DefaultOptions()
	qopts.Headless = true
	qopts.Seed = opts.seed
	qopts.Metrics = matrixquiz.NewMetrics()
	qopts.Logger = matrixquiz.TextLogger(stderr, slog.LevelWarn)

	q, err := matrixquiz.New(opts.configPath, &qopts)
	if err != nil {
		return err
	}
	session := q.Session()

	if opts.secret != "" {
		m, err := linalg.ParseMatrix(opts.secret)
		if err != nil {
			return fmt.Errorf("--secret: %w", err)
		}
		session.SetSecret(m)
	}
	if opts.guess != "" {
		m, err := linalg.ParseMatrix(opts.guess)
		if err != nil {
			return fmt.Errorf("--guess: %w", err)
		}
		for r := 0; r < linalg.Size; r++ {
			for c := 0; c < linalg.Size; c++ {
				if err := session.EditCell(r, c, linalg.FormatEntry(m[r][c])); err != nil {
					return err
				}
			}
		}
	}

	if opts.out == "-" {
		w := bufio.NewWriter(stdout)
		if err := q.Snapshot(w, which); err != nil {
			return err
		}
		return w.Flush()
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := q.Snapshot(f, which); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	view := session.Snapshot()
	m := view.Secret
	if which == matrixquiz.GuessPlane {
		m = view.Guess
	}
	fmt.Fprintf(stderr, "wrote %s plane %s to %s\n", which, m, opts.out)
	return nil
}
