package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spacesedan/mood2emoji/config"
	"github.com/spacesedan/mood2emoji/internal/app"
	"github.com/spacesedan/mood2emoji/internal/logging"
	"github.com/spacesedan/mood2emoji/internal/mood"
	"github.com/spacesedan/mood2emoji/internal/presenter"
)

func main() {
	teacher := flag.Bool("teacher", false, "show the polarity score and the teacher mode panel")
	examples := flag.Bool("examples", false, "classify the built-in quick examples")
	timeout := flag.Duration("timeout", 30*time.Second, "maximum time to wait for the analyzer")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logging.InitLogger(cfg.LogLevel)

	comps, err := app.Build(cfg)
	if err != nil {
		slog.Error("[CLI] Failed to build classifier", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer comps.Close()

	var texts []string
	switch {
	case *examples:
		for _, ex := range presenter.GetExamples().Quick {
			texts = append(texts, ex.Text)
		}
	case flag.NArg() > 0:
		texts = []string{strings.Join(flag.Args(), " ")}
	default:
		texts, err = readLines(os.Stdin)
		if err != nil {
			slog.Error("[CLI] Failed to read stdin", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	code := run(ctx, comps.Classifier, texts, *teacher, os.Stdout)
	if *teacher {
		fmt.Fprintln(os.Stdout)
		fmt.Fprint(os.Stdout, presenter.RenderTeacherPanel(presenter.GetTeacherPanel()))
	}
	if code != 0 {
		comps.Close()
		os.Exit(code)
	}
}

func run(ctx context.Context, classifier *mood.Classifier, texts []string, teacher bool, out io.Writer) int {
	if len(texts) == 0 {
		texts = []string{""}
	}

	for i, text := range texts {
		res, err := classifier.Classify(ctx, text)
		if err != nil {
			if errors.Is(err, mood.ErrOracleUnavailable) {
				fmt.Fprintln(out, "The mood analyzer is unavailable right now.")
			}
			slog.Error("[CLI] Classification failed", slog.String("error", err.Error()))
			return 1
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, presenter.RenderText(presenter.Build(res, text, teacher)))
	}
	return 0
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
