package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"reviewexplorer/desktop/explorer"
)

type cliOptions struct {
	configPath string
	apiURL     string
	query      string
	refresh    bool
	verbose    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		log.Fatalf("reviewexplorer-cli: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("reviewexplorer-cli: %v", err)
	}
}

func parseFlags() (cliOptions, error) {
	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to config.json (default: ./config.json)")
	flag.StringVar(&opts.apiURL, "api", "", "Analytics service base URL (overrides config)")
	flag.StringVar(&opts.query, "query", "", "School name to analyze")
	flag.BoolVar(&opts.refresh, "refresh", false, "Drop and re-collect the reviews before analyzing")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --query NAME [options]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	opts.query = strings.TrimSpace(opts.query)
	if opts.query == "" && flag.NArg() > 0 {
		opts.query = strings.TrimSpace(strings.Join(flag.Args(), " "))
	}
	if opts.query == "" {
		flag.Usage()
		return opts, errors.New("missing required --query")
	}
	return opts, nil
}

func run(opts cliOptions) error {
	cfg, err := explorer.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.apiURL != "" {
		cfg.APIBaseURL = opts.apiURL
	}

	logger := zap.NewNop()
	if opts.verbose {
		logger, _ = zap.NewDevelopment()
	}

	client := explorer.NewClient(cfg.APIBaseURL, logger)
	ctx := context.Background()

	if opts.refresh {
		fmt.Println("Обновление отзывов...")
		if err := client.Refresh(ctx, opts.query); err != nil {
			return fmt.Errorf("refresh reviews: %w", err)
		}
	}

	view := newTextView(os.Stdout)
	session := explorer.NewSession(client, view, view, nil, logger)
	session.Submit(opts.query)

	<-view.done
	return view.err
}

// textView renders an analysis as plain text. It implements both the
// session's View and its Renderer, so the CLI exercises the exact pipeline
// the desktop UI does.
type textView struct {
	out       io.Writer
	done      chan struct{}
	err       error
	remaining int
}

func newTextView(out io.Writer) *textView {
	return &textView{out: out, done: make(chan struct{})}
}

func (v *textView) AnalysisStarted(query string) {
	fmt.Fprintf(v.out, "Анализ: %s\n", query)
}

func (v *textView) AnalysisFailed(message string) {
	v.err = errors.New(message)
	close(v.done)
}

func (v *textView) AnalysisReady(result *explorer.AnalysisResult) {
	fmt.Fprintf(v.out, "Школа: %s\n", result.SchoolName)
	fmt.Fprintf(v.out, "Отзывы: всего %d | позитив %d | негатив %d | нейтрал %d\n",
		result.Stats.Total, result.Stats.Positive, result.Stats.Negative, result.Stats.Neutral)
	v.remaining = len(result.Analytics)
	if v.remaining == 0 {
		close(v.done)
	}
}

func (v *textView) ShowReviews(string, []string) {}

func (v *textView) Render(_ int, data explorer.ChartData, _ explorer.SelectFunc) explorer.ChartHandle {
	fmt.Fprintf(v.out, "\n== %s ==\n", data.Title)
	for i, label := range data.Labels {
		switch data.Kind {
		case explorer.KindStackedBars:
			fmt.Fprintf(v.out, "  %-32s +%.0f / -%.0f\n", label, data.Primary[i], data.Secondary[i])
		case explorer.KindLine:
			fmt.Fprintf(v.out, "  %-32s %.1f\n", label, data.Primary[i])
		default:
			fmt.Fprintf(v.out, "  %-32s %.0f\n", label, data.Primary[i])
		}
	}
	v.remaining--
	if v.remaining == 0 {
		close(v.done)
	}
	return textChart{}
}

type textChart struct{}

func (textChart) Close() {}
