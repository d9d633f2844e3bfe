// Command autochart ingests one data file and writes the automatically
// selected chart as an image, without the web UI.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/autochart/internal/config"
	"github.com/JonMunkholm/autochart/internal/core"
	"github.com/JonMunkholm/autochart/internal/logging"
	"github.com/JonMunkholm/autochart/internal/render"
	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

func main() {
	// .env only fills unset variables here; flags still win.
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints usage errors verbatim and pass errors as the user
// message plus the troubleshooting tips.
func reportError(w io.Writer, err error) {
	if errors.Is(err, errUsage) {
		fmt.Fprintln(w, "autochart:", err)
		return
	}
	fmt.Fprintln(w, core.FormatUserError(err))
	slog.Debug("pass failed", "error", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, "Troubleshooting Tips:")
		for _, tip := range core.TroubleshootingTips {
			fmt.Fprintln(w, "  -", tip)
		}
	}
}

var errUsage = errors.New("usage")

type chartOptions struct {
	file        string
	out         string
	stdout      bool
	format      string
	categorical string
	continuous  string
	width       int
	height      int
	maxSize     sizeFlag
}

// sizeFlag lets --max-size take "50MiB" as well as a byte count.
type sizeFlag struct{ config.ByteSize }

func (f *sizeFlag) Set(s string) error {
	n, err := config.ParseByteSize(s)
	if err != nil {
		return err
	}
	f.ByteSize = n
	return nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	app := kingpin.New("autochart", "Pick and draw a chart for a csv, xls, xlsx or sql file.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.Terminate(func(int) {})

	logLevel := app.Flag("log-level", "Log level: debug, info, warn, error.").Default("warn").Envar("LOG_LEVEL").String()
	logFormat := app.Flag("log-format", "Log format: text or json.").Default("text").Envar("LOG_FORMAT").String()

	var opts chartOptions
	chartCmd := app.Command("chart", "Write the selected chart to an image file.").Default()
	chartCmd.Arg("file", "Input data file.").Required().ExistingFileVar(&opts.file)
	chartCmd.Flag("out", "Output path. Defaults to the input name with the image extension.").Short('o').StringVar(&opts.out)
	chartCmd.Flag("stdout", "Write the image to stdout instead of a file.").BoolVar(&opts.stdout)
	chartCmd.Flag("format", "Image format.").Short('f').Default("png").EnumVar(&opts.format, "png", "svg")
	addThemeFlags(chartCmd, &opts)
	chartCmd.Flag("width", "Image width in pixels.").Default("960").Envar("RENDER_WIDTH").IntVar(&opts.width)
	chartCmd.Flag("height", "Image height in pixels.").Default("540").Envar("RENDER_HEIGHT").IntVar(&opts.height)

	var inspectOpts chartOptions
	inspectCmd := app.Command("inspect", "Print the column classification and chart spec as JSON.")
	inspectCmd.Arg("file", "Input data file.").Required().ExistingFileVar(&inspectOpts.file)
	addThemeFlags(inspectCmd, &inspectOpts)

	themesCmd := app.Command("themes", "List the color themes.")

	command, err := app.Parse(args)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	slog.SetDefault(logging.New(stderr, *logLevel, *logFormat))

	switch command {
	case chartCmd.FullCommand():
		return runChart(ctx, opts, stdout)
	case inspectCmd.FullCommand():
		return runInspect(ctx, inspectOpts, stdout)
	case themesCmd.FullCommand():
		return runThemes(stdout)
	}
	return nil
}

func addThemeFlags(cmd *kingpin.CmdClause, opts *chartOptions) {
	cmd.Flag("categorical", "Categorical color theme.").Default(core.DefaultCategoricalTheme).Envar("THEME_CATEGORICAL").StringVar(&opts.categorical)
	cmd.Flag("continuous", "Continuous color gradient.").Default(core.DefaultContinuousTheme).Envar("THEME_CONTINUOUS").StringVar(&opts.continuous)
	cmd.Flag("max-size", "Largest accepted input in bytes.").Default("50MiB").Envar("UPLOAD_MAX_FILE_SIZE").SetValue(&opts.maxSize)
}

// analyze runs one pass over the file named in opts.
func analyze(ctx context.Context, opts chartOptions) (*core.PassResult, error) {
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return nil, err
	}
	svc := core.NewService(core.Options{MaxFileSize: int64(opts.maxSize.ByteSize)})
	return svc.Analyze(ctx, core.NewSession(opts.categorical, opts.continuous), core.Upload{
		FileName: filepath.Base(opts.file),
		Data:     data,
	})
}

func runChart(ctx context.Context, opts chartOptions, stdout io.Writer) error {
	res, err := analyze(ctx, opts)
	if err != nil {
		return err
	}
	if !res.HasChart {
		slog.Warn("no chart applies to this file",
			"categorical", len(res.Classification.Categorical),
			"numeric", len(res.Classification.Numeric),
		)
		return nil
	}

	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	ropts := render.Options{Width: opts.width, Height: opts.height}
	if err := render.RenderWithOptions(&buf, res.Chart, res.Dataset, format, ropts); err != nil {
		if errors.Is(err, render.ErrNoData) {
			slog.Warn("no plottable values for the selected chart", "kind", res.Chart.Kind)
			return nil
		}
		return err
	}

	if opts.stdout {
		_, err := buf.WriteTo(stdout)
		return err
	}

	out := opts.out
	if out == "" {
		out = strings.TrimSuffix(opts.file, filepath.Ext(opts.file)) + "." + string(format)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return err
	}
	slog.Info("chart written",
		"path", out,
		"kind", res.Chart.Kind,
		"rows", res.Dataset.NumRows(),
		"size", humanize.Bytes(uint64(buf.Len())),
	)
	return nil
}

// inspectOutput is what `autochart inspect` prints.
type inspectOutput struct {
	File           string              `json:"file"`
	Format         string              `json:"format"`
	Rows           int                 `json:"rows"`
	Classification core.Classification `json:"classification"`
	Chart          *core.ChartSpec     `json:"chart,omitempty"`
	Empty          bool                `json:"empty,omitempty"`
}

func runInspect(ctx context.Context, opts chartOptions, stdout io.Writer) error {
	res, err := analyze(ctx, opts)
	if res == nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(inspectOutput{
		File:           res.FileName,
		Format:         res.Format,
		Rows:           res.Dataset.NumRows(),
		Classification: res.Classification,
		Chart:          res.Chart,
		Empty:          res.Empty,
	}); encErr != nil {
		return encErr
	}
	return err
}

func runThemes(stdout io.Writer) error {
	for _, name := range core.CategoricalThemes() {
		fmt.Fprintf(stdout, "categorical\t%s\t%s\n", name, strings.Join(core.CategoricalColors(name), " "))
	}
	for _, name := range core.ContinuousThemes() {
		fmt.Fprintf(stdout, "continuous\t%s\t%s\n", name, strings.Join(core.ContinuousColors(name), " "))
	}
	return nil
}
