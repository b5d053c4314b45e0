package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/henne90gen/dfplot/internal/chart"
	"github.com/henne90gen/dfplot/internal/chartspec"
	"github.com/henne90gen/dfplot/internal/frame"
	"github.com/henne90gen/dfplot/internal/observability"
	"github.com/henne90gen/dfplot/internal/sentryext"
	"github.com/henne90gen/dfplot/internal/svg"
	"github.com/henne90gen/dfplot/internal/tui"
	"github.com/henne90gen/dfplot/internal/version"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	exitCode := mainWithExitCode()
	os.Exit(exitCode)
}

func mainWithExitCode() int {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dfplot - declarative charts for the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Renders a YAML chart definition as a live-updating terminal chart\n")
		fmt.Fprintf(os.Stderr, "or as an SVG document.\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  dfplot [flags] <chart.yaml>\n\n")
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  <chart.yaml>          Path to a chart definition, or a directory\n")
		fmt.Fprintf(os.Stderr, "                        containing exactly one .yaml file\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fmt.Fprintf(os.Stderr, "  -export <path>        Render the chart to an SVG file and exit\n")
		fmt.Fprintf(os.Stderr, "  -data <path>          Read data from this file instead of the one\n")
		fmt.Fprintf(os.Stderr, "                        named by the chart definition\n")
		fmt.Fprintf(os.Stderr, "  -version              Print the version and exit\n\n")
		fmt.Fprintf(os.Stderr, "Environment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DFPLOT_DEBUG            Enable debug logging (creates dfplot.debug.log)\n")
		fmt.Fprintf(os.Stderr, "  DFPLOT_ERROR_REPORTING  Set to false to disable error reporting\n")
		fmt.Fprintf(os.Stderr, "  DFPLOT_CONFIG_DIR       Override the config directory\n")
	}

	exportPath := flag.String("export", "", "render the chart to an SVG file and exit")
	dataPath := flag.String("data", "", "read data from this file instead of the one named by the chart definition")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dfplot %s\n", version.Version)
		return 0
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return 1
	}

	// Sentry reporting.
	enableErrorReporting := true
	if os.Getenv("DFPLOT_ERROR_REPORTING") != "" {
		enableErrorReporting, _ = strconv.ParseBool(os.Getenv("DFPLOT_ERROR_REPORTING"))
	}

	sentryClient := sentryext.New(sentryext.Params{
		Disabled:         !enableErrorReporting,
		DSN:              os.Getenv("DFPLOT_SENTRY_DSN"),
		AttachStacktrace: true,
		Release:          version.Version,
		Environment:      version.Environment,
	})
	defer sentryClient.Flush(2 * time.Second)

	// Enable debug logging if DFPLOT_DEBUG env var is set.
	var writer io.Writer
	if os.Getenv("DFPLOT_DEBUG") != "" {
		loggerFile, err := os.OpenFile("dfplot.debug.log", os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			fmt.Println("fatal:", err)
			return 1
		}
		writer = loggerFile
		defer func() {
			_ = loggerFile.Close()
		}()
	} else {
		writer = io.Discard
	}

	logger := observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(
			writer,
			&slog.HandlerOptions{
				Level: slog.LevelDebug,
			},
		)),
		&observability.CoreLoggerParams{
			Tags:   observability.Tags{},
			Sentry: sentryClient,
		},
	)

	specPath, err := findSpecFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fsys := afero.NewOsFs()

	if *exportPath != "" {
		if err := exportSVG(fsys, specPath, *dataPath, *exportPath); err != nil {
			logger.Error(fmt.Sprintf("dfplot: %v", err))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("exported %s\n", *exportPath)
		return 0
	}

	config := tui.NewConfigManager(tui.ConfigPath(), logger)
	model := tui.NewModel(specPath, *dataPath, fsys, config, logger)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		logger.Error(fmt.Sprintf("dfplot: %v", err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// exportSVG renders the chart definition headlessly.
func exportSVG(fsys afero.Fs, specPath, dataPath, outPath string) error {
	spec, err := chartspec.Load(fsys, specPath)
	if err != nil {
		return err
	}

	var data frame.Frame[frame.Row]
	if dataPath != "" {
		data, err = spec.LoadDataFrom(fsys, dataPath)
	} else {
		data, err = spec.LoadData(fsys, specPath)
	}
	if err != nil {
		return err
	}
	if err := spec.CheckColumns(data); err != nil {
		return err
	}

	doc := svg.Render(chart.New(spec.Config(data)), svg.Options{Title: spec.Title})
	return afero.WriteFile(fsys, outPath, []byte(doc), 0o644)
}

// findSpecFile resolves the chart definition path. A directory is
// accepted when it contains exactly one .yaml or .yml file.
func findSpecFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("cannot read directory: %w", err)
	}

	var specs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			specs = append(specs, name)
		}
	}

	if len(specs) == 0 {
		return "", fmt.Errorf("no chart definition found in directory: %s", path)
	}
	if len(specs) > 1 {
		return "", fmt.Errorf("multiple chart definitions found in directory: %s", path)
	}

	return filepath.Join(path, specs[0]), nil
}
