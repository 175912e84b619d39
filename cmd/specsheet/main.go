package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/specsheet"
	"github.com/fwojciec/specsheet/classify"
	"github.com/fwojciec/specsheet/fs"
	"github.com/fwojciec/specsheet/ingest"
	"github.com/fwojciec/specsheet/jsonl"
	"github.com/fwojciec/specsheet/parse"
	"github.com/fwojciec/specsheet/pdf"
	"github.com/fwojciec/specsheet/pdfcpu"
	specslog "github.com/fwojciec/specsheet/slog"
	"github.com/fwojciec/specsheet/sqlite"
	"github.com/fwojciec/specsheet/xlsx"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// LoadEnv loads environment variables from the given files, or .env when
// none are given. Missing files are ignored.
func LoadEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// Main represents the program.
type Main struct {
	// Default database path, overridden by --db. Set before calling Run().
	DBPath string

	// Default JSONL output, overridden by --jsonl. Empty disables export.
	JSONLPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ProductService specsheet.ProductService
}

// NewMain returns a new instance of Main with defaults from the environment.
func NewMain() *Main {
	return &Main{
		DBPath:    defaultDBPath(),
		JSONLPath: os.Getenv("SPECSHEET_JSONL"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("specsheet"),
		kong.Description("Extract product specifications from vendor PDFs into SQLite."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"db": m.DBPath, "jsonl": m.JSONLPath},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'specsheet --help' to see available commands")
	}

	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Use --db or set SPECSHEET_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
	}
	defer m.Close()

	m.ProductService = specslog.NewLoggingProductService(sqlite.NewProductService(m.DB), logger)
	deps.Products = m.ProductService

	if kongCtx.Command() == "process <dir>" {
		deps.Ingester = m.newIngester(&cli.Process, logger)
	}

	return kongCtx.Run(deps)
}

// newIngester wires the extraction pipeline for the process command.
func (m *Main) newIngester(cmd *ProcessCmd, logger *slog.Logger) *ingest.Ingester {
	extractor := ingest.NewFallbackExtractor(
		specslog.NewLoggingTextExtractor(pdf.NewExtractor(), logger.With("extractor", "pdf")),
		specslog.NewLoggingTextExtractor(pdfcpu.NewExtractor(), logger.With("extractor", "pdfcpu")),
	)

	var exporters []specsheet.Exporter
	if cmd.JSONL != "" {
		exporters = append(exporters, specslog.NewLoggingExporter(jsonl.NewExporter(cmd.JSONL), cmd.JSONL, logger))
	}
	if cmd.XLSX != "" {
		exporters = append(exporters, specslog.NewLoggingExporter(xlsx.NewExporter(cmd.XLSX), cmd.XLSX, logger))
	}

	ing := &ingest.Ingester{
		Extractor:   extractor,
		Classifier:  specslog.NewLoggingClassifier(classify.NewClassifier(), logger),
		Parsers:     specslog.NewLoggingRegistry(parse.NewDefaultRegistry(), logger),
		Products:    m.ProductService,
		Exporters:   exporters,
		Logger:      logger,
		KeepUnknown: cmd.KeepUnknown,
	}
	if cmd.DumpText != "" {
		ing.Texts = fs.NewTextStore(cmd.DumpText)
	}
	return ing
}

func defaultDBPath() string {
	if path := os.Getenv("SPECSHEET_DB"); path != "" {
		return path
	}
	return "products.sqlite"
}
