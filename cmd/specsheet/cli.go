package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/specsheet"
	"github.com/fwojciec/specsheet/ingest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Products specsheet.ProductService
	Ingester *ingest.Ingester
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" default:"${db}" help:"SQLite database file (env SPECSHEET_DB)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Process  ProcessCmd  `cmd:"" help:"Extract products from a directory of PDFs"`
	Query    QueryCmd    `cmd:"" help:"Query stored products and specs"`
	Show     ShowCmd     `cmd:"" help:"Show a stored product with all its specs"`
	Coverage CoverageCmd `cmd:"" help:"Count stored rows per spec key"`
}

// ProcessCmd is the "process" subcommand.
type ProcessCmd struct {
	Dir         string `arg:"" help:"Directory containing PDFs"`
	JSONL       string `name:"jsonl" default:"${jsonl}" help:"Write products as JSON Lines to this file (env SPECSHEET_JSONL)"`
	XLSX        string `name:"xlsx" help:"Write products to an Excel workbook"`
	KeepUnknown bool   `help:"Store a placeholder product for unrecognized PDFs"`
	DumpText    string `name:"dump-text" help:"Write the extracted text of each PDF to this directory"`
}

// QueryCmd groups the query subcommands.
type QueryCmd struct {
	Model QueryModelCmd `cmd:"" help:"Find products by model number or ordering code"`
	Brand QueryBrandCmd `cmd:"" help:"Find products by brand"`
	Spec  QuerySpecCmd  `cmd:"" help:"Find products by numeric spec value"`
	Text  QueryTextCmd  `cmd:"" help:"Find products by text spec value"`
	Code  QueryCodeCmd  `cmd:"" help:"List all specs of an ordering code"`
}

// QueryModelCmd is the "query model" subcommand.
type QueryModelCmd struct {
	Model string `arg:"" help:"Model number or ordering code (case-insensitive)"`
}

// QueryBrandCmd is the "query brand" subcommand.
type QueryBrandCmd struct {
	Brand string `arg:"" help:"Brand name (case-insensitive)"`
}

// QuerySpecCmd is the "query spec" subcommand.
type QuerySpecCmd struct {
	Key   string  `arg:"" help:"Spec key, e.g. rated_voltage_v"`
	Op    string  `default:">=" help:"Comparison operator: =, !=, <, <=, >, >="`
	Value float64 `required:"" help:"Value to compare against"`
}

// QueryTextCmd is the "query text" subcommand.
type QueryTextCmd struct {
	Key      string `arg:"" help:"Spec key, e.g. ip_rating"`
	Contains string `xor:"match" help:"Match values containing this text"`
	Equals   string `xor:"match" help:"Match values equal to this text (case-insensitive)"`
}

// QueryCodeCmd is the "query code" subcommand.
type QueryCodeCmd struct {
	Code string `arg:"" help:"Ordering code or model number"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Product ID"`
}

// CoverageCmd is the "coverage" subcommand.
type CoverageCmd struct{}
