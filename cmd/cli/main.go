package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-analyzer/internal/config"
	"github.com/dvloznov/statement-analyzer/internal/docsource"
	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/extraction"
	"github.com/dvloznov/statement-analyzer/internal/logger"
	"github.com/dvloznov/statement-analyzer/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze()
	case "categories":
		runCategories()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Bank Statement Analyzer CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze     Extract and categorize transactions from a PDF statement")
	fmt.Println("  categories  List the transaction categories")
	fmt.Println("  help        Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze() {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to a local PDF statement")
	gcsURI := fs.String("gcs-uri", "", "GCS URI of the statement PDF (gs://bucket/object.pdf)")
	asJSON := fs.Bool("json", false, "Print transactions as JSON")
	fs.Parse(os.Args[2:])

	cfg := config.Load()

	// Logs go to stderr so stdout stays clean for -json.
	log, err := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid logging configuration: %v\n", err)
		os.Exit(1)
	}

	if (*filePath == "") == (*gcsURI == "") {
		log.Fatal().Msg("Usage: cli analyze (-file PATH | -gcs-uri gs://BUCKET/OBJECT) [-json]")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ExtractionTimeout+time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	doc, err := loadDocument(ctx, cfg, *filePath, *gcsURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read statement")
	}

	client, err := extraction.NewGeminiClient(ctx, extraction.GeminiConfig{
		APIKey:      cfg.GeminiAPIKey,
		UseVertexAI: cfg.UseVertexAI,
		Project:     cfg.GCPProject,
		Location:    cfg.GCPLocation,
		APIVersion:  cfg.GeminiAPIVersion,
		Timeout:     cfg.ExtractionTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	sess := session.New("cli", extraction.NewExtractor(client.Models, cfg.GeminiModel))
	upload := session.Upload{Name: doc.Name, MIMEType: doc.MIMEType, Data: doc.Data}

	if err := sess.Analyze(ctx, upload); err != nil {
		v := sess.Snapshot()
		exitWithError(log, v.Error, err)
	}

	v := sess.Snapshot()
	if *asJSON {
		if err := writeJSON(os.Stdout, v.Transactions); err != nil {
			log.Fatal().Err(err).Msg("Failed to write JSON")
		}
		return
	}
	printAnalysis(os.Stdout, v)
}

func loadDocument(ctx context.Context, cfg *config.Config, filePath, gcsURI string) (docsource.Document, error) {
	if filePath != "" {
		return docsource.FileLoader{}.Load(ctx, filePath)
	}

	loader, err := docsource.NewGCSLoader(ctx, cfg.GCSCredentialsFile)
	if err != nil {
		return docsource.Document{}, err
	}
	defer loader.Close()

	return loader.Load(ctx, gcsURI)
}

func exitWithError(log zerolog.Logger, message string, err error) {
	log.Error().Err(err).Str("kind", string(extraction.KindOf(err))).Msg("Analysis failed")
	if message == "" {
		message = err.Error()
	}
	color.New(color.FgRed).Fprintln(os.Stderr, message)
	os.Exit(1)
}

type transactionJSON struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
}

func writeJSON(w io.Writer, txs []domain.Transaction) error {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, transactionJSON{
			Date:        t.Date.String(),
			Description: t.Description,
			Amount:      json.Number(t.Amount.String()),
			Category:    t.Category.String(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printAnalysis(w io.Writer, v session.View) {
	red := color.New(color.FgRed).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", bold("=== Transaction Analysis ==="))
	fmt.Fprintf(w, "Analysis for %s\n\n", v.FileName)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDESCRIPTION\tCATEGORY\tAMOUNT")
	for _, t := range v.Transactions {
		amount := domain.FormatUSD(t.Amount)
		if t.Amount.IsNegative() {
			amount = red(amount)
		} else {
			amount = green(amount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Date, t.Description, t.Category, amount)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d transactions\n", v.Summary.Count)
	fmt.Fprintf(w, "Total Expenses: %s\n", red(domain.FormatUSD(v.Summary.TotalExpenses)))
	fmt.Fprintf(w, "Total Income:   %s\n", green(domain.FormatUSD(v.Summary.TotalIncome)))

	if len(v.Summary.ByCategory) > 0 {
		fmt.Fprintf(w, "\n%s\n", bold("By category:"))
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, ct := range v.Summary.ByCategory {
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", ct.Category, ct.Count, domain.FormatUSD(ct.Total))
		}
		tw.Flush()
	}
}

func runCategories() {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	for _, name := range domain.CategoryNames() {
		fmt.Println(name)
	}
}
