package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/mhafuz/receipt-ledger/internal/ledger"
	"github.com/mhafuz/receipt-ledger/internal/receipt"
	"github.com/mhafuz/receipt-ledger/internal/scanning"
)

func main() {
	fs := ff.NewFlagSet("receipt-batch")
	var (
		dbPath      = fs.StringLong("db", "receipt-ledger.db", "Archive database file path")
		storagePath = fs.StringLong("storage", "./receipts", "Storage directory path")
		scannerType = fs.StringLong("scanner", "gemini", "Scanner type: 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name")
		credentials = fs.StringLong("sheets-credentials", "service_account.json", "Google service account credentials file")
		sheetID     = fs.StringLong("sheet-id", "", "Google Sheets spreadsheet ID for the ledger")
		workers     = fs.IntLong("workers", 3, "Number of receipts to process concurrently")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_LEDGER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	paths := fs.GetArgs()
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: no receipt files given")
		os.Exit(1)
	}

	if *sheetID == "" {
		slog.Error("Spreadsheet ID is required. Set --sheet-id flag or RECEIPT_LEDGER_SHEET_ID environment variable")
		os.Exit(1)
	}

	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var scanner scanning.Scanner
	switch *scannerType {
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		scanner, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		scanner, err = scanning.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid scanner type", "type", *scannerType, "valid", "gemini or ollama")
		os.Exit(1)
	}
	defer scanner.Close()

	store, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	sheet, err := ledger.NewSheets(context.Background(), *credentials, *sheetID)
	if err != nil {
		slog.Error("Failed to initialize spreadsheet ledger", "error", err)
		os.Exit(1)
	}

	service := receipt.NewService(db, scanner, store, sheet)

	files := make([]receipt.BatchFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Error("Failed to read receipt file", "path", path, "error", err)
			os.Exit(1)
		}
		files = append(files, receipt.BatchFile{
			Filename:    filepath.Base(path),
			Data:        data,
			ContentType: contentTypeForPath(path),
		})
	}

	slog.Info("Processing receipts", "count", len(files), "workers", *workers)
	results := service.ProcessBatch(files, *workers)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		slog.Error("Failed to encode results", "error", err)
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
			slog.Error("Receipt failed", "filename", r.Filename, "error", r.Error)
		}
	}
	if failed > 0 {
		slog.Error("Batch finished with failures", "failed", failed, "total", len(results))
		os.Exit(1)
	}
	slog.Info("Batch finished", "total", len(results))
}

func contentTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}
