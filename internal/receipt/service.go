package receipt

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mhafuz/receipt-ledger/internal/ledger"
	"github.com/mhafuz/receipt-ledger/internal/normalize"
	"github.com/mhafuz/receipt-ledger/internal/scanning"
)

// IDGenerator generates unique IDs for processed receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service runs the receipt pipeline: archive the upload, extract, normalize,
// append to the ledger, persist the processed record. Collaborators are
// injected; the service owns none of their lifecycles.
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	ledger      ledger.Ledger
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, scanner scanning.Scanner, storage Storage, led ledger.Ledger) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		ledger:      led,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, led ledger.Ledger, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		ledger:      led,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	base = strings.TrimSpace(base)

	// Phone-generated filenames get absurdly long
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ProcessReceipt runs one receipt through the full pipeline. Extraction
// failure degrades to an empty record so callers always receive a
// schema-valid result; ledger and archive failures are fatal for the request.
func (s *Service) ProcessReceipt(filename string, data []byte, contentType string) (*ProcessedReceipt, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	var (
		rec       normalize.ReceiptRecord
		breakdown normalize.Breakdown
		mismatch  bool
	)
	scan, err := s.scanner.ScanReceipt(data, contentType)
	if err != nil {
		slog.Error("Failed to extract receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// The caller still gets a schema-valid record; only the items are gone.
		rec = normalize.EmptyRecord(now)
	} else {
		rec, breakdown, mismatch = normalize.BuildRecord(scan.Receipt, now)
		rec.RawText = scan.RawText
	}

	appendResult, err := s.ledger.Append(rec, now)
	if err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("appending to ledger: %w", err)
	}

	processed := &ProcessedReceipt{
		ID:            id,
		Record:        rec,
		Breakdown:     breakdown,
		TotalMismatch: mismatch,
		Filename:      savedPath,
		ContentType:   contentType,
		LedgerRows:    appendResult.RowsAppended,
		LedgerCells:   appendResult.CellsUpdated,
		CreatedAt:     now,
	}

	if err := s.db.SaveReceipt(processed); err != nil {
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving receipt to archive: %w", err)
	}

	return processed, nil
}

// BatchFile is one receipt file in a batch run.
type BatchFile struct {
	Filename    string
	Data        []byte
	ContentType string
}

// BatchResult pairs a batch file with its outcome.
type BatchResult struct {
	Filename string            `json:"filename"`
	Receipt  *ProcessedReceipt `json:"receipt,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// ProcessBatch runs each file through the pipeline with a bounded worker
// pool. Receipts are independent, so one failure never blocks or corrupts the
// others; results come back in input order.
func (s *Service) ProcessBatch(files []BatchFile, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	results := make([]BatchResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f := files[i]
				processed, err := s.ProcessReceipt(f.Filename, f.Data, f.ContentType)
				result := BatchResult{Filename: f.Filename, Receipt: processed}
				if err != nil {
					result.Error = err.Error()
				}
				results[i] = result
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// GetReceipt retrieves a processed receipt by ID
func (s *Service) GetReceipt(id string) (*ProcessedReceipt, error) {
	processed, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return processed, nil
}

// ListReceipts returns all processed receipts
func (s *Service) ListReceipts() ([]*ProcessedReceipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a processed receipt and its archived file
func (s *Service) DeleteReceipt(id string) error {
	processed, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	if err := s.storage.Delete(processed.Filename); err != nil {
		// The archive entry still goes away
		slog.Warn("Failed to delete file", "filename", processed.Filename, "error", err)
	}

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from archive: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the original upload for a processed receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	processed, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}

	data, err := s.storage.Get(processed.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, processed.ContentType, nil
}
