package ledger

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/zombor/expense-tracker/internal/extract"
	"github.com/zombor/expense-tracker/internal/logger"
	"github.com/zombor/expense-tracker/internal/scanning"
)

const (
	previewLength = 500
	defaultLimit  = 10
	maxLimit      = 100
)

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	repeatedSpaces      = regexp.MustCompile(`\s+`)
)

// IDGenerator generates unique IDs for transactions and archived files
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles document processing and transaction bookkeeping
type Service struct {
	db          DB
	recognizer  scanning.Recognizer
	reader      scanning.DocumentReader
	storage     Storage
	extractor   *extract.Extractor
	idGenerator IDGenerator
	timeSource  TimeSource
	log         zerolog.Logger
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, recognizer scanning.Recognizer, reader scanning.DocumentReader, storage Storage, log zerolog.Logger) *Service {
	return NewServiceWithDeps(db, recognizer, reader, storage, log, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, recognizer scanning.Recognizer, reader scanning.DocumentReader, storage Storage, log zerolog.Logger, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		recognizer:  recognizer,
		reader:      reader,
		storage:     storage,
		extractor:   extract.NewExtractorWithDeps(timeSrc, logger.ExtractObserver(log)),
		idGenerator: idGen,
		timeSource:  timeSrc,
		log:         log,
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	if unsafeFilenameChars.MatchString(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = repeatedSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	// 50 chars for base, plus extension
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "upload"
	}

	return base + ext
}

// preview shortens extracted text for API responses
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

// archive stores the upload under a unique name
func (s *Service) archive(filename string, data []byte) (string, error) {
	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", s.idGenerator.Generate(), sanitizeFilename(filename)), data)
	if err != nil {
		return "", fmt.Errorf("saving file: %w", err)
	}
	return savedPath, nil
}

// discard removes an archived upload nothing refers to
func (s *Service) discard(savedPath string) {
	if err := s.storage.Delete(savedPath); err != nil {
		s.log.Warn().Err(err).Str("file", savedPath).Msg("Failed to delete file")
	}
}

// ProcessReceipt archives a receipt image, reads it and parses the text.
// A transaction is recorded only when a positive amount was found.
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType string) (*ReceiptResult, error) {
	savedPath, err := s.archive(filename, data)
	if err != nil {
		return nil, err
	}

	text, err := s.recognizer.RecognizeText(ctx, data, contentType)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("filename", filename).
			Str("content_type", contentType).
			Int("file_size", len(data)).
			Msg("Failed to recognize receipt")
		s.discard(savedPath)
		return nil, fmt.Errorf("recognizing receipt: %w", err)
	}

	receipt := s.extractor.ParseReceipt(text)
	result := &ReceiptResult{
		Text:    preview(text),
		Receipt: receipt,
	}

	if !receipt.Amount.Valid || !receipt.Amount.Decimal.IsPositive() {
		s.log.Info().Str("filename", filename).Msg("No valid amount extracted from receipt")
		s.discard(savedPath)
		return result, nil
	}

	now := s.timeSource.Now()
	t := &Transaction{
		ID:            s.idGenerator.Generate(),
		Type:          extract.TypeExpense,
		Amount:        receipt.Amount.Decimal,
		Category:      string(receipt.Category),
		Description:   receipt.Description,
		Date:          receipt.Date,
		Source:        SourceReceipt,
		SourceFile:    savedPath,
		ContentType:   contentType,
		DateDefaulted: receipt.DateConfidence == extract.DateDefaulted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.db.SaveTransaction(t); err != nil {
		s.log.Error().Err(err).Str("filename", filename).Msg("Error saving receipt transaction")
		s.discard(savedPath)
		return result, nil
	}

	result.Created = t
	return result, nil
}

// ProcessStatement archives a statement, extracts its text and records one
// transaction per recognized line. Lines that fail validation or cannot be
// saved are logged and skipped.
func (s *Service) ProcessStatement(ctx context.Context, filename string, data []byte, contentType string) (*StatementResult, error) {
	savedPath, err := s.archive(filename, data)
	if err != nil {
		return nil, err
	}

	text, err := s.reader.ReadText(ctx, data, contentType)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("filename", filename).
			Str("content_type", contentType).
			Msg("Failed to read statement")
		s.discard(savedPath)
		return nil, fmt.Errorf("reading statement: %w", err)
	}

	candidates := s.extractor.ParseStatement(text)
	saved := make([]*Transaction, 0, len(candidates))
	for _, c := range candidates {
		now := s.timeSource.Now()
		t := &Transaction{
			ID:            s.idGenerator.Generate(),
			Type:          c.Type,
			Amount:        c.Amount,
			Category:      string(c.Category),
			Description:   c.Description,
			Date:          c.Date,
			Source:        SourceStatement,
			SourceFile:    savedPath,
			ContentType:   contentType,
			DateDefaulted: c.DateConfidence == extract.DateDefaulted,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := t.normalize(); err != nil {
			s.log.Warn().Err(err).Int("line", c.Line).Msg("Could not save transaction")
			continue
		}
		if err := s.db.SaveTransaction(t); err != nil {
			s.log.Warn().Err(err).Int("line", c.Line).Msg("Could not save transaction")
			continue
		}
		saved = append(saved, t)
	}

	if len(saved) == 0 {
		s.discard(savedPath)
	}

	return &StatementResult{
		Text:         preview(text),
		Found:        len(candidates),
		Transactions: saved,
	}, nil
}

// CreateTransaction validates and records a manually entered transaction
func (s *Service) CreateTransaction(in TransactionInput) (*Transaction, error) {
	now := s.timeSource.Now()
	t := &Transaction{
		ID:          s.idGenerator.Generate(),
		Type:        in.Type,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        now,
		Source:      SourceManual,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Date != nil {
		t.Date = *in.Date
	}
	if err := t.normalize(); err != nil {
		return nil, err
	}

	if err := s.db.SaveTransaction(t); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}
	return t, nil
}

// GetTransaction retrieves a transaction by ID
func (s *Service) GetTransaction(id string) (*Transaction, error) {
	t, err := s.db.GetTransaction(id)
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	return t, nil
}

// UpdateTransaction applies the set fields of upd and re-validates the result
func (s *Service) UpdateTransaction(id string, upd TransactionUpdate) (*Transaction, error) {
	t, err := s.db.GetTransaction(id)
	if err != nil {
		return nil, fmt.Errorf("getting transaction for update: %w", err)
	}

	upd.apply(t)
	if err := t.normalize(); err != nil {
		return nil, err
	}
	t.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveTransaction(t); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}
	return t, nil
}

// DeleteTransaction removes a transaction, and its archived upload once no
// other transaction refers to it
func (s *Service) DeleteTransaction(id string) error {
	t, err := s.db.GetTransaction(id)
	if err != nil {
		return fmt.Errorf("getting transaction for deletion: %w", err)
	}

	if err := s.db.DeleteTransaction(id); err != nil {
		return fmt.Errorf("deleting transaction from database: %w", err)
	}

	if t.SourceFile == "" {
		return nil
	}
	all, err := s.db.ListTransactions()
	if err != nil {
		s.log.Warn().Err(err).Str("file", t.SourceFile).Msg("Could not check file references")
		return nil
	}
	for _, other := range all {
		if other.SourceFile == t.SourceFile {
			return nil
		}
	}
	s.discard(t.SourceFile)
	return nil
}

// GetTransactionFile retrieves the archived upload behind a transaction
func (s *Service) GetTransactionFile(id string) ([]byte, string, error) {
	t, err := s.db.GetTransaction(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting transaction: %w", err)
	}
	if t.SourceFile == "" {
		return nil, "", fmt.Errorf("%w: transaction %s has no file", ErrNotFound, id)
	}

	data, err := s.storage.Get(t.SourceFile)
	if err != nil {
		return nil, "", fmt.Errorf("getting transaction file: %w", err)
	}
	return data, t.ContentType, nil
}

// ListTransactions returns one page of matching transactions, newest first
func (s *Service) ListTransactions(f Filter) (*Page, error) {
	all, err := s.db.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	category := cases.Fold().String(strings.TrimSpace(f.Category))
	matched := make([]*Transaction, 0, len(all))
	for _, t := range all {
		if !inRange(t.Date, f.Start, f.End) {
			continue
		}
		if f.Type.Valid() && t.Type != f.Type {
			continue
		}
		if category != "" && !strings.Contains(cases.Fold().String(t.Category), category) {
			continue
		}
		matched = append(matched, t)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	total := len(matched)
	totalPages := (total + limit - 1) / limit

	// pages past the end are empty; checked before multiplying so huge
	// page numbers cannot overflow
	start, end := total, total
	if page <= totalPages {
		start = (page - 1) * limit
		end = min(start+limit, total)
	}

	return &Page{
		Transactions: matched[start:end],
		Total:        total,
		TotalPages:   totalPages,
		CurrentPage:  page,
	}, nil
}

// Summary totals transactions in the optional date range
func (s *Service) Summary(start, end *time.Time) (*Summary, error) {
	all, err := s.db.ListTransactions()
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	sum := &Summary{
		ExpensesByCategory: make(map[string]decimal.Decimal),
		MonthlyData:        make(map[string]*MonthlyTotals),
		TotalIncome:        decimal.Zero,
		TotalExpense:       decimal.Zero,
	}
	for _, t := range all {
		if !inRange(t.Date, start, end) {
			continue
		}

		month := t.Date.UTC().Format("2006-01")
		m, ok := sum.MonthlyData[month]
		if !ok {
			m = &MonthlyTotals{Income: decimal.Zero, Expense: decimal.Zero}
			sum.MonthlyData[month] = m
		}

		if t.Type == extract.TypeIncome {
			m.Income = m.Income.Add(t.Amount)
			sum.TotalIncome = sum.TotalIncome.Add(t.Amount)
			continue
		}
		m.Expense = m.Expense.Add(t.Amount)
		sum.TotalExpense = sum.TotalExpense.Add(t.Amount)
		sum.ExpensesByCategory[t.Category] = sum.ExpensesByCategory[t.Category].Add(t.Amount)
	}
	return sum, nil
}

// inRange reports whether d lies within the bounds. The end bound covers its
// whole calendar day, so transactions stamped later that day still match.
func inRange(d time.Time, start, end *time.Time) bool {
	if start != nil && d.Before(*start) {
		return false
	}
	if end != nil {
		y, m, dd := end.Date()
		nextDay := time.Date(y, m, dd+1, 0, 0, 0, 0, end.Location())
		if !d.Before(nextDay) {
			return false
		}
	}
	return true
}
