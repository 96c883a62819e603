package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"rfmpulse/internal/errors"
	"rfmpulse/pkg/contracts/domain"
)

// Loader reads period sheets from Excel workbooks
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a workbook loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// Sources holds the raw rows of both input workbooks
type Sources struct {
	Sales []RawRow
	Ads   []RawRow
}

// LoadSources reads the sales and ads workbooks concurrently
func (l *Loader) LoadSources(ctx context.Context, salesPath, adsPath string, periods []domain.Period) (*Sources, error) {
	src := &Sources{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := l.LoadWorkbook(gctx, salesPath, periods)
		if err != nil {
			return fmt.Errorf("sales workbook: %w", err)
		}
		src.Sales = rows
		return nil
	})
	g.Go(func() error {
		rows, err := l.LoadWorkbook(gctx, adsPath, periods)
		if err != nil {
			return fmt.Errorf("ads workbook: %w", err)
		}
		src.Ads = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return src, nil
}

// LoadWorkbook reads every period sheet of the workbook at path. The first
// non-empty row of a sheet is its header. Sheets that do not exist are
// skipped with a warning.
func (l *Loader) LoadWorkbook(ctx context.Context, path string, periods []domain.Period) ([]RawRow, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("workbook "+path).WithContext("path", path)
		}
		return nil, errors.NewStorageError("stat workbook", err).WithContext("path", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var out []RawRow
	for _, period := range periods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sheet, ok := findSheet(sheets, string(period))
		if !ok {
			l.logger.WarnContext(ctx, "period sheet not found, skipping",
				slog.String("path", path),
				slog.String("period", string(period)))
			continue
		}

		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.NewStorageError("read sheet", err).WithContext("sheet", sheet)
		}

		parsed := rowsToRaw(rows, period)
		l.logger.DebugContext(ctx, "sheet loaded",
			slog.String("path", path),
			slog.String("sheet", sheet),
			slog.Int("rows", len(parsed)))
		out = append(out, parsed...)
	}

	l.logger.InfoContext(ctx, "workbook loaded",
		slog.String("path", path),
		slog.Int("rows", len(out)))
	return out, nil
}

func findSheet(sheets []string, name string) (string, bool) {
	for _, s := range sheets {
		if s == name {
			return s, true
		}
	}
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return s, true
		}
	}
	return "", false
}

// rowsToRaw maps sheet rows onto their header. Row numbers are 1-based sheet
// rows so they can be located in the workbook.
func rowsToRaw(rows [][]string, period domain.Period) []RawRow {
	headerIdx := -1
	for i, row := range rows {
		if !isBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	header := make([]string, len(rows[headerIdx]))
	seen := make(map[string]bool)
	for j, h := range rows[headerIdx] {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		header[j] = h
	}

	columns := newColumnIndex(header)
	out := make([]RawRow, 0, len(rows)-headerIdx-1)
	for i := headerIdx + 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		values := make(map[string]string, len(header))
		for j, h := range header {
			if h == "" {
				continue
			}
			if j < len(rows[i]) {
				values[h] = rows[i][j]
			} else {
				values[h] = ""
			}
		}
		out = append(out, RawRow{Row: i + 1, Period: period, Values: values, columns: columns})
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
