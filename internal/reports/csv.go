package reports

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ledgerdesk/ledgerdesk/internal/transactions"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	_, err := s.buf.WriteString(line)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func (s *csvStreamer) Close() error {
	return s.Flush()
}

// WriteSummaryCSV streams a monthly summary as CSV.
func WriteSummaryCSV(w io.Writer, summary *transactions.Summary) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeComment(fmt.Sprintf("# Report: Monthly Summary | Business: %s | Period: %s",
		summary.BusinessID, summary.Period)); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Category", "Kind", "Total"}); err != nil {
		return err
	}
	for _, ct := range summary.Categories {
		if err := streamer.writeRow([]string{ct.Category, string(ct.Kind), ct.Total.StringFixed(2)}); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"", "", ""}); err != nil {
		return err
	}
	totalsRows := [][]string{
		{"Totals", "income", summary.Income.StringFixed(2)},
		{"Totals", "expense", summary.Expense.StringFixed(2)},
		{"Totals", "net", summary.Net.StringFixed(2)},
	}
	for _, row := range totalsRows {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Close()
}
