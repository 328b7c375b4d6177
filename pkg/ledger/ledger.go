package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

const (
	columnTitle         = "Title"
	columnAmount        = "Amount"
	columnDate          = "Date"
	columnTotalOutgoing = "Total Outgoing"
)

var header = []string{columnTitle, columnAmount, columnDate, columnTotalOutgoing}

var ErrNegativeAmount = errors.New("outgoing amount cannot be negative")
var ErrMissingDate = errors.New("outgoing date is required")

type Entry struct {
	Title  string
	Amount decimal.Decimal
	Date   time.Time
	// TotalOutgoing is the running total of the cache after this entry was added.
	TotalOutgoing decimal.Decimal
}

// Cache is a file-backed mirror of outgoing entries. Its total covers only the entries
// recorded through the cache and is never reconciled with the database sum.
type Cache struct {
	path    string
	entries []Entry
	total   decimal.Decimal
}

// Load reads the cache at path. A missing file yields an empty cache with a zero total.
func Load(path string) (*Cache, error) {
	cache := &Cache{path: path, entries: []Entry{}, total: decimal.Zero}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("ledger cache %s does not exist yet, starting empty", path)
			return cache, nil
		}
		return nil, fmt.Errorf("could not open ledger cache: %w", err)
	}
	defer f.Close()

	if err := cache.read(f); err != nil {
		return nil, fmt.Errorf("could not read ledger cache %s: %w", path, err)
	}
	return cache, nil
}

func (c *Cache) read(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var columns map[string]int
	cell := func(record []string, column string) string {
		idx, ok := columns[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			log.Warnf("skipping ledger row %d in %s: %s", parseErr.StartLine, c.path, parseErr.Err)
			continue
		}
		if err != nil {
			return err
		}
		line, _ := reader.FieldPos(0)

		if columns == nil {
			columns = make(map[string]int, len(record))
			for i, name := range record {
				columns[strings.TrimSpace(name)] = i
			}
			continue
		}

		title := cell(record, columnTitle)
		amountCell := cell(record, columnAmount)
		dateCell := cell(record, columnDate)
		totalCell := cell(record, columnTotalOutgoing)

		total, totalOk := parseAmount(totalCell)
		if totalOk {
			c.total = total
		}

		// rows holding only a total carry the running sum and no entry
		if title == "" && amountCell == "" && dateCell == "" {
			continue
		}

		amount, ok := parseAmount(amountCell)
		if !ok {
			log.Warnf("skipping ledger row %d in %s: invalid amount %q", line, c.path, amountCell)
			continue
		}
		date, err := parseDate(dateCell)
		if err != nil {
			log.Warnf("skipping ledger row %d in %s: invalid date %q", line, c.path, dateCell)
			continue
		}
		if !totalOk {
			total = decimal.Zero
		}
		c.entries = append(c.entries, Entry{Title: title, Amount: amount, Date: date, TotalOutgoing: total})
	}
}

func (c *Cache) Path() string {
	return c.path
}

func (c *Cache) Entries() []Entry {
	entries := make([]Entry, len(c.entries))
	copy(entries, c.entries)
	return entries
}

func (c *Cache) Total() decimal.Decimal {
	return c.total
}

// Add appends an entry, advances the running total and rewrites the file.
// A zero amount is accepted.
func (c *Cache) Add(title string, amount decimal.Decimal, date time.Time) (Entry, error) {
	if amount.IsNegative() {
		return Entry{}, ErrNegativeAmount
	}
	if date.IsZero() {
		return Entry{}, ErrMissingDate
	}

	entry := Entry{
		Title:         title,
		Amount:        amount,
		Date:          time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		TotalOutgoing: c.total.Add(amount),
	}
	previousTotal := c.total
	c.entries = append(c.entries, entry)
	c.total = entry.TotalOutgoing

	if err := c.Save(); err != nil {
		c.entries = c.entries[:len(c.entries)-1]
		c.total = previousTotal
		return Entry{}, err
	}
	return entry, nil
}

// Save overwrites the cache file with the full table through a temp file and rename.
func (c *Cache) Save() error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create ledger directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.csv")
	if err != nil {
		return fmt.Errorf("could not create temp ledger file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write ledger header: %w", err)
	}
	for _, e := range c.entries {
		row := []string{
			e.Title,
			e.Amount.StringFixed(2),
			e.Date.Format(dateLayout),
			e.TotalOutgoing.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("could not write ledger row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("could not flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close temp ledger file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		err := fmt.Errorf("could not replace ledger file: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func parseAmount(value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

// parseDate accepts plain dates and the timestamp shape older cache files were written with.
func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{dateLayout, "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date %q", value)
}
