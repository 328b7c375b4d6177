package forecast

import (
	"bytes"
	"encoding/csv"

	"github.com/pennywise/pennywise/pkg/money"
	log "github.com/sirupsen/logrus"
)

var csvHeader = []string{"Date of Transaction", "Balance", "Total Change"}

type CsvRenderer struct {
	formatter money.Formatter
}

func NewCsvRenderer(formatter money.Formatter) *CsvRenderer {
	return &CsvRenderer{formatter: formatter}
}

func (r *CsvRenderer) Render(points []Point) (string, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	if err := writer.Write(csvHeader); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	for _, p := range points {
		row := []string{
			p.Month.Format("2006-01-02"),
			r.formatter.Format(p.Balance),
			r.formatter.Format(p.NetChange),
		}
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}
