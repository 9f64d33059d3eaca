// Package output provides utilities for formatting and displaying ration results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/feed-ration/pkg/constants"
	"github.com/iwvelando/feed-ration/pkg/format"
	"github.com/iwvelando/feed-ration/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, s optimization.Summary) error {
	p := message.NewPrinter(language.English)
	if _, err := fmt.Fprintf(w, "--- Ration for %s ---\n", s.AnimalType); err != nil {
		return err
	}
	if !s.Optimal() {
		if _, err := fmt.Fprintln(w, "No optimal solution found."); err != nil {
			return err
		}
		if s.Detail != "" {
			_, err := fmt.Fprintf(w, "Status: %s (%s)\n", s.Status, s.Detail)
			return err
		}
		_, err := fmt.Fprintf(w, "Status: %s\n", s.Status)
		return err
	}

	if _, err := fmt.Fprintln(w, "Optimal Solution Found:"); err != nil {
		return err
	}
	for _, line := range s.Ingredients {
		if _, err := p.Fprintf(w, "%s: %.2f kg\n", line.Name, line.Quantity); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Total Cost: %s\n", format.Currency(s.TotalCost)); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Total Nutritional Values:"); err != nil {
		return err
	}
	for _, n := range s.Nutrients {
		var err error
		if n.Shortfall {
			_, err = p.Fprintf(w, "%s: %.2f (Less than required: %.2f)\n", n.Nutrient, n.Achieved, n.Target)
		} else {
			_, err = p.Fprintf(w, "%s: %.2f\n", n.Nutrient, n.Achieved)
		}
		if err != nil {
			return err
		}
	}

	for _, note := range s.Notes {
		if _, err := fmt.Fprintf(w, "Note: %s\n", note); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{"section", "name", "category", "quantity", "unit_price", "cost", "target", "shortfall", "note"}

// CsvFormat writes the report in comma-separated value format. The first
// record after the header always carries the status.
func CsvFormat(w io.Writer, s optimization.Summary) error {
	cw := csv.NewWriter(w)
	records := [][]string{
		csvHeader,
		{"status", s.Status, "", "", "", "", "", "", s.Detail},
	}

	total := 0.0
	for _, line := range s.Ingredients {
		total += line.Quantity
		records = append(records, []string{
			"ingredient", line.Name, line.Category,
			format.Amount(line.Quantity), format.Amount(line.UnitPrice), format.Amount(line.Cost),
			"", "", "",
		})
	}
	if s.Optimal() {
		records = append(records, []string{"total", "", "", format.Amount(total), "", format.Amount(s.TotalCost), "", "", ""})
	}
	for _, n := range s.Nutrients {
		records = append(records, []string{
			"nutrient", n.Nutrient, "",
			format.Amount(n.Achieved), "", "",
			format.Amount(n.Target), strconv.FormatBool(n.Shortfall), "",
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CsvString renders the CSV report into a string.
func CsvString(s optimization.Summary) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSONFormat writes the summary as indented JSON.
func JSONFormat(w io.Writer, s optimization.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}

// Write renders s in the named format.
func Write(w io.Writer, outputFormat string, s optimization.Summary) error {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(w, s)
	case constants.OutputFormatJSON:
		return JSONFormat(w, s)
	case constants.OutputFormatPretty, "":
		return PrettyFormat(w, s)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}
