package importer

import (
	"fmt"
	"os"
	"strings"

	"ledgersort/internal/logging"
	"ledgersort/internal/models"
	"ledgersort/internal/parsererror"

	"github.com/shopspring/decimal"
	"gopkg.in/xmlpath.v2"
)

// XPath expressions for the structured XML export layout: a flat list of
// <transaction> elements carrying date, description and amount children.
var (
	xmlTransactionPath = xmlpath.MustCompile("//transactions/transaction")
	xmlDatePath        = xmlpath.MustCompile("date")
	xmlDescriptionPath = xmlpath.MustCompile("description")
	xmlAmountPath      = xmlpath.MustCompile("amount")
)

// XMLAdapter parses structured XML bank exports. Unlike CSV, the layout is
// fixed, so the table it emits already uses the canonical role names and
// typed amount cells.
type XMLAdapter struct {
	logger logging.Logger
}

// NewXMLAdapter creates an XMLAdapter.
func NewXMLAdapter(logger logging.Logger) *XMLAdapter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &XMLAdapter{logger: logger}
}

// Parse reads an XML export into a RawTable with date, description and
// amount columns.
func (a *XMLAdapter) Parse(filePath string) (*models.RawTable, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error opening XML file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	root, err := xmlpath.Parse(file)
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			FilePath:       filePath,
			ExpectedFormat: "XML transaction export",
			Msg:            err.Error(),
		}
	}

	table := &models.RawTable{Columns: []models.Column{
		{Name: "date"},
		{Name: "description"},
		{Name: "amount"},
	}}

	iter := xmlTransactionPath.Iter(root)
	for iter.Next() {
		node := iter.Node()
		table.Columns[0].Cells = append(table.Columns[0].Cells, models.TextCell(childText(node, xmlDatePath)))
		table.Columns[1].Cells = append(table.Columns[1].Cells, models.TextCell(childText(node, xmlDescriptionPath)))
		table.Columns[2].Cells = append(table.Columns[2].Cells, amountCell(childText(node, xmlAmountPath)))
	}

	if table.RowCount() == 0 {
		return nil, &parsererror.DataExtractionError{
			FilePath: filePath,
			Field:    "transactions",
			Reason:   "no transaction elements found",
		}
	}

	a.logger.WithFields(
		logging.Field{Key: "file", Value: filePath},
		logging.Field{Key: "rows", Value: table.RowCount()},
	).Info("Parsed XML file")

	return table, nil
}

func childText(node *xmlpath.Node, path *xmlpath.Path) string {
	if value, ok := path.String(node); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

// amountCell keeps plain decimal amounts typed; anything with currency
// symbols or sign markers stays text so normalization can interpret it.
func amountCell(raw string) models.Cell {
	if raw == "" {
		return models.Cell{Kind: models.CellEmpty}
	}
	if value, err := decimal.NewFromString(raw); err == nil {
		return models.NumberCell(value)
	}
	return models.TextCell(raw)
}
