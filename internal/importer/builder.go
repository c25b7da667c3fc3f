package importer

import (
	"fmt"
	"hash/fnv"
	"time"

	"ledgersort/internal/inference"
	"ledgersort/internal/logging"
	"ledgersort/internal/models"
	"ledgersort/internal/normalize"
)

// BuildStats summarizes one table-to-transactions pass.
type BuildStats struct {
	Rows    int // data rows in the table
	Built   int // transactions produced
	Dropped int // rows skipped for missing date or amount
}

// Builder assembles canonical transactions from a raw table. Rows whose date
// or amount cannot be normalized are dropped and counted rather than failing
// the whole file; a missing description is kept as an empty string.
type Builder struct {
	normalizer *normalize.Normalizer
	inferencer *inference.Inferencer
	logger     logging.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(normalizer *normalize.Normalizer, inferencer *inference.Inferencer, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Builder{
		normalizer: normalizer,
		inferencer: inferencer,
		logger:     logger,
	}
}

// Build resolves column roles for the table and converts every usable row
// into a transaction. source and filePath are provenance stamped onto each
// transaction; importDate records when the import ran.
func (b *Builder) Build(table *models.RawTable, source, filePath string, importDate time.Time) ([]models.Transaction, BuildStats, error) {
	roles, err := b.inferencer.Infer(table)
	if err != nil {
		return nil, BuildStats{}, err
	}

	dateColumn, _ := table.Column(roles.Date)
	descColumn, _ := table.Column(roles.Description)
	amountColumn, _ := table.Column(roles.Amount)

	stats := BuildStats{Rows: table.RowCount()}
	transactions := make([]models.Transaction, 0, stats.Rows)

	for i := 0; i < stats.Rows; i++ {
		date, dateOK := b.normalizer.DateFromCell(dateColumn.CellAt(i))
		amount, amountOK := b.normalizer.AmountFromCell(amountColumn.CellAt(i))
		if !dateOK || !amountOK {
			stats.Dropped++
			b.logger.WithFields(
				logging.Field{Key: "row", Value: i},
				logging.Field{Key: "date_ok", Value: dateOK},
				logging.Field{Key: "amount_ok", Value: amountOK},
			).Debug("Dropping row with missing date or amount")
			continue
		}

		description := cellText(descColumn.CellAt(i))
		tx := models.Transaction{
			Date:        date,
			Description: description,
			Amount:      amount,
			Source:      source,
			ImportDate:  importDate,
			FilePath:    filePath,
		}
		tx.TransactionID = TransactionID(tx)
		transactions = append(transactions, tx)
	}

	stats.Built = len(transactions)
	b.logger.WithFields(
		logging.Field{Key: "source", Value: source},
		logging.Field{Key: "built", Value: stats.Built},
		logging.Field{Key: "dropped", Value: stats.Dropped},
	).Info("Built transactions from table")

	return transactions, stats, nil
}

// TransactionID derives a stable identifier from the transaction's date,
// description and amount. Re-importing the same file yields the same IDs, so
// IDs survive deduplication and repeated runs.
func TransactionID(tx models.Transaction) string {
	return fmt.Sprintf("%s-%04d-%04d",
		tx.Date.Format("20060102"),
		hashMod(tx.Description, 10000),
		hashMod(tx.Amount.String(), 10000))
}

func hashMod(s string, mod uint32) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32() % mod
}

// cellText renders any cell kind as description text.
func cellText(cell models.Cell) string {
	switch cell.Kind {
	case models.CellText:
		return cell.Text
	case models.CellNumber:
		return cell.Number.String()
	case models.CellTime:
		return cell.Time.Format(models.DateLayoutISO)
	default:
		return ""
	}
}
