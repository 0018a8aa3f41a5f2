package inventory

import "github.com/jhoicas/pos-api/internal/domain/entity"

// LedgerExporter genera un archivo descargable con el libro de un ítem (ej. xlsx).
type LedgerExporter interface {
	ExportLedger(item *entity.Item, entries []*entity.InventoryTransaction) ([]byte, error)
}
