package repository

// Tipos de documento con numeración consecutiva por bodega.
const (
	SeqInvoice     = "FACTURA"
	SeqAbono       = "ABONO"
	SeqCashReceipt = "RECIBO"
)

// SequenceRepository asigna consecutivos por (bodega, tipo de documento).
// La asignación debe ser única bajo concurrencia: se resuelve con un
// UPSERT atómico sobre la fila del contador, dentro de la transacción de la
// operación. Los huecos por rollback son aceptables; los duplicados no.
type SequenceRepository interface {
	Next(warehouseID, docType string) (int64, error)
}
