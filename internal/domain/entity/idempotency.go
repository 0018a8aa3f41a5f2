package entity

import "time"

// Ámbitos de claves de idempotencia.
const (
	IdempotencyScopeCreateOrder   = "create_order"
	IdempotencyScopeRecordPayment = "record_payment"
)

// IdempotencyRecord asocia una clave enviada por el cliente con el recurso que produjo.
// Fingerprint es el hash del payload; la misma clave con otro payload es un conflicto.
type IdempotencyRecord struct {
	Scope       string
	Key         string
	Fingerprint string
	ReferenceID string
	CreatedAt   time.Time
}
