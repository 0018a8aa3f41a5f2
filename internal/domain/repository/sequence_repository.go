package repository

import "context"

// SequenceRepository contador monótono por nombre (ej. número de orden por tipo).
// Dentro de una transacción el incremento se revierte junto con ella.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
