package orders

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// errKeyTaken otra transacción registró la misma clave mientras esta estaba en curso.
var errKeyTaken = errors.New("clave de idempotencia tomada por otra transacción")

// fingerprint hash blake2b-256 del payload en JSON.
func fingerprint(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	sum := blake2b.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// claimKey registra la clave apuntando a referenceID. Si la clave ya existía con el mismo
// payload devuelve la referencia original; con otro payload, ErrConflict.
func claimKey(ctx context.Context, store repository.Store, scope, key, fp, referenceID string, now time.Time) (string, error) {
	rec, err := store.Idempotency.Get(ctx, scope, key)
	if err != nil {
		return "", domain.Storage("leer clave de idempotencia", err)
	}
	if rec != nil {
		if rec.Fingerprint != fp {
			return "", domain.Errorf(domain.ErrConflict, "la clave de idempotencia %q ya se usó con otro contenido", key)
		}
		return rec.ReferenceID, nil
	}
	err = store.Idempotency.Create(ctx, &entity.IdempotencyRecord{
		Scope:       scope,
		Key:         key,
		Fingerprint: fp,
		ReferenceID: referenceID,
		CreatedAt:   now,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return "", errKeyTaken
	}
	if err != nil {
		return "", domain.Storage("guardar clave de idempotencia", err)
	}
	return "", nil
}

// runIdempotent ejecuta run y, si perdió la carrera por la clave, lo reintenta una vez:
// en el segundo intento la clave ya está confirmada y se resuelve como repetición.
func runIdempotent(run func() error) error {
	err := run()
	if errors.Is(err, errKeyTaken) {
		err = run()
	}
	if errors.Is(err, errKeyTaken) {
		return domain.Errorf(domain.ErrConflict, "la clave de idempotencia está en uso")
	}
	return err
}
