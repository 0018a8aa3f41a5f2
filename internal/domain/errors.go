package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidAdjustment   = errors.New("ajuste de inventario inválido")
	ErrInvalidPayment      = errors.New("pago inválido")
	ErrOverpayment         = errors.New("el pago excede el saldo pendiente")
	ErrAlreadyReceived     = errors.New("la orden de compra ya fue recibida")
	ErrCreditLimitExceeded = errors.New("límite de crédito excedido")
	ErrStorage             = errors.New("error de almacenamiento")
)

// Error asocia un tipo de error de dominio (Kind) con un mensaje y, opcionalmente, una causa.
// errors.Is funciona tanto contra Kind como contra Cause.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Errorf construye un *Error del tipo indicado con mensaje formateado.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError error de entrada con detalle por campo (campo -> regla incumplida).
type ValidationError struct {
	Message string
	Details map[string]string
}

// NewValidationError construye un ValidationError sin detalle por campo.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return ErrInvalidInput.Error()
	}
	return ErrInvalidInput.Error() + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError indica qué ítem no tiene stock suficiente y por cuánto.
type InsufficientStockError struct {
	ItemID    string
	ItemName  string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	name := e.ItemName
	if name == "" {
		name = e.ItemID
	}
	return fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d", name, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Storage envuelve un error de infraestructura como ErrStorage.
// Los errores que ya son de dominio se devuelven sin cambios.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) || errors.Is(err, ErrStorage) {
		return err
	}
	return &Error{Kind: ErrStorage, Message: op, Cause: err}
}

var domainKinds = []error{
	ErrNotFound, ErrInvalidInput, ErrDuplicate, ErrUnauthorized, ErrForbidden,
	ErrConflict, ErrInsufficientStock, ErrInvalidAdjustment, ErrInvalidPayment,
	ErrOverpayment, ErrAlreadyReceived, ErrCreditLimitExceeded,
}

// IsDomain indica si err pertenece a la taxonomía de errores de dominio (no de almacenamiento).
func IsDomain(err error) bool {
	for _, k := range domainKinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
