package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConfiguration    = errors.New("configuración inválida o incompleta")
	ErrNothingToProcess = errors.New("no hay registros para procesar")
	ErrRunInProgress    = errors.New("ya hay una ejecución en curso")
)

// ErrorKind clasifica los fallos que se registran en el reporte de una ejecución.
type ErrorKind string

const (
	// KindTransport fallo de red o de la API del marketplace; aísla al mercado o al registro.
	KindTransport ErrorKind = "transport"
	// KindParse dato mal formado (timestamp, factor); se reemplaza por un valor seguro.
	KindParse ErrorKind = "parse"
	// KindConfiguration falta un archivo o credencial; aborta la ejecución o, en el lookup de ASIN, solo al mercado.
	KindConfiguration ErrorKind = "configuration"
)
