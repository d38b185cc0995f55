package ocr

import "context"

// IDCard es lo que el backend OCR extrae de la foto de una cédula.
type IDCard struct {
	FirstName string
	LastName  string
	CIN       string
}

// IDCardScanner abstrae el backend OCR (productor opaco de datos: acá solo
// nos importa el CIN para buscar al destinatario de una transferencia).
type IDCardScanner interface {
	Scan(ctx context.Context, imageJPEG []byte) (IDCard, error)
}
