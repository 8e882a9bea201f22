package pedido

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxNameBytes longitud máxima en bytes UTF-8 de un nombre de carpeta o archivo.
// Los sistemas de archivos limitan cada componente a 255 bytes, no a 255 caracteres.
const MaxNameBytes = 200

// maxExtBytes extensión más larga que SanitizeFileName conserva al recortar.
const maxExtBytes = 16

// Nombres reservados por Windows (el recurso compartido del taller vive en un servidor Windows).
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// SanitizeName convierte un texto libre en un único componente de ruta seguro.
// Solo se conservan letras, dígitos, espacio y - _ . , ( ) # & +; el resto pasa a "_".
// El resultado ocupa como máximo MaxNameBytes bytes. Devuelve false si no queda ningún
// carácter significativo.
func SanitizeName(name string) (string, bool) {
	out, ok := clean(name)
	if !ok {
		return "", false
	}
	out = strings.TrimRight(truncateBytes(out, MaxNameBytes-1), ". ")
	if !meaningful(out) {
		return "", false
	}
	return guardReserved(out), true
}

// SanitizeFileName sanea como SanitizeName pero, si hay que recortar, conserva la
// extensión y acorta solo el nombre base.
func SanitizeFileName(name string) (string, bool) {
	out, ok := clean(name)
	if !ok {
		return "", false
	}
	limit := MaxNameBytes - 1 // deja sitio al prefijo de nombres reservados
	if len(out) > limit {
		stem, ext := splitExt(out)
		stem = strings.TrimRight(truncateBytes(stem, limit-len(ext)), ". ")
		if stem == "" {
			stem = "_"
		}
		out = stem + ext
	}
	return guardReserved(out), true
}

// clean normaliza a NFC, aplica la lista permitida y recorta puntos y espacios de los bordes.
func clean(name string) (string, bool) {
	name = norm.NFC.String(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if allowed(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := strings.Trim(b.String(), ". ")
	return out, meaningful(out)
}

// meaningful informa si queda algo más que puntos, espacios y "_".
func meaningful(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r != '.' && r != ' ' && r != '_' }) >= 0
}

// splitExt separa ".ext" del nombre. Extensiones largas o sin nombre base no cuentan.
func splitExt(name string) (stem, ext string) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || len(name)-i > maxExtBytes {
		return name, ""
	}
	return name[:i], name[i:]
}

// truncateBytes corta s a como mucho max bytes sin partir una runa.
func truncateBytes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	i := max
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}

func guardReserved(name string) string {
	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if reservedNames[strings.ToUpper(base)] {
		return "_" + name
	}
	return name
}

func allowed(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case ' ', '-', '_', '.', ',', '(', ')', '#', '&', '+':
		return true
	}
	return false
}
