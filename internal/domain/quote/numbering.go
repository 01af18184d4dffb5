package quote

import "fmt"

// FormatNumber consecutivo visible de una cotización: PREFIJO-AÑO-NNNN.
func FormatNumber(prefix string, year, seq int) string {
	if prefix == "" {
		prefix = "DEV"
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}
