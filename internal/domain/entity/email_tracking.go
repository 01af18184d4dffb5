package entity

import "time"

// EmailTracking contadores de apertura/clic del correo de una cotización.
// Lo escribe el subsistema de correo; el núcleo solo lo lee y lo elimina en cascada.
type EmailTracking struct {
	QuoteID     string
	Opens       int
	Clicks      int
	FirstOpenAt *time.Time
	LastOpenAt  *time.Time
	LastClickAt *time.Time
	CreatedAt   time.Time
}

// GenericEmail correo no ligado a una cotización, rastreado por un id propio.
type GenericEmail struct {
	TrackingID string
	ContactID  string
	Subject    string
	Opens      int
	Clicks     int
	SentAt     time.Time
}
