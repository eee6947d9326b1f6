package services

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// genID builds the short prefixed ids used on the wire (c_, loc_, q_, ord_,
// st_): a prefix plus the first 10 hex characters of a v4 UUID.
func genID(prefix string) string {
	u := uuid.New()
	return prefix + "_" + hex.EncodeToString(u[:])[:10]
}

// NewCartID and friends keep id formats in one place for the handlers.
func NewCartID() string     { return genID("c") }
func NewLocationID() string { return genID("loc") }
func NewStopID() string     { return genID("st") }
