package utils

import (
	"strconv"

	"github.com/google/uuid"
)

// UUIDGenerator issues record identifiers. Version 7 UUIDs are preferred
// because they sort by creation time.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a new identifier. It never returns an empty string.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}

// SequenceGenerator hands out predictable ids ("gen-1", "gen-2", ...).
// Tests use it where uuids would make assertions awkward.
type SequenceGenerator struct {
	Prefix string
	n      int
}

func (g *SequenceGenerator) Generate() string {
	g.n++
	prefix := g.Prefix
	if prefix == "" {
		prefix = "gen"
	}
	return prefix + "-" + strconv.Itoa(g.n)
}
