package service

import (
	"context"
	"strconv"

	"github.com/MKhiriev/go-quote-sync/models"
)

var seedPayloads = []models.Payload{
	{Text: "The only way to do great work is to love what you do.", Category: "Inspiration"},
	{Text: "Life is what happens to you while you're busy making other plans.", Category: "Life"},
	{Text: "The future belongs to those who believe in the beauty of their dreams.", Category: "Motivation"},
	{Text: "It is during our darkest moments that we must focus to see the light.", Category: "Wisdom"},
	{Text: "Whoever is happy will make others happy too.", Category: "Happiness"},
	{Text: "You only live once, but if you do it right, once is enough.", Category: "Life"},
	{Text: "Be the change that you wish to see in the world.", Category: "Inspiration"},
}

// SeedQuotes returns the built-in starter quotes with ids "1" to "7".
func SeedQuotes() []models.Record {
	out := make([]models.Record, 0, len(seedPayloads))
	for i, p := range seedPayloads {
		out = append(out, models.Record{
			ID:      strconv.Itoa(i + 1),
			Payload: p,
			Version: 1,
			Origin:  models.OriginLocal,
		})
	}
	return out
}

// SeedIfFresh queues the starter quotes when the storages have never held
// any state. It returns how many quotes were added.
func SeedIfFresh(ctx context.Context, tracker *ChangeTracker) (int, error) {
	if !tracker.storages.Fresh() || tracker.storages.Records.Len() > 0 {
		return 0, nil
	}
	return tracker.Seed(ctx, SeedQuotes()...)
}
