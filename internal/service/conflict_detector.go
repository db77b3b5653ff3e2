// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"time"

	"github.com/MKhiriev/go-quote-sync/models"
)

// DetectConflicts compares the local collection against an authoritative
// remote snapshot. It is pure and total.
//
// An id held on both sides is an update conflict only when the payloads
// differ and the remote copy is strictly newer; a newer local edit is left
// for the next push. Remote-only ids are additions. Local ids missing
// remotely are deletions only if the remote had known them.
//
// Conflicts come out in local order, followed by additions in remote order.
func DetectConflicts(local, remote []models.Record, detectedAt time.Time) []models.Conflict {
	remoteByID := make(map[string]models.Record, len(remote))
	for _, r := range remote {
		remoteByID[r.ID] = r
	}

	var conflicts []models.Conflict
	localIDs := make(map[string]struct{}, len(local))

	for _, l := range local {
		localIDs[l.ID] = struct{}{}

		r, ok := remoteByID[l.ID]
		if !ok {
			if l.Synced() {
				conflicts = append(conflicts, models.Conflict{
					Kind:       models.ConflictDeletion,
					RecordID:   l.ID,
					Local:      l.Clone(),
					DetectedAt: detectedAt,
				})
			}
			continue
		}

		if !l.Payload.Equal(r.Payload) && r.LastModified.After(l.LastModified) {
			conflicts = append(conflicts, models.Conflict{
				Kind:       models.ConflictUpdate,
				RecordID:   l.ID,
				Local:      l.Clone(),
				Remote:     r.Clone(),
				DetectedAt: detectedAt,
			})
		}
	}

	for _, r := range remote {
		if _, ok := localIDs[r.ID]; ok {
			continue
		}
		conflicts = append(conflicts, models.Conflict{
			Kind:       models.ConflictAddition,
			RecordID:   r.ID,
			Remote:     r.Clone(),
			DetectedAt: detectedAt,
		})
	}

	return conflicts
}
