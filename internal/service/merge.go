package service

import "github.com/MKhiriev/go-quote-sync/models"

// MergeRecords returns the union of local and remote by id. For an id on
// both sides the remote copy wins unless the local one is strictly newer.
// Local-only records are kept as they are. The result follows local order,
// then remote-only records in remote order.
func MergeRecords(local, remote []models.Record) []models.Record {
	remoteByID := make(map[string]models.Record, len(remote))
	for _, r := range remote {
		remoteByID[r.ID] = r
	}

	merged := make([]models.Record, 0, len(local)+len(remote))
	seen := make(map[string]struct{}, len(local))

	for _, l := range local {
		seen[l.ID] = struct{}{}

		r, ok := remoteByID[l.ID]
		switch {
		case !ok:
			merged = append(merged, l)
		case l.LastModified.After(r.LastModified):
			l.SyncedVersion = r.Version
			merged = append(merged, l)
		default:
			merged = append(merged, adopt(r))
		}
	}

	for _, r := range remote {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		merged = append(merged, adopt(r))
	}

	return merged
}

// adopt marks a remote copy as known to the remote at its current version.
func adopt(r models.Record) models.Record {
	r.SyncedVersion = r.Version
	if r.Origin == "" {
		r.Origin = models.OriginRemote
	}
	return r
}
