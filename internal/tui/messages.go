package tui

import (
	"github.com/MKhiriev/go-quote-sync/models"
)

type syncEventMsg models.SyncEvent

type conflictRequestMsg conflictRequest

type syncDoneMsg struct {
	ran bool
}

type savedMsg struct {
	record  models.Record
	created bool
	changed bool
	err     error
}

type deletedMsg struct {
	id  string
	err error
}

type strategyChangedMsg struct {
	strategy models.Strategy
	err      error
}

type clearStatusMsg struct {
	seq int
}
