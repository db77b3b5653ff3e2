package http

import (
	"net/http"

	"github.com/MKhiriev/go-quote-sync/internal/app"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
	"github.com/MKhiriev/go-quote-sync/models"
)

func (h *Handler) pushRecords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.PushRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.pushRecords").Msg(app.MsgInvalidJSON)
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	if err := h.services.RecordService.Push(r.Context(), req); err != nil {
		log.Err(err).Str("func", "*Handler.pushRecords").Msg(app.MsgPushFailed)
		http.Error(w, app.MsgPushFailed, statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) pullRecords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	snapshot, err := h.services.RecordService.Pull(r.Context())
	if err != nil {
		log.Err(err).Str("func", "*Handler.pullRecords").Msg(app.MsgPullFailed)
		http.Error(w, app.MsgPullFailed, statusFromError(err))
		return
	}
	if snapshot.Records == nil {
		snapshot.Records = []models.Record{}
	}

	if _, err = utils.WriteJSON(w, snapshot, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.pullRecords").Msg("error writing snapshot")
	}
}
