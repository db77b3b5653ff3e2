package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-quote-sync/internal/app"
	"github.com/MKhiriev/go-quote-sync/internal/logger"
	"github.com/MKhiriev/go-quote-sync/internal/utils"
)

// withContentHash verifies the X-Content-Hash header of a push against the
// BLAKE2b digest of the decompressed body. Requests without the header pass
// through unchecked.
func (h *Handler) withContentHash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		want := strings.TrimSpace(r.Header.Get(utils.ContentHashHeader))
		if want == "" || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, utils.MaxBodyBytes+1))
		if err != nil {
			log.Err(err).Str("func", "*Handler.withContentHash").Msg("failed to read request body")
			http.Error(w, app.MsgInternalServerError, http.StatusInternalServerError)
			return
		}
		if len(body) > utils.MaxBodyBytes {
			log.Err(ErrBodyTooLarge).Str("func", "*Handler.withContentHash").Int("limit", utils.MaxBodyBytes).Send()
			http.Error(w, ErrBodyTooLarge.Error(), statusFromError(ErrBodyTooLarge))
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		got := utils.BodyHash(body)
		if !strings.EqualFold(got, want) {
			log.Error().Str("func", "*Handler.withContentHash").
				Str("hash from request", want).
				Str("hashed body", got).
				Msg("hashes are not equal")
			http.Error(w, app.MsgIntegrityCheckFailed, statusFromError(ErrContentHashMismatch))
			return
		}

		log.Debug().Str("func", "*Handler.withContentHash").Str("hash", got).Msg("hashes are equal")
		next.ServeHTTP(w, r)
	})
}
