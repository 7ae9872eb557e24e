package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"rentalboard/internal/api"
	"rentalboard/internal/logger"
	"rentalboard/internal/metrics"
)

const maxBodySize = 1 << 20

type Handler struct {
	Secret      string
	CallbackURL string
}

// event mirrors the slice of the callback payload we care about: the action
// type plus the card and lists involved in a move.
type event struct {
	Action struct {
		Type string `json:"type"`
		Data struct {
			Card struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"card"`
			ListBefore struct {
				Name string `json:"name"`
			} `json:"listBefore"`
			ListAfter struct {
				Name string `json:"name"`
			} `json:"listAfter"`
		} `json:"data"`
	} `json:"action"`
}

// Receive handles the provider callback. HEAD is the provider's reachability
// probe during webhook registration and is always accepted.
func (h Handler) Receive(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "unreadable body")
		return
	}

	if h.Secret != "" {
		sig := r.Header.Get("X-Trello-Webhook")
		if !VerifySignature(h.Secret, body, h.CallbackURL, sig) {
			logger.Warn("webhook: rejected callback with bad signature")
			api.WriteError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "signature verification failed")
			return
		}
	}

	var ev event
	if err := json.Unmarshal(body, &ev); err != nil {
		// The provider sends an empty body on the registration probe.
		w.WriteHeader(http.StatusOK)
		return
	}

	if ev.Action.Type != "" {
		metrics.WebhookEvents.WithLabelValues(ev.Action.Type).Inc()
	}
	if ev.Action.Type == "updateCard" && ev.Action.Data.ListAfter.Name != "" {
		logger.Info("webhook: card moved on board",
			"card_id", ev.Action.Data.Card.ID,
			"card", ev.Action.Data.Card.Name,
			"from", ev.Action.Data.ListBefore.Name,
			"to", ev.Action.Data.ListAfter.Name,
		)
	}

	w.WriteHeader(http.StatusOK)
}
