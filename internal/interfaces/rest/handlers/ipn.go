package handlers

import (
	"io"
	"net/http"

	"github.com/DanielPopoola/ipn-relay/internal/interfaces/rest"
)

const maxNotificationBytes = 1 << 20

type IPNResponse struct {
	Status              string `json:"status"`
	ForwardedTo         string `json:"forwardedTo"`
	ResponseFromSymfony any    `json:"responseFromSymfony"`
}

// ReceiveIPN handles POST /payment-ipn. The source address is taken from the TCP peer,
// never from forwarding headers. A body that cannot be read is handed to the relay as
// a read error so the allowlist still decides first.
func (h *Handlers) ReceiveIPN(w http.ResponseWriter, r *http.Request) {
	body, readErr := io.ReadAll(http.MaxBytesReader(w, r.Body, maxNotificationBytes))
	if readErr != nil {
		body = nil
	}

	outcome, err := h.relay.Relay(r.Context(), r.RemoteAddr, body, readErr)
	if err != nil {
		rest.WriteError(w, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, IPNResponse{
		Status:              "ok",
		ForwardedTo:         outcome.Destination,
		ResponseFromSymfony: outcome.Response,
	})
}
