package host

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bft-labs/actionbridge/internal/ports"
)

const maxBodyBytes = 1 << 20

// NewHTTPHandler serves host calls over HTTP.
// Rejections are answered with 422 and a ports.ErrorBody.
func NewHTTPHandler(h ports.Host, logger ports.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(ports.CallPathPrefix, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, ports.CallPathPrefix)
		correlationID := r.Header.Get(ports.CorrelationHeader)
		w.Header().Set(ports.CorrelationHeader, correlationID)

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		var args ports.CallArgs
		if err := json.Unmarshal(body, &args); err != nil {
			writeJSON(w, http.StatusBadRequest, ports.ErrorBody{Error: Reject(CodeInvalid, "decode call args: %v", err)})
			return
		}

		reply, err := h.Call(r.Context(), name, args.Message)
		if err != nil {
			var rej *ports.RejectError
			if errors.As(err, &rej) {
				writeJSON(w, http.StatusUnprocessableEntity, ports.ErrorBody{Error: rej})
				return
			}
			logger.Error("call failed",
				ports.String("name", name),
				ports.String("correlation_id", correlationID),
				ports.Err(err),
			)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, reply)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
