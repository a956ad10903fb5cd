// internal/adapters/in/http/mall/handler/helper_handler.go
package mallHandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/application/mutation"
)

// ============================================================
// HTTP helpers (shared across the mall handler set)
// ============================================================

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed"})
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": strings.TrimSpace(msg)})
}

func internalError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": strings.TrimSpace(msg)})
}

// unauthorizedLogin tells the frontend to send the buyer to the login flow.
func unauthorizedLogin(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"error":  "unauthorized",
		"action": "login",
	})
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func readJSON(r *http.Request, dst any) error {
	if dst == nil {
		return errors.New("dst is nil")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20)) // 1MB
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ============================================================
// Collection mutation sub-routes (shared by cart and favorites)
// ============================================================

// mutationRequestBody is the JSON body of a toggle/confirm call.
type mutationRequestBody struct {
	Direction       string            `json:"direction,omitempty"`
	Quantity        int               `json:"quantity,omitempty"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
}

type mutationStateResponse struct {
	ProductID string `json:"productId"`
	State     string `json:"state"`
}

func writeMutationState(w http.ResponseWriter, code int, productID string, st mutation.State) {
	writeJSON(w, code, mutationStateResponse{ProductID: productID, State: string(st)})
}

func writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mutation.ErrUnauthenticated):
		unauthorizedLogin(w)
	case errors.Is(err, mutation.ErrMutationInFlight):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "mutation_in_flight"})
	case errors.Is(err, mutation.ErrNoOptionSelection):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no_option_selection"})
	case errors.Is(err, mutation.ErrInvalidKey):
		badRequest(w, "invalid product id")
	case errors.Is(err, mutation.ErrReleased):
		writeJSON(w, http.StatusGone, map[string]string{"error": "slot_released"})
	default:
		internalError(w, err.Error())
	}
}

// serveMutationSubroute dispatches the shared /{productId}[/options|/state]
// layout onto the coordinator for one collection kind. Returns false when
// the path does not belong to the mutation surface.
func serveMutationSubroute(w http.ResponseWriter, r *http.Request, mut *mutation.Coordinator, kind mutation.Kind, rest string) bool {
	productID := rest
	sub := ""
	if i := strings.Index(rest, "/"); i >= 0 {
		productID, sub = rest[:i], rest[i+1:]
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		notFound(w)
		return true
	}

	switch sub {
	case "":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return true
		}
		var body mutationRequestBody
		if err := readJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
			badRequest(w, "invalid json: "+err.Error())
			return true
		}
		st, err := mut.Request(r.Context(), productID, kind, mutation.Request{
			Direction:       mutation.Direction(strings.TrimSpace(body.Direction)),
			Quantity:        body.Quantity,
			SelectedOptions: body.SelectedOptions,
		})
		if err != nil {
			writeMutationError(w, err)
			return true
		}
		writeMutationState(w, http.StatusAccepted, productID, st)
		return true

	case "options":
		switch r.Method {
		case http.MethodPost:
			var body mutationRequestBody
			if err := readJSON(r, &body); err != nil {
				badRequest(w, "invalid json: "+err.Error())
				return true
			}
			st, err := mut.ConfirmOptions(r.Context(), productID, kind, body.SelectedOptions)
			if err != nil {
				writeMutationError(w, err)
				return true
			}
			writeMutationState(w, http.StatusAccepted, productID, st)
		case http.MethodDelete:
			if err := mut.CancelOptions(r.Context(), productID, kind); err != nil {
				writeMutationError(w, err)
				return true
			}
			writeMutationState(w, http.StatusOK, productID, mutation.StateIdle)
		default:
			methodNotAllowed(w)
		}
		return true

	case "state":
		switch r.Method {
		case http.MethodGet:
			st, err := mut.StateOf(r.Context(), productID, kind)
			if err != nil {
				writeMutationError(w, err)
				return true
			}
			writeMutationState(w, http.StatusOK, productID, st)
		case http.MethodDelete:
			// consumer teardown: detach the slot, drop late resolutions
			if err := mut.Release(r.Context(), productID, kind); err != nil {
				writeMutationError(w, err)
				return true
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "released"})
		default:
			methodNotAllowed(w)
		}
		return true
	}

	return false
}
