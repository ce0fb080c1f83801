// mock-gateway stands in for the external payment gateway and the tournament
// service in local development: it issues order ids, reports every tournament
// as open for registration, and signs simulated payment callbacks with the
// shared secret so the engine's verification path can be exercised end to end.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/courtside/payments-engine/internal/logging"
	"github.com/courtside/payments-engine/internal/service/payments"
)

func main() {
	logging.Init("mock-gateway", "info", os.Getenv("APP_ENV"))

	secret := os.Getenv("GATEWAY_SECRET")
	if secret == "" {
		secret = "dev-secret"
		slog.Warn("GATEWAY_SECRET not set, using dev default")
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
			return
		}

		orderID := "order_" + uuid.NewString()
		slog.Info("order created", "order_id", orderID, "amount", req.Amount, "currency", req.Currency)
		writeJSON(w, http.StatusCreated, map[string]string{"order_id": orderID})
	})

	mux.HandleFunc("GET /tournaments/{ref}/registration", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"open": true})
	})

	// Returns what a real gateway would redirect back with, so a payment can
	// be completed by hand against a running engine.
	mux.HandleFunc("POST /simulate/pay/{orderID}", func(w http.ResponseWriter, r *http.Request) {
		orderID := r.PathValue("orderID")
		paymentID := "pay_" + uuid.NewString()
		writeJSON(w, http.StatusOK, map[string]string{
			"provider_order_id":   orderID,
			"provider_payment_id": paymentID,
			"provider_signature":  payments.Signature(orderID, paymentID, secret),
		})
	})

	addr := ":8081"
	if port := os.Getenv("PORT"); port != "" {
		addr = fmt.Sprintf(":%s", port)
	}

	slog.Info("mock gateway started", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
