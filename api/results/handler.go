package results

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/emitest/core/compliance"
	"github.com/kilianp07/emitest/core/model"
)

// NewResultsHandler returns an HTTP handler exposing test verdicts via
// GET /api/results. Without an id query parameter all entries are listed;
// with one, the matching entry is returned, 404 when the test never
// completed and 400 when the identifier is malformed.
func NewResultsHandler(registry *compliance.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := r.URL.Query().Get("id")
		w.Header().Set("Content-Type", "application/json")
		if id == "" {
			if err := json.NewEncoder(w).Encode(registry.List()); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		if _, err := compliance.ParseVehicleID(id); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, ok := registry.Lookup(id)
		if !ok {
			http.Error(w, compliance.ErrUnknownVehicle.Error(), http.StatusNotFound)
			return
		}
		if err := json.NewEncoder(w).Encode(compliance.Entry{VehicleID: id, Result: res}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// FleetEntry pairs a vehicle identifier with its description.
type FleetEntry struct {
	VehicleID string `json:"vehicle_id"`
	model.Description
}

// NewFleetHandler returns an HTTP handler exposing vehicle details via
// GET /api/fleet, addressed by the same identifiers as the results.
func NewFleetHandler(vehicles []model.Vehicle) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := r.URL.Query().Get("id")
		w.Header().Set("Content-Type", "application/json")
		if id == "" {
			entries := make([]FleetEntry, 0, len(vehicles))
			for i, v := range vehicles {
				entries = append(entries, FleetEntry{VehicleID: compliance.VehicleID(i), Description: v.Describe()})
			}
			if err := json.NewEncoder(w).Encode(entries); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		idx, err := compliance.ParseVehicleID(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if idx >= len(vehicles) {
			http.Error(w, compliance.ErrUnknownVehicle.Error(), http.StatusNotFound)
			return
		}
		entry := FleetEntry{VehicleID: id, Description: vehicles[idx].Describe()}
		if err := json.NewEncoder(w).Encode(entry); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
