// Package httpapi exposes the expedition orchestrator as a JSON HTTP
// API. The handlers are deliberately thin: decode, delegate, encode.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/errors"
	"github.com/caravangame/caravan-api/internal/orchestrators/expedition"
)

// Config holds the dependencies for the HTTP handler
type Config struct {
	ExpeditionService expedition.Service
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ExpeditionService == nil {
		vb.RequiredField("ExpeditionService")
	}

	return vb.Build()
}

// Handler serves the expedition API.
type Handler struct {
	svc expedition.Service
}

// NewHandler creates a new HTTP handler with the provided dependencies.
func NewHandler(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Handler{svc: cfg.ExpeditionService}, nil
}

// Routes returns the API route table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.health)

	mux.HandleFunc("POST /v1/games", h.newGame)
	mux.HandleFunc("GET /v1/games", h.listSaves)
	mux.HandleFunc("GET /v1/games/{slot}", h.getState)
	mux.HandleFunc("DELETE /v1/games/{slot}", h.deleteSave)

	mux.HandleFunc("POST /v1/games/{slot}/location", h.setLocation)
	mux.HandleFunc("POST /v1/games/{slot}/time", h.advanceTime)

	mux.HandleFunc("POST /v1/games/{slot}/jobs", h.queueJob)
	mux.HandleFunc("POST /v1/games/{slot}/jobs/cancel", h.cancelJob)
	mux.HandleFunc("POST /v1/games/{slot}/crafts", h.queueCraft)
	mux.HandleFunc("POST /v1/games/{slot}/crafts/cancel", h.cancelCraft)

	mux.HandleFunc("POST /v1/games/{slot}/stations/upgrade", h.upgradeStation)
	mux.HandleFunc("POST /v1/games/{slot}/transfer", h.transferItems)
	mux.HandleFunc("POST /v1/games/{slot}/recruit", h.recruitSurvivor)
	mux.HandleFunc("POST /v1/games/{slot}/items/use", h.useItem)
	mux.HandleFunc("POST /v1/games/{slot}/equipment/equip", h.equipItem)
	mux.HandleFunc("POST /v1/games/{slot}/equipment/unequip", h.unequipItem)

	return mux
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, code.HTTPStatus(), errorBody{
		Code:    code.String(),
		Message: errors.GetMessage(err),
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, errors.InvalidArgumentf("invalid request body: %v", err))
		return false
	}
	return true
}

type newGameRequest struct {
	Slot       string `json:"slot"`
	Seed       string `json:"seed"`
	PlayerName string `json:"player_name"`
}

func (h *Handler) newGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.NewGame(r.Context(), &expedition.NewGameInput{
		Slot:       req.Slot,
		Seed:       req.Seed,
		PlayerName: req.PlayerName,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, output.State)
}

func (h *Handler) listSaves(w http.ResponseWriter, r *http.Request) {
	output, err := h.svc.ListSaves(r.Context(), &expedition.ListSavesInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"slots": output.Slots})
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	output, err := h.svc.GetState(r.Context(), &expedition.GetStateInput{
		Slot: r.PathValue("slot"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}

func (h *Handler) deleteSave(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.DeleteSave(r.Context(), &expedition.DeleteSaveInput{
		Slot: r.PathValue("slot"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setLocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (h *Handler) setLocation(w http.ResponseWriter, r *http.Request) {
	var req setLocationRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.SetLocation(r.Context(), &expedition.SetLocationInput{
		Slot: r.PathValue("slot"),
		Lat:  req.Lat,
		Lon:  req.Lon,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}

type advanceTimeRequest struct {
	DeltaMs int64 `json:"delta_ms"`
}

func (h *Handler) advanceTime(w http.ResponseWriter, r *http.Request) {
	var req advanceTimeRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.AdvanceTime(r.Context(), &expedition.AdvanceTimeInput{
		Slot:    r.PathValue("slot"),
		DeltaMs: req.DeltaMs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}

type queueJobRequest struct {
	CharacterID     string        `json:"character_id"`
	JobID           string        `json:"job_id"`
	Pace            entities.Pace `json:"pace"`
	ContainerItemID string        `json:"container_item_id,omitempty"`
	ActionJobID     string        `json:"action_job_id,omitempty"`
}

func (h *Handler) queueJob(w http.ResponseWriter, r *http.Request) {
	var req queueJobRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.QueueJob(r.Context(), &expedition.QueueJobInput{
		Slot:            r.PathValue("slot"),
		CharacterID:     req.CharacterID,
		JobID:           req.JobID,
		Pace:            req.Pace,
		ContainerItemID: req.ContainerItemID,
		ActionJobID:     req.ActionJobID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, output.Entry)
}

type cancelJobRequest struct {
	CharacterID string `json:"character_id"`
	EntryID     string `json:"entry_id"`
}

func (h *Handler) cancelJob(w http.ResponseWriter, r *http.Request) {
	var req cancelJobRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.CancelJob(r.Context(), &expedition.CancelJobInput{
		Slot:        r.PathValue("slot"),
		CharacterID: req.CharacterID,
		EntryID:     req.EntryID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}

type queueCraftRequest struct {
	StationID string `json:"station_id"`
	RecipeID  string `json:"recipe_id"`
}

func (h *Handler) queueCraft(w http.ResponseWriter, r *http.Request) {
	var req queueCraftRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.QueueCraft(r.Context(), &expedition.QueueCraftInput{
		Slot:      r.PathValue("slot"),
		StationID: req.StationID,
		RecipeID:  req.RecipeID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, output.Entry)
}

type cancelCraftRequest struct {
	StationID string `json:"station_id"`
	EntryID   string `json:"entry_id"`
}

func (h *Handler) cancelCraft(w http.ResponseWriter, r *http.Request) {
	var req cancelCraftRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.CancelCraft(r.Context(), &expedition.CancelCraftInput{
		Slot:      r.PathValue("slot"),
		StationID: req.StationID,
		EntryID:   req.EntryID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}

type upgradeStationRequest struct {
	StationID string `json:"station_id"`
}

func (h *Handler) upgradeStation(w http.ResponseWriter, r *http.Request) {
	var req upgradeStationRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.UpgradeStation(r.Context(), &expedition.UpgradeStationInput{
		Slot:      r.PathValue("slot"),
		StationID: req.StationID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}

type transferItemsRequest struct {
	CharacterID string                       `json:"character_id"`
	Direction   expedition.TransferDirection `json:"direction"`
	ItemID      string                       `json:"item_id,omitempty"`
	Quantity    int32                        `json:"quantity,omitempty"`
	ItemUID     string                       `json:"item_uid,omitempty"`
}

func (h *Handler) transferItems(w http.ResponseWriter, r *http.Request) {
	var req transferItemsRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.TransferItems(r.Context(), &expedition.TransferItemsInput{
		Slot:        r.PathValue("slot"),
		CharacterID: req.CharacterID,
		Direction:   req.Direction,
		ItemID:      req.ItemID,
		Quantity:    req.Quantity,
		ItemUID:     req.ItemUID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}

type recruitSurvivorRequest struct {
	TemplateID string `json:"template_id"`
}

func (h *Handler) recruitSurvivor(w http.ResponseWriter, r *http.Request) {
	var req recruitSurvivorRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.RecruitSurvivor(r.Context(), &expedition.RecruitSurvivorInput{
		Slot:       r.PathValue("slot"),
		TemplateID: req.TemplateID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, output.Character)
}

type useItemRequest struct {
	CharacterID string `json:"character_id"`
	ItemID      string `json:"item_id"`
}

func (h *Handler) useItem(w http.ResponseWriter, r *http.Request) {
	var req useItemRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.UseItem(r.Context(), &expedition.UseItemInput{
		Slot:        r.PathValue("slot"),
		CharacterID: req.CharacterID,
		ItemID:      req.ItemID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}

type equipItemRequest struct {
	CharacterID string `json:"character_id"`
	ItemUID     string `json:"item_uid"`
}

func (h *Handler) equipItem(w http.ResponseWriter, r *http.Request) {
	var req equipItemRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.EquipItem(r.Context(), &expedition.EquipItemInput{
		Slot:        r.PathValue("slot"),
		CharacterID: req.CharacterID,
		ItemUID:     req.ItemUID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}

type unequipItemRequest struct {
	CharacterID string `json:"character_id"`
	EquipSlot   string `json:"equip_slot"`
}

func (h *Handler) unequipItem(w http.ResponseWriter, r *http.Request) {
	var req unequipItemRequest
	if !decode(w, r, &req) {
		return
	}

	output, err := h.svc.UnequipItem(r.Context(), &expedition.UnequipItemInput{
		Slot:        r.PathValue("slot"),
		CharacterID: req.CharacterID,
		EquipSlot:   req.EquipSlot,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output.State)
}
