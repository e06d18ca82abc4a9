package settings

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/kvist-io/settingstore/internal/models"
	"github.com/kvist-io/settingstore/internal/pagination"
	"github.com/kvist-io/settingstore/internal/repository"
	"github.com/kvist-io/settingstore/pkg/debug"
	"github.com/kvist-io/settingstore/pkg/httputil"
)

// maxBodySize caps setting payloads at 1 MiB.
const maxBodySize = 1 << 20

// Handler handles HTTP requests for setting operations
type Handler struct {
	settingRepo *repository.SettingRepository
}

// NewHandler creates a new settings handler
func NewHandler(settingRepo *repository.SettingRepository) *Handler {
	return &Handler{settingRepo: settingRepo}
}

// listResponse is the body of a successful list request.
type listResponse struct {
	Items      []models.SettingEnvelope `json:"items"`
	Pagination pagination.Meta          `json:"pagination"`
}

// HandleList handles GET /settings with optional limit/offset query params
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	settings, totalCount, err := h.settingRepo.List(r.Context(), params)
	if err != nil {
		debug.Error("Error listing settings: %v", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Error retrieving settings")
		return
	}

	items := make([]models.SettingEnvelope, 0, len(settings))
	for i := range settings {
		items = append(items, settings[i].Envelope())
	}

	httputil.RespondWithJSON(w, http.StatusOK, listResponse{
		Items:      items,
		Pagination: pagination.NewMeta(totalCount, params),
	})
}

// HandleCreate handles POST /settings
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		debug.Error("Error reading create request body: %v", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	data, err := models.ValidateSettingData(body)
	if err != nil {
		debug.Debug("Rejected create payload: %v", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "Body must be a non-empty JSON object")
		return
	}

	setting, err := h.settingRepo.Create(r.Context(), data)
	if err != nil {
		debug.Error("Error creating setting: %v", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Error creating setting")
		return
	}

	debug.Info("Created setting %s", setting.ID)
	httputil.RespondWithJSON(w, http.StatusCreated, setting.Envelope())
}

// HandleGet handles GET /settings/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseSettingID(mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid setting identifier format")
		return
	}

	setting, err := h.settingRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.RespondWithError(w, http.StatusNotFound, "Setting not found")
		} else {
			debug.Error("Error getting setting %s: %v", id, err)
			httputil.RespondWithError(w, http.StatusInternalServerError, "Error retrieving setting")
		}
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, setting.Envelope())
}

// HandleReplace handles PUT /settings/{id} with a full payload overwrite
func (h *Handler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseSettingID(mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid setting identifier format")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		debug.Error("Error reading replace request body: %v", err)
		httputil.RespondWithError(w, http.StatusBadRequest, "Could not read request body")
		return
	}

	data, err := models.ValidateSettingData(body)
	if err != nil {
		debug.Debug("Rejected replace payload for %s: %v", id, err)
		httputil.RespondWithError(w, http.StatusBadRequest, "Body must be a non-empty JSON object")
		return
	}

	setting, err := h.settingRepo.Replace(r.Context(), id, data)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httputil.RespondWithError(w, http.StatusNotFound, "Setting not found")
		} else {
			debug.Error("Error replacing setting %s: %v", id, err)
			httputil.RespondWithError(w, http.StatusInternalServerError, "Error updating setting")
		}
		return
	}

	debug.Info("Replaced setting %s", setting.ID)
	httputil.RespondWithJSON(w, http.StatusOK, setting.Envelope())
}

// HandleDelete handles DELETE /settings/{id}. Delete is idempotent: a
// well-formed identifier always succeeds with 204, whether or not it existed.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseSettingID(mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid setting identifier format")
		return
	}

	removed, err := h.settingRepo.Delete(r.Context(), id)
	if err != nil {
		debug.Error("Error deleting setting %s: %v", id, err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Error deleting setting")
		return
	}

	if removed {
		debug.Info("Deleted setting %s", id)
	} else {
		debug.Debug("Delete for %s matched no rows", id)
	}

	w.WriteHeader(http.StatusNoContent)
}
