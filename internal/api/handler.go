package api

import (
	"encoding/json"
	"net/http"

	"rule-preview-engine/internal/catalog"
	"rule-preview-engine/internal/engine"
	"rule-preview-engine/internal/storage"
)

// PreviewHandler serves rule preview simulations and the stored rule list.
type PreviewHandler struct {
	Eng   *engine.PreviewEngine
	Cat   catalog.Catalog
	Rules *storage.RuleCache
}

func NewPreviewHandler(eng *engine.PreviewEngine, cat catalog.Catalog, rules *storage.RuleCache) *PreviewHandler {
	return &PreviewHandler{Eng: eng, Cat: cat, Rules: rules}
}

type previewRequest struct {
	Rule       engine.Rule `json:"rule"`
	Population int         `json:"population,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Preview validates the posted rule and simulates it against the current
// account sample. Validation failures come back as 422 with a field-level
// message so authoring mistakes block activation instead of skewing the
// preview.
func (h *PreviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := h.Cat.ValidateRule(req.Rule); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	if err := engine.Validate(req.Rule); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, h.Eng.Preview(req.Rule, req.Population))
}

// ListRules returns the cached active rules.
func (h *PreviewHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules := h.Rules.GetRules()
	if len(rules) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

// Catalog returns the condition/action reference data for authoring tools.
func (h *PreviewHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Cat)
}
