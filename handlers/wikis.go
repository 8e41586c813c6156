package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"slackproxy/models"
	"slackproxy/usecases/slackproxy"
)

// WikiTokenHeader carries the wiki-to-proxy token on calls made by wikis.
const WikiTokenHeader = "x-growi-gtop-tokens"

type WikisHandler struct {
	useCase *slackproxy.SlackProxyUseCase
}

func NewWikisHandler(useCase *slackproxy.SlackProxyUseCase) *WikisHandler {
	return &WikisHandler{useCase: useCase}
}

type SupportedCommandsRequest struct {
	PermissionsForBroadcastUse models.CommandPermissions `json:"permissionsForBroadcastUseCommands"`
	PermissionsForSingleUse    models.CommandPermissions `json:"permissionsForSingleUseCommands"`
}

type RelationResponse struct {
	WikiURI                    string                    `json:"growiUri"`
	PermissionsForBroadcastUse models.CommandPermissions `json:"permissionsForBroadcastUseCommands"`
	PermissionsForSingleUse    models.CommandPermissions `json:"permissionsForSingleUseCommands"`
	PermissionsExpireAt        string                    `json:"expiredAtCommands,omitempty"`
}

func wikiToken(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(WikiTokenHeader))
}

func (h *WikisHandler) HandleRelationTest(w http.ResponseWriter, r *http.Request) {
	token := wikiToken(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	result, err := h.useCase.TestRelation(r.Context(), token)
	if err != nil {
		log.Printf("❌ Failed to test relation: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	switch result {
	case slackproxy.RelationTestRegistered, slackproxy.RelationTestConnected:
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		http.Error(w, "relation not found", http.StatusBadRequest)
	}
}

func (h *WikisHandler) HandleSupportedCommands(w http.ResponseWriter, r *http.Request) {
	token := wikiToken(r)
	if token == "" {
		http.Error(w, "missing token", http.StatusBadRequest)
		return
	}

	var request SupportedCommandsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Printf("❌ Failed to parse supported commands: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	maybeRelation, err := h.useCase.UpdateSupportedCommands(
		r.Context(),
		token,
		request.PermissionsForBroadcastUse,
		request.PermissionsForSingleUse,
	)
	if err != nil {
		log.Printf("❌ Failed to update supported commands: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	relation, ok := maybeRelation.Get()
	if !ok {
		http.Error(w, "relation not found", http.StatusBadRequest)
		return
	}

	response := RelationResponse{
		WikiURI:                    relation.WikiURI,
		PermissionsForBroadcastUse: relation.PermissionsForBroadcastUse,
		PermissionsForSingleUse:    relation.PermissionsForSingleUse,
	}
	if relation.PermissionsExpireAt != nil {
		response.PermissionsExpireAt = relation.PermissionsExpireAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, map[string]RelationResponse{"relation": response})
}

func (h *WikisHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering wiki endpoints")
	router.HandleFunc("/g2s/relation-test", h.HandleRelationTest).Methods("POST")
	router.HandleFunc("/g2s/supported-commands", h.HandleSupportedCommands).Methods("PUT")
	log.Printf("✅ Wiki endpoints registered successfully")
}
