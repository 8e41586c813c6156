package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/slack-go/slack"

	"slackproxy/appctx"
	slackclient "slackproxy/clients/slack"
	"slackproxy/models"
	"slackproxy/usecases/slackproxy"
)

// BackgroundRunner wraps work that runs after the response has been written.
type BackgroundRunner interface {
	WrapBackgroundTask(taskName string, task func() error) func() error
}

type SlackHandler struct {
	signingSecret   string
	useCase         *slackproxy.SlackProxyUseCase
	background      BackgroundRunner
	deferredTimeout time.Duration
	deferred        sync.WaitGroup
}

func NewSlackHandler(
	signingSecret string,
	useCase *slackproxy.SlackProxyUseCase,
	background BackgroundRunner,
	deferredTimeout time.Duration,
) *SlackHandler {
	return &SlackHandler{
		signingSecret:   signingSecret,
		useCase:         useCase,
		background:      background,
		deferredTimeout: deferredTimeout,
	}
}

// verifySlackRequest checks the signing secret signature and returns the raw body.
func (h *SlackHandler) verifySlackRequest(r *http.Request) ([]byte, error) {
	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid secret verifier: %w", err)
	}

	body, err := io.ReadAll(io.TeeReader(r.Body, &verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	if err := verifier.Ensure(); err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// authorizeSlackRequest verifies the request signature and resolves the
// installation the request belongs to into the request context.
func (h *SlackHandler) authorizeSlackRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := h.verifySlackRequest(r)
		if err != nil {
			log.Printf("❌ Slack request rejected: %v", err)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		form, err := url.ParseQuery(string(body))
		if err != nil {
			log.Printf("❌ Failed to parse form body: %v", err)
			http.Error(w, "failed to parse body", http.StatusBadRequest)
			return
		}

		teamID, enterpriseID := formTeam(form)
		maybeInstallation, err := h.useCase.ResolveInstallation(r.Context(), teamID, enterpriseID)
		if err != nil {
			log.Printf("❌ Failed to resolve installation for team %s: %v", teamID, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		installation, ok := maybeInstallation.Get()
		if !ok {
			log.Printf("⚠️ Request from team %s without installation", teamID)
			// Interaction responses cannot carry a chat message.
			if form.Has("payload") {
				w.WriteHeader(http.StatusOK)
				return
			}
			writeJSON(w, http.StatusOK, slackclient.MessageResponse(notInstalledMessage()))
			return
		}

		next(w, r.WithContext(appctx.SetInstallation(r.Context(), installation)))
	}
}

// formTeam reads team and enterprise ids from a slash command form or from
// the JSON payload of an interaction form.
func formTeam(form url.Values) (string, string) {
	if raw := form.Get("payload"); raw != "" {
		var payload struct {
			Team struct {
				ID string `json:"id"`
			} `json:"team"`
			Enterprise *struct {
				ID string `json:"id"`
			} `json:"enterprise"`
			IsEnterpriseInstall bool `json:"is_enterprise_install"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return "", ""
		}
		enterpriseID := ""
		if payload.Enterprise != nil && payload.IsEnterpriseInstall {
			enterpriseID = payload.Enterprise.ID
		}
		return payload.Team.ID, enterpriseID
	}

	enterpriseID := ""
	if form.Get("is_enterprise_install") == "true" {
		enterpriseID = form.Get("enterprise_id")
	}
	return form.Get("team_id"), enterpriseID
}

func flattenForm(form url.Values) map[string]string {
	flat := make(map[string]string, len(form))
	for key := range form {
		flat[key] = form.Get(key)
	}
	return flat
}

func (h *SlackHandler) HandleSlackCommand(w http.ResponseWriter, r *http.Request) {
	installation, _ := appctx.GetInstallation(r.Context())

	command, err := slack.SlashCommandParse(r)
	if err != nil {
		log.Printf("❌ Failed to parse slash command: %v", err)
		http.Error(w, "failed to parse slash command", http.StatusBadRequest)
		return
	}

	log.Printf("⚡ Slash command %s from user %s in channel %s", command.Command, command.UserID, command.ChannelID)

	event := models.SlashCommandEvent{
		Command:      command.Command,
		Text:         command.Text,
		TeamID:       command.TeamID,
		TeamDomain:   command.TeamDomain,
		EnterpriseID: command.EnterpriseID,
		ChannelID:    command.ChannelID,
		ChannelName:  command.ChannelName,
		UserID:       command.UserID,
		UserName:     command.UserName,
		ResponseURL:  command.ResponseURL,
		TriggerID:    command.TriggerID,
		Payload:      flattenForm(r.PostForm),
	}

	response := h.useCase.HandleCommand(r.Context(), installation, event)
	h.writeCommandResponse(w, fmt.Sprintf("slash command %s", command.Text), response)
}

func (h *SlackHandler) HandleSlackInteraction(w http.ResponseWriter, r *http.Request) {
	installation, _ := appctx.GetInstallation(r.Context())

	if err := r.ParseForm(); err != nil {
		log.Printf("❌ Failed to parse interaction form: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(r.PostForm.Get("payload")), &callback); err != nil {
		log.Printf("❌ Failed to parse interaction payload: %v", err)
		http.Error(w, "failed to parse payload", http.StatusBadRequest)
		return
	}

	log.Printf("⚡ Interaction %s (%s) from user %s", callback.Type, callback.View.CallbackID, callback.User.ID)

	response := h.useCase.HandleInteraction(r.Context(), installation, callback, flattenForm(r.PostForm))
	h.writeCommandResponse(w, fmt.Sprintf("interaction %s", callback.Type), response)
}

type slackEventEnvelope struct {
	Type         string `json:"type"`
	Challenge    string `json:"challenge"`
	TeamID       string `json:"team_id"`
	EnterpriseID string `json:"enterprise_id"`
	Event        struct {
		Type string `json:"type"`
	} `json:"event"`
	Authorizations []struct {
		IsEnterpriseInstall bool `json:"is_enterprise_install"`
	} `json:"authorizations"`
}

func (e slackEventEnvelope) enterpriseInstallID() string {
	for _, authorization := range e.Authorizations {
		if authorization.IsEnterpriseInstall {
			return e.EnterpriseID
		}
	}
	return ""
}

func (h *SlackHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	body, err := h.verifySlackRequest(r)
	if err != nil {
		log.Printf("❌ Slack event rejected: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var envelope slackEventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		log.Printf("❌ Failed to parse JSON body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	switch envelope.Type {
	case "url_verification":
		log.Printf("🔐 Slack URL verification challenge received")
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(envelope.Challenge)); err != nil {
			log.Printf("❌ Failed to write challenge: %v", err)
		}
		return
	case "event_callback":
	default:
		log.Printf("📋 Non-event callback received: %s", envelope.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	switch envelope.Event.Type {
	case "app_uninstalled", "tokens_revoked":
		log.Printf("📨 %s received for team %s", envelope.Event.Type, envelope.TeamID)
		if err := h.useCase.HandleUninstall(r.Context(), envelope.TeamID, envelope.enterpriseInstallID()); err != nil {
			log.Printf("❌ Failed to uninstall team %s: %v", envelope.TeamID, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	default:
		log.Printf("⚠️ Unsupported event type: %s", envelope.Event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

// writeCommandResponse acknowledges Slack and starts deferred work, if any,
// on a context detached from the request.
func (h *SlackHandler) writeCommandResponse(w http.ResponseWriter, taskName string, response models.CommandResponse) {
	switch response.Kind {
	case models.CommandResponseImmediate:
		writeJSON(w, http.StatusOK, slackclient.MessageResponse(response.Message))
	case models.CommandResponseViewErrors:
		writeJSON(w, http.StatusOK, slack.NewErrorsViewSubmissionResponse(response.FieldErrors))
	case models.CommandResponseDeferred:
		w.WriteHeader(http.StatusOK)
		h.runDeferred(taskName, response.Deferred)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (h *SlackHandler) runDeferred(taskName string, reply models.DeferredReply) {
	h.deferred.Add(1)
	go func() {
		defer h.deferred.Done()

		ctx, cancel := context.WithTimeout(context.Background(), h.deferredTimeout)
		defer cancel()

		_ = h.background.WrapBackgroundTask(taskName, func() error {
			return reply(ctx)
		})()
	}()
}

// Wait blocks until every deferred reply started so far has finished.
func (h *SlackHandler) Wait() {
	h.deferred.Wait()
}

func notInstalledMessage() models.Message {
	return models.NewMessage(
		"The app is not installed in this workspace.",
		"*The app is not installed in this workspace.*",
		"Ask an admin to install it again.",
	)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ Failed to write JSON response: %v", err)
	}
}

func (h *SlackHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack endpoints")
	router.HandleFunc("/slack/commands", h.authorizeSlackRequest(h.HandleSlackCommand)).Methods("POST")
	router.HandleFunc("/slack/interactions", h.authorizeSlackRequest(h.HandleSlackInteraction)).Methods("POST")
	router.HandleFunc("/slack/events", h.HandleSlackEvent).Methods("POST")
	log.Printf("✅ Slack endpoints registered successfully")
}
