package handlers

import (
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"slackproxy/services"
	"slackproxy/services/installations"
)

var installResultTemplate = template.Must(template.New("install").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>
`))

type installResult struct {
	Title   string
	Message string
}

type InstallHandler struct {
	installationsService services.InstallationsService
}

func NewInstallHandler(installationsService services.InstallationsService) *InstallHandler {
	return &InstallHandler{installationsService: installationsService}
}

func (h *InstallHandler) HandleInstall(w http.ResponseWriter, r *http.Request) {
	installURL, err := h.installationsService.NewInstallURL(r.Context())
	if err != nil {
		log.Printf("❌ Failed to build install URL: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, installURL, http.StatusFound)
}

func (h *InstallHandler) HandleOAuthRedirect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if errParam := query.Get("error"); errParam != "" {
		log.Printf("⚠️ Slack installation cancelled: %s", errParam)
		renderInstallResult(w, http.StatusBadRequest, installResult{
			Title:   "Installation cancelled",
			Message: "The app was not installed.",
		})
		return
	}

	installation, err := h.installationsService.CompleteInstall(r.Context(), query.Get("state"), query.Get("code"))
	if errors.Is(err, installations.ErrInvalidOAuthState) {
		renderInstallResult(w, http.StatusBadRequest, installResult{
			Title:   "Installation failed",
			Message: "This installation link has expired. Start the installation again.",
		})
		return
	}
	if err != nil {
		log.Printf("❌ Failed to complete installation: %v", err)
		renderInstallResult(w, http.StatusInternalServerError, installResult{
			Title:   "Installation failed",
			Message: "Something went wrong while installing the app. Please try again.",
		})
		return
	}

	renderInstallResult(w, http.StatusOK, installResult{
		Title:   "Installed",
		Message: "The app was installed into " + installation.TeamName + ". Run /growi register in Slack to connect a wiki.",
	})
}

func renderInstallResult(w http.ResponseWriter, status int, result installResult) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := installResultTemplate.Execute(w, result); err != nil {
		log.Printf("❌ Failed to render install result: %v", err)
	}
}

func (h *InstallHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering installation endpoints")
	router.HandleFunc("/slack/install", h.HandleInstall).Methods("GET")
	router.HandleFunc("/slack/oauth_redirect", h.HandleOAuthRedirect).Methods("GET")
	log.Printf("✅ Installation endpoints registered successfully")
}
