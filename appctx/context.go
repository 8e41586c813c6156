package appctx

import (
	"context"

	"slackproxy/models"
)

type contextKey string

const InstallationContextKey contextKey = "installation"

// SetInstallation stores the authorized Slack installation on the request context.
func SetInstallation(ctx context.Context, installation *models.Installation) context.Context {
	return context.WithValue(ctx, InstallationContextKey, installation)
}

// GetInstallation returns the installation set by the authorizer middleware.
func GetInstallation(ctx context.Context) (*models.Installation, bool) {
	installation, ok := ctx.Value(InstallationContextKey).(*models.Installation)
	return installation, ok && installation != nil
}
