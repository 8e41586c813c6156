package installations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/mo"

	"slackproxy/clients"
	"slackproxy/config"
	"slackproxy/core"
	"slackproxy/db"
	"slackproxy/models"
	"slackproxy/salesnotif"
	"slackproxy/services"
)

const slackAuthorizeURL = "https://slack.com/oauth/v2/authorize"

// ErrInvalidOAuthState is returned when an OAuth callback carries a state this
// proxy never issued, or one that was already used or has expired.
var ErrInvalidOAuthState = errors.New("invalid oauth state")

type InstallationsService struct {
	installationsRepo *db.PostgresInstallationsRepository
	relationsRepo     *db.PostgresRelationsRepository
	statesRepo        *db.RedisOAuthStatesRepository
	txManager         services.TransactionManager
	oauthClient       clients.SlackOAuthClient
	slackConfig       config.SlackConfig
	redirectURL       string
}

func NewInstallationsService(
	installationsRepo *db.PostgresInstallationsRepository,
	relationsRepo *db.PostgresRelationsRepository,
	statesRepo *db.RedisOAuthStatesRepository,
	txManager services.TransactionManager,
	oauthClient clients.SlackOAuthClient,
	slackConfig config.SlackConfig,
	redirectURL string,
) *InstallationsService {
	return &InstallationsService{
		installationsRepo: installationsRepo,
		relationsRepo:     relationsRepo,
		statesRepo:        statesRepo,
		txManager:         txManager,
		oauthClient:       oauthClient,
		slackConfig:       slackConfig,
		redirectURL:       redirectURL,
	}
}

// NewInstallURL issues a one-time OAuth state and returns Slack's authorize URL.
func (s *InstallationsService) NewInstallURL(ctx context.Context) (string, error) {
	state, err := core.NewOpaqueToken()
	if err != nil {
		return "", err
	}
	if err := s.statesRepo.SaveState(ctx, state); err != nil {
		return "", fmt.Errorf("failed to save oauth state: %w", err)
	}

	query := url.Values{}
	query.Set("client_id", s.slackConfig.ClientID)
	query.Set("scope", strings.Join(s.slackConfig.Scopes, ","))
	query.Set("state", state)
	if s.redirectURL != "" {
		query.Set("redirect_uri", s.redirectURL)
	}

	return slackAuthorizeURL + "?" + query.Encode(), nil
}

// CompleteInstall verifies the OAuth state, exchanges the code for a bot token
// and stores the installation.
func (s *InstallationsService) CompleteInstall(ctx context.Context, state, code string) (*models.Installation, error) {
	log.Printf("📋 Starting to complete Slack installation")

	valid, err := s.statesRepo.ConsumeState(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to verify oauth state: %w", err)
	}
	if !valid {
		return nil, ErrInvalidOAuthState
	}
	if code == "" {
		return nil, fmt.Errorf("oauth code is missing")
	}

	response, err := s.oauthClient.GetOAuthV2Response(
		ctx,
		http.DefaultClient,
		s.slackConfig.ClientID,
		s.slackConfig.ClientSecret,
		code,
		s.redirectURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	installation := &models.Installation{
		ID:        core.NewID(core.InstallationIDPrefix),
		TeamID:    response.TeamID,
		TeamName:  response.TeamName,
		BotToken:  response.AccessToken,
		BotUserID: response.BotUserID,
	}
	if response.EnterpriseID != "" {
		installation.EnterpriseID = &response.EnterpriseID
	}

	if err := s.installationsRepo.UpsertInstallation(ctx, installation); err != nil {
		return nil, fmt.Errorf("failed to store installation: %w", err)
	}

	salesnotif.New(installation.TeamID, fmt.Sprintf("Slack workspace installed the proxy: %s", installation.TeamName))
	log.Printf("📋 Completed successfully - installed into team %s", installation.TeamID)
	return installation, nil
}

func (s *InstallationsService) GetInstallationByTeamOrEnterpriseID(
	ctx context.Context,
	teamID, enterpriseID string,
) (mo.Option[*models.Installation], error) {
	key := models.InstallationKey(teamID, enterpriseID)
	if key == "" {
		return mo.None[*models.Installation](), nil
	}

	installation, err := s.installationsRepo.GetInstallationByTeamOrEnterpriseID(ctx, key)
	if err != nil {
		return mo.None[*models.Installation](), fmt.Errorf("failed to get installation: %w", err)
	}
	return installation, nil
}

// Uninstall removes the installation and all of its relations atomically.
// Unknown installations are ignored.
func (s *InstallationsService) Uninstall(ctx context.Context, teamID, enterpriseID string) error {
	log.Printf("📋 Starting to uninstall team %s", models.InstallationKey(teamID, enterpriseID))

	maybeInstallation, err := s.GetInstallationByTeamOrEnterpriseID(ctx, teamID, enterpriseID)
	if err != nil {
		return err
	}
	installation, ok := maybeInstallation.Get()
	if !ok {
		log.Printf("⚠️ No installation found for team %s, nothing to uninstall", teamID)
		return nil
	}

	var deletedRelations int64
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		deleted, err := s.relationsRepo.DeleteRelationsByInstallationID(ctx, installation.ID)
		if err != nil {
			return err
		}
		deletedRelations = deleted

		if _, err := s.installationsRepo.DeleteInstallation(ctx, installation.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to uninstall %s: %w", installation.ID, err)
	}

	log.Printf("📋 Completed successfully - uninstalled %s and removed %d relations", installation.ID, deletedRelations)
	return nil
}
