package selections

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/samber/mo"

	"slackproxy/core"
	"slackproxy/db"
	"slackproxy/models"
)

type SelectionsService struct {
	selectionsRepo *db.RedisSelectionsRepository
}

func NewSelectionsService(repo *db.RedisSelectionsRepository) *SelectionsService {
	return &SelectionsService{selectionsRepo: repo}
}

// SaveSelection stores a single-use command until the user picks a wiki.
// An ID is assigned when the selection has none.
func (s *SelectionsService) SaveSelection(ctx context.Context, selection *models.PendingSelection) error {
	log.Printf("📋 Starting to save pending selection for command %s", selection.Command.Type)
	if len(selection.WikiURIs) == 0 {
		return fmt.Errorf("pending selection has no wikis to choose from")
	}

	if selection.ID == "" {
		selection.ID = core.NewID(core.SelectionIDPrefix)
	}
	if selection.CreatedAt.IsZero() {
		selection.CreatedAt = time.Now().UTC()
	}

	if err := s.selectionsRepo.SaveSelection(ctx, selection); err != nil {
		return fmt.Errorf("failed to save pending selection: %w", err)
	}

	log.Printf("📋 Completed successfully - saved pending selection %s", selection.ID)
	return nil
}

// TakeSelection returns the selection and forgets it. Unknown, expired and
// already taken selections are all absent.
func (s *SelectionsService) TakeSelection(ctx context.Context, id string) (mo.Option[*models.PendingSelection], error) {
	if !core.IsValidULID(id) {
		log.Printf("⚠️ Ignoring malformed selection id %q", id)
		return mo.None[*models.PendingSelection](), nil
	}

	selection, err := s.selectionsRepo.TakeSelection(ctx, id)
	if err != nil {
		return mo.None[*models.PendingSelection](), fmt.Errorf("failed to take pending selection: %w", err)
	}
	return selection, nil
}
