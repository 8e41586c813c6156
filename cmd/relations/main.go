package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jessevdk/go-flags"

	"slackproxy/config"
	"slackproxy/db"
	"slackproxy/models"
	"slackproxy/services/relations"
)

type Options struct {
	Installation string `long:"installation" description:"Only list relations of this installation id"`
	ExpiredOnly  bool   `long:"expired"      description:"Only list relations whose permissions have expired"`
	JSON         bool   `long:"json"         description:"Print relations as JSON"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	relationsService := relations.NewRelationsService(
		db.NewPostgresRelationsRepository(dbConn, cfg.DatabaseSchema),
		cfg.TTLConfig.Permissions,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var all []*models.Relation
	if opts.Installation != "" {
		all, err = relationsService.GetRelationsByInstallationID(ctx, opts.Installation)
	} else {
		all, err = relationsService.GetAllRelations(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list relations: %w", err)
	}

	selected := filterRelations(all, opts.ExpiredOnly, time.Now())
	if opts.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(selected)
	}
	return printRelations(os.Stdout, selected, time.Now())
}

func filterRelations(all []*models.Relation, expiredOnly bool, now time.Time) []*models.Relation {
	selected := make([]*models.Relation, 0, len(all))
	for _, relation := range all {
		if expiredOnly && !permissionsExpired(relation, now) {
			continue
		}
		selected = append(selected, relation)
	}
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].InstallationID != selected[j].InstallationID {
			return selected[i].InstallationID < selected[j].InstallationID
		}
		return selected[i].WikiURI < selected[j].WikiURI
	})
	return selected
}

func permissionsExpired(relation *models.Relation, now time.Time) bool {
	return relation.PermissionsExpireAt != nil && !now.Before(*relation.PermissionsExpireAt)
}

func commandNames(permissions models.CommandPermissions) string {
	names := make([]string, 0, len(permissions))
	for name, permission := range permissions {
		if permission.IsDenied() {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

func printRelations(out io.Writer, selected []*models.Relation, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INSTALLATION\tWIKI\tBROADCAST\tSINGLE USE\tEXPIRES")
	for _, relation := range selected {
		expires := "never"
		if relation.PermissionsExpireAt != nil {
			expires = relation.PermissionsExpireAt.UTC().Format(time.RFC3339)
			if permissionsExpired(relation, now) {
				expires += " (expired)"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			relation.InstallationID,
			relation.WikiURI,
			commandNames(relation.PermissionsForBroadcastUse),
			commandNames(relation.PermissionsForSingleUse),
			expires,
		)
	}
	return w.Flush()
}
