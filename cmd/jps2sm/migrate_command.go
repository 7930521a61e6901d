package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/damonjavert/jps2sm-sub000/internal/models"
)

func newMigrateCommand(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate <url|group-id> [<url|group-id>...]",
		Short: "Migrate one or more release groups",
		Long: `Migrate release groups given as JPS group URLs or bare group ids.

A URL of the form torrents.php?id=N migrates every release in the group;
torrents.php?id=N&torrentid=M migrates only that release.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.bootstrap()
			if err != nil {
				return err
			}
			defer rt.Close()

			stats := &models.RunStats{}

			for _, arg := range args {
				groupID, wantedIDs, err := parseGroupArg(arg)
				if err != nil {
					return err
				}

				if err := rt.migrate.ProcessGroup(groupID, wantedIDs, stats); err != nil {
					stats.AddFailedGroup(groupID)
					rt.logger.WithError(err).WithField("group_id", groupID).Error("Group failed")
				}
			}

			fmt.Println(stats.Summary())
			return nil
		},
	}

	return cmd
}

// parseGroupArg accepts a bare numeric group id or a group URL, with an
// optional torrentid query parameter narrowing the run to one release.
func parseGroupArg(arg string) (int, map[string]struct{}, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if id <= 0 {
			return 0, nil, fmt.Errorf("invalid group id %q", arg)
		}
		return id, nil, nil
	}

	if !strings.Contains(arg, "torrents.php") {
		return 0, nil, fmt.Errorf("argument %q is neither a group id nor a group URL", arg)
	}

	u, err := url.Parse(arg)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to parse URL %q: %w", arg, err)
	}

	query := u.Query()
	groupID, err := strconv.Atoi(query.Get("id"))
	if err != nil || groupID <= 0 {
		return 0, nil, fmt.Errorf("URL %q has no valid group id", arg)
	}

	var wantedIDs map[string]struct{}
	if torrentID := query.Get("torrentid"); torrentID != "" {
		if _, err := strconv.Atoi(torrentID); err != nil {
			return 0, nil, fmt.Errorf("URL %q has an invalid torrent id", arg)
		}
		wantedIDs = map[string]struct{}{torrentID: {}}
	}

	return groupID, wantedIDs, nil
}
