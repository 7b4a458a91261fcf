package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"game-tracker-go/internal/game"
	"game-tracker-go/internal/game/options"
)

func newUpcomingCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List games releasing soon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				days = a.cfg.UpcomingDays
			}
			if err := a.state.LoadUpcoming(cmd.Context(), days); err != nil {
				return err
			}
			printSnapshot(a.out, a.state.Snapshot())
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "release window in days (default from UPCOMING_DAYS)")
	return cmd
}

type gamesFlags struct {
	search    string
	platform  string
	genre     string
	from      string
	to        string
	ordering  string
	favorites bool
	page      int
	pageSize  int
}

// update turns the flags into a filter change, rejecting unknown orderings
// and malformed dates before anything is sent
func (f gamesFlags) update() (game.FilterUpdate, error) {
	ordering, err := options.ParseOrdering(f.ordering)
	if err != nil {
		return game.FilterUpdate{}, err
	}

	var dates game.DateRange
	if f.from != "" {
		if dates.Start, err = game.ParseReleaseDate(f.from); err != nil {
			return game.FilterUpdate{}, fmt.Errorf("invalid --from date %q: %w", f.from, err)
		}
	}
	if f.to != "" {
		if dates.End, err = game.ParseReleaseDate(f.to); err != nil {
			return game.FilterUpdate{}, fmt.Errorf("invalid --to date %q: %w", f.to, err)
		}
	}

	u := game.FilterUpdate{
		Search:        &f.search,
		Platform:      &f.platform,
		Genre:         &f.genre,
		Dates:         &dates,
		Ordering:      &ordering,
		FavoritesOnly: &f.favorites,
	}
	if f.pageSize > 0 {
		u.PageSize = &f.pageSize
	}
	return u, nil
}

func newGamesCmd(a *app) *cobra.Command {
	var f gamesFlags
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Search and filter the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := f.update()
			if err != nil {
				return err
			}
			if f.pageSize <= 0 && a.cfg.PageSize > 0 {
				u.PageSize = &a.cfg.PageSize
			}

			if err := a.state.UpdateFilters(cmd.Context(), u); err != nil {
				return err
			}
			if f.page > 1 {
				if err := a.state.SetPage(cmd.Context(), f.page); err != nil {
					return err
				}
			}
			printSnapshot(a.out, a.state.Snapshot())
			return nil
		},
	}

	cmd.Flags().StringVarP(&f.search, "search", "s", "", "match names containing this text")
	cmd.Flags().StringVar(&f.platform, "platform", options.All, "platform name, e.g. \"PlayStation 5\"")
	cmd.Flags().StringVar(&f.genre, "genre", options.All, "genre name, e.g. RPG")
	cmd.Flags().StringVar(&f.from, "from", "", "earliest release date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "latest release date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.ordering, "ordering", string(options.DefaultOrdering), "sort order: released, name, -rating, rating, -metacritic, -created")
	cmd.Flags().BoolVar(&f.favorites, "favorites", false, "only show favorites")
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "games per page (default from PAGE_SIZE)")
	return cmd
}

func parseGameID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("game id must be a positive integer, got %q", s)
	}
	return id, nil
}

// locate loads a list holding the game so the state store can act on it.
// The upcoming feed is tried first, then the unfiltered catalog.
func (a *app) locate(ctx context.Context, gameID int) (game.Game, error) {
	find := func() (game.Game, bool) {
		for _, g := range a.state.Games() {
			if g.ID == gameID {
				return g, true
			}
		}
		return game.Game{}, false
	}

	if err := a.state.LoadUpcoming(ctx, a.cfg.UpcomingDays); err != nil {
		return game.Game{}, err
	}
	if g, ok := find(); ok {
		return g, nil
	}

	a.state.ClearFilters()
	if err := a.state.LoadFiltered(ctx); err != nil {
		return game.Game{}, err
	}
	if g, ok := find(); ok {
		return g, nil
	}
	return game.Game{}, fmt.Errorf("%w: %d", game.ErrGameNotFound, gameID)
}

func newFavoriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <game-id>",
		Short: "Add a game to favorites, or remove it if already there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			g, err := a.locate(cmd.Context(), gameID)
			if err != nil {
				return err
			}
			if err := a.state.ToggleFavorite(cmd.Context(), gameID); err != nil {
				return err
			}

			if a.state.IsFavorite(gameID) {
				fmt.Fprintf(a.out, "Added %s to favorites\n", g.Name)
			} else {
				fmt.Fprintf(a.out, "Removed %s from favorites\n", g.Name)
			}
			return nil
		},
	}
}

func parseVote(s string) (game.VoteType, error) {
	switch s {
	case "up", string(game.VoteUp):
		return game.VoteUp, nil
	case "down", string(game.VoteDown):
		return game.VoteDown, nil
	}
	return game.VoteNone, fmt.Errorf("vote must be up or down, got %q", s)
}

func newVoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vote <game-id> up|down",
		Short: "Vote on a game. Repeating your current vote retracts it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameID, err := parseGameID(args[0])
			if err != nil {
				return err
			}
			vote, err := parseVote(args[1])
			if err != nil {
				return err
			}
			g, err := a.locate(cmd.Context(), gameID)
			if err != nil {
				return err
			}
			if err := a.state.CastVote(cmd.Context(), gameID, vote); err != nil {
				return err
			}

			current := a.state.UserVote(gameID)
			if current == game.VoteNone {
				fmt.Fprintf(a.out, "Removed your vote on %s\n", g.Name)
			} else {
				fmt.Fprintf(a.out, "Recorded %s on %s\n", current, g.Name)
			}
			fmt.Fprintf(a.out, "Votes: %d up, %d down\n",
				a.state.VoteCount(gameID, game.VoteUp), a.state.VoteCount(gameID, game.VoteDown))
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats [game-id]",
		Short: "Summarize the upcoming feed, or show one game's votes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				gameID, err := parseGameID(args[0])
				if err != nil {
					return err
				}
				g, err := a.locate(cmd.Context(), gameID)
				if err != nil {
					return err
				}
				if err := a.state.RefreshStats(cmd.Context(), gameID); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s: %d up, %d down\n", g.Name,
					a.state.VoteCount(gameID, game.VoteUp), a.state.VoteCount(gameID, game.VoteDown))
				return nil
			}

			if days <= 0 {
				days = a.cfg.UpcomingDays
			}
			if err := a.state.LoadUpcoming(cmd.Context(), days); err != nil {
				return err
			}
			printSummary(a.out, a.state)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "release window in days (default from UPCOMING_DAYS)")
	return cmd
}

func newFavoritesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List your favorite games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.favorites != nil {
				favorites, err := a.favorites.ListFavorites(cmd.Context())
				if err != nil {
					return err
				}
				printFavorites(a.out, favorites)
				return nil
			}

			favoritesOnly := true
			if err := a.state.UpdateFilters(cmd.Context(), game.FilterUpdate{FavoritesOnly: &favoritesOnly}); err != nil {
				return err
			}
			printSnapshot(a.out, a.state.Snapshot())
			return nil
		},
	}
}
