package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"game-tracker-go/config"
	"game-tracker-go/internal/catalog"
	"game-tracker-go/internal/game"
	"game-tracker-go/internal/identity"
	"game-tracker-go/internal/kv"
	"game-tracker-go/internal/logging"
)

// favoritesLister is implemented by catalogs that can list the user's
// favorites across the whole catalog, not just the displayed page
type favoritesLister interface {
	ListFavorites(ctx context.Context) ([]game.Favorite, error)
}

// app is what every subcommand runs against, built once flags are parsed
type app struct {
	cfg       *config.Config
	state     *game.State
	favorites favoritesLister
	out       io.Writer
	view      game.ViewMode
}

func newRootCmd(out io.Writer, clock clockwork.Clock) *cobra.Command {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	var (
		offline bool
		view    string
	)
	a := &app{out: out}

	root := &cobra.Command{
		Use:          "gametracker",
		Short:        "Track upcoming game releases, favorites and votes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateClient(offline); err != nil {
				return err
			}
			a.cfg = cfg

			switch game.ViewMode(view) {
			case game.ViewGrid, game.ViewList:
				a.view = game.ViewMode(view)
			default:
				return fmt.Errorf("unknown view %q, expected grid or list", view)
			}

			logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LoggerFormat())

			store, err := kv.Open(cfg.StateFile)
			if err != nil {
				return err
			}

			var source game.Catalog
			if offline {
				local, err := game.NewLocalCatalog(game.SeedGames(), store, clock)
				if err != nil {
					return err
				}
				source = local
			} else {
				remote := catalog.NewClient(cfg.CatalogURL, identity.NewProvider(store, clock), cfg.CatalogTimeout)
				source = remote
				a.favorites = remote
			}

			a.state = game.NewState(source, game.WithClock(clock), game.WithLogger(logger))
			a.state.SetViewMode(a.view)
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&offline, "offline", false, "use the built-in game list instead of the catalog server")
	root.PersistentFlags().StringVar(&view, "view", string(game.ViewList), "output layout: list or grid")

	root.AddCommand(
		newUpcomingCmd(a),
		newGamesCmd(a),
		newFavoriteCmd(a),
		newVoteCmd(a),
		newStatsCmd(a),
		newFavoritesCmd(a),
	)

	root.SetOut(out)
	return root
}
