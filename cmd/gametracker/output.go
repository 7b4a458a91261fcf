package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"game-tracker-go/internal/game"
)

const gridColumns = 3

func printSnapshot(w io.Writer, snap game.Snapshot) {
	if snap.Error != "" {
		fmt.Fprintln(w, snap.Error)
		return
	}
	if snap.Empty {
		fmt.Fprintln(w, "No games found")
		return
	}
	if snap.ViewMode == game.ViewGrid {
		printGrid(w, snap.Games)
		return
	}
	printList(w, snap.Games)
}

func released(g game.Game) string {
	if g.Released.IsZero() {
		return "TBA"
	}
	return g.Released.String()
}

func voteMarker(v game.VoteType) string {
	switch v {
	case game.VoteUp:
		return "+"
	case game.VoteDown:
		return "-"
	}
	return ""
}

func printList(w io.Writer, games []game.Game) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRELEASED\tRATING\tPLATFORMS\tUP\tDOWN\tFAV\tVOTE")
	for _, g := range games {
		up, down := 0, 0
		if g.VoteStats != nil {
			up, down = g.VoteStats.Upvotes, g.VoteStats.Downvotes
		}
		fav := ""
		if g.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%s\t%d\t%d\t%s\t%s\n",
			g.ID, g.Name, released(g), g.RatingOrZero(),
			strings.Join(g.PlatformNames(), ", "), up, down, fav, voteMarker(g.UserVote))
	}
	tw.Flush()
}

func printGrid(w io.Writer, games []game.Game) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	for i, g := range games {
		fmt.Fprintf(tw, "[%d] %s (%s)", g.ID, g.Name, released(g))
		if (i+1)%gridColumns == 0 || i == len(games)-1 {
			fmt.Fprintln(tw)
		} else {
			fmt.Fprint(tw, "\t")
		}
	}
	tw.Flush()
}

func printSummary(w io.Writer, s *game.State) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Upcoming games:\t%d\n", s.UpcomingCount())
	fmt.Fprintf(tw, "Average rating:\t%.1f\n", s.AverageRating())
	fmt.Fprintf(tw, "Total votes:\t%d\n", s.TotalVotes())
	fmt.Fprintf(tw, "Favorites:\t%d\n", len(s.FavoriteGames()))
	tw.Flush()
}

func printFavorites(w io.Writer, favorites []game.Favorite) {
	if len(favorites) == 0 {
		fmt.Fprintln(w, "No favorites yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tADDED")
	for _, f := range favorites {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.GameID, f.GameName, f.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}
