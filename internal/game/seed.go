package game

func platforms(names ...string) []PlatformInfo {
	out := make([]PlatformInfo, len(names))
	for i, n := range names {
		out[i] = PlatformInfo{Platform: Platform{Name: n}}
	}
	return out
}

func genres(names ...string) []Genre {
	out := make([]Genre, len(names))
	for i, n := range names {
		out[i] = Genre{Name: n}
	}
	return out
}

func float(f float64) *float64 { return &f }
func integer(n int) *int       { return &n }

// SeedGames returns the fixed list the offline catalog serves
func SeedGames() []Game {
	return []Game{
		{
			ID:           1,
			Name:         "The Elder Scrolls VI",
			Released:     MustReleaseDate("2027-11-15"),
			Platforms:    platforms("PC", "PlayStation 5", "Xbox Series S/X"),
			Genres:       genres("RPG", "Adventure"),
			Metacritic:   integer(95),
			Rating:       float(4.8),
			RatingsCount: integer(15420),
			Description:  "Sixth main entry in the open-world fantasy series.",
		},
		{
			ID:           2,
			Name:         "Cyberpunk 2078",
			Released:     MustReleaseDate("2027-09-22"),
			Platforms:    platforms("PC", "PlayStation 5", "Xbox Series S/X"),
			Genres:       genres("Action", "RPG", "Sci-Fi"),
			Metacritic:   integer(88),
			Rating:       float(4.2),
			RatingsCount: integer(8930),
			Description:  "Open-world RPG in a neon-lit megacity.",
		},
		{
			ID:           3,
			Name:         "Super Mario Odyssey 2",
			Released:     MustReleaseDate("2026-12-03"),
			Platforms:    platforms("Nintendo Switch"),
			Genres:       genres("Platformer", "Adventure"),
			Metacritic:   integer(92),
			Rating:       float(4.7),
			RatingsCount: integer(12350),
			Description:  "Mario hops across a new set of kingdoms.",
		},
		{
			ID:           4,
			Name:         "God of War: Ragnarök Legacy",
			Released:     MustReleaseDate("2026-08-18"),
			Platforms:    platforms("PlayStation 5", "PC"),
			Genres:       genres("Action", "Adventure"),
			Metacritic:   integer(94),
			Rating:       float(4.9),
			RatingsCount: integer(18670),
			Description:  "The close of the Norse saga.",
		},
		{
			ID:           5,
			Name:         "Halo Infinite: Echoes",
			Released:     MustReleaseDate("2026-10-12"),
			Platforms:    platforms("Xbox Series S/X", "PC"),
			Genres:       genres("Shooter", "Sci-Fi"),
			Metacritic:   integer(87),
			Rating:       float(4.3),
			RatingsCount: integer(9840),
			Description:  "Campaign expansion with new multiplayer modes.",
		},
		{
			ID:           6,
			Name:         "Breath of the Wild 3",
			Released:     MustReleaseDate("2027-07-25"),
			Platforms:    platforms("Nintendo Switch"),
			Genres:       genres("Adventure", "Open World"),
			Metacritic:   integer(96),
			Rating:       float(4.8),
			RatingsCount: integer(16230),
			Description:  "Another journey across Hyrule.",
		},
		{
			ID:           7,
			Name:         "Assassin's Creed: Renaissance",
			Released:     MustReleaseDate("2026-11-08"),
			Platforms:    platforms("PC", "PlayStation 5", "Xbox Series S/X"),
			Genres:       genres("Action", "Adventure", "Historical"),
			Metacritic:   integer(85),
			Rating:       float(4.1),
			RatingsCount: integer(7420),
			Description:  "Stealth action in fifteenth-century Florence.",
		},
		{
			ID:           8,
			Name:         "Spider-Man 3",
			Released:     MustReleaseDate("2027-09-15"),
			Platforms:    platforms("PlayStation 5", "PC"),
			Genres:       genres("Action", "Superhero"),
			Metacritic:   integer(91),
			Rating:       float(4.6),
			RatingsCount: integer(13580),
			Description:  "Web-slinging through New York again.",
		},
	}
}
