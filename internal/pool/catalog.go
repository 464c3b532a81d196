// MovieDealer - Adaptive Movie Card Game Engine
// Copyright 2026 N. Morales (nmoralez)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralez/moviedealer

package pool

import "github.com/nmoralez/moviedealer/internal/models"

// fallbackEntry pairs a built-in movie with the difficulty tier it serves.
type fallbackEntry struct {
	tier  int
	movie models.Movie
}

// FallbackMovies returns the built-in catalog slice for a difficulty level.
// The catalog exists so a deal can still complete when the provider is
// unreachable. Entries use negative ids so they can never collide with a
// provider id in the seen ledger.
func FallbackMovies(level models.DifficultyLevel) []models.Movie {
	tier := int(level)
	if tier < 1 {
		tier = 1
	}
	if tier > 6 {
		tier = 6
	}
	out := make([]models.Movie, 0, 6)
	for _, e := range fallbackCatalog {
		if e.tier == tier {
			out = append(out, e.movie)
		}
	}
	return out
}

var fallbackCatalog = []fallbackEntry{
	// Tier 1: mainstream blockbusters.
	{1, models.Movie{ID: -101, Title: "Avatar", Year: "2009", Rating: 7.5, VoteCount: 31000, Poster: PosterPlaceholder, Genres: []string{"Science Fiction", "Action"}, Overview: "A paraplegic Marine dispatched to the moon Pandora on a unique mission becomes torn between following his orders and protecting the world he feels is his home."}},
	{1, models.Movie{ID: -102, Title: "The Avengers", Year: "2012", Rating: 8.0, VoteCount: 30000, Poster: PosterPlaceholder, Genres: []string{"Action", "Science Fiction"}, Overview: "Earth's mightiest heroes must come together and learn to fight as a team if they are to stop the mischievous Loki and his alien army from enslaving humanity."}},
	{1, models.Movie{ID: -103, Title: "Frozen", Year: "2013", Rating: 7.4, VoteCount: 16000, Poster: PosterPlaceholder, Genres: []string{"Animation", "Family"}, Overview: "When the newly-crowned Queen Elsa accidentally curses her home in infinite winter, her sister Anna teams up with a mountain man, his playful reindeer, and a snowman to change the weather."}},
	{1, models.Movie{ID: -104, Title: "Titanic", Year: "1997", Rating: 7.9, VoteCount: 25000, Poster: PosterPlaceholder, Genres: []string{"Romance", "Drama"}, Overview: "A seventeen-year-old aristocrat falls in love with a kind but poor artist aboard the luxurious, ill-fated R.M.S. Titanic."}},
	{1, models.Movie{ID: -105, Title: "Harry Potter and the Sorcerer's Stone", Year: "2001", Rating: 7.6, VoteCount: 27000, Poster: PosterPlaceholder, Genres: []string{"Fantasy", "Family"}, Overview: "An orphaned boy enrolls in a school of wizardry, where he learns the truth about himself, his family and the terrible evil that haunts the magical world."}},
	{1, models.Movie{ID: -106, Title: "Barbie", Year: "2023", Rating: 7.0, VoteCount: 9000, Poster: PosterPlaceholder, Genres: []string{"Comedy", "Adventure"}, Overview: "Barbie and Ken leave the colorful and seemingly perfect world of Barbie Land for the real world, and soon discover the joys and perils of living among humans."}},

	// Tier 2: popular with a bit more depth.
	{2, models.Movie{ID: -201, Title: "Interstellar", Year: "2014", Rating: 8.6, VoteCount: 36000, Poster: PosterPlaceholder, Genres: []string{"Science Fiction", "Drama"}, Overview: "Explorers travel through a wormhole in space in an attempt to ensure humanity's survival."}},
	{2, models.Movie{ID: -202, Title: "Inception", Year: "2010", Rating: 8.8, VoteCount: 37000, Poster: PosterPlaceholder, Genres: []string{"Science Fiction", "Action"}, Overview: "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea into the mind of a C.E.O."}},
	{2, models.Movie{ID: -203, Title: "The Wolf of Wall Street", Year: "2013", Rating: 8.2, VoteCount: 23000, Poster: PosterPlaceholder, Genres: []string{"Crime", "Comedy"}, Overview: "Based on the true story of Jordan Belfort, from his rise to a wealthy stock-broker living the high life to his fall involving crime and corruption."}},
	{2, models.Movie{ID: -204, Title: "Dune: Part Two", Year: "2024", Rating: 8.5, VoteCount: 7000, Poster: PosterPlaceholder, Genres: []string{"Science Fiction", "Action"}, Overview: "Paul Atreides unites with Chani and the Fremen while seeking revenge against the conspirators who destroyed his family."}},
	{2, models.Movie{ID: -205, Title: "Joker", Year: "2019", Rating: 8.4, VoteCount: 26000, Poster: PosterPlaceholder, Genres: []string{"Crime", "Drama"}, Overview: "A mentally troubled stand-up comedian embarks on a downward spiral that leads to the creation of an iconic villain."}},
	{2, models.Movie{ID: -206, Title: "Knives Out", Year: "2018", Rating: 7.9, VoteCount: 14000, Poster: PosterPlaceholder, Genres: []string{"Mystery", "Comedy"}, Overview: "A detective investigates the death of the patriarch of an eccentric, combative family."}},

	// Tier 3: acclaimed modern cinema.
	{3, models.Movie{ID: -301, Title: "Parasite", Year: "2019", Rating: 8.5, VoteCount: 19000, Poster: PosterPlaceholder, Genres: []string{"Thriller", "Drama"}, Overview: "Greed and class discrimination threaten the newly formed symbiotic relationship between the wealthy Park family and the destitute Kim clan."}},
	{3, models.Movie{ID: -302, Title: "Whiplash", Year: "2014", Rating: 8.5, VoteCount: 16000, Poster: PosterPlaceholder, Genres: []string{"Drama", "Music"}, Overview: "A promising young drummer enrolls at a cut-throat music conservatory where his dreams of greatness are mentored by an instructor who will stop at nothing."}},
	{3, models.Movie{ID: -303, Title: "Everything Everywhere All At Once", Year: "2022", Rating: 8.0, VoteCount: 6500, Poster: PosterPlaceholder, Genres: []string{"Science Fiction", "Adventure"}, Overview: "An aging Chinese immigrant is swept up in an insane adventure, where she alone can save the world by exploring other universes."}},
	{3, models.Movie{ID: -304, Title: "The Grand Budapest Hotel", Year: "2014", Rating: 8.1, VoteCount: 16000, Poster: PosterPlaceholder, Genres: []string{"Comedy", "Drama"}, Overview: "A legendary concierge at a famous European hotel between the wars and his friendship with the lobby boy who becomes his most trusted protégé."}},
	{3, models.Movie{ID: -305, Title: "Pulp Fiction", Year: "1994", Rating: 8.9, VoteCount: 28000, Poster: PosterPlaceholder, Genres: []string{"Crime", "Drama"}, Overview: "The lives of two mob hitmen, a boxer, a gangster and his wife intertwine in four tales of violence and redemption."}},
	{3, models.Movie{ID: -306, Title: "Fight Club", Year: "1999", Rating: 8.8, VoteCount: 29000, Poster: PosterPlaceholder, Genres: []string{"Drama"}, Overview: "An insomniac office worker and a devil-may-care soap maker form an underground fight club that evolves into much more."}},

	// Tier 4: cult and festival favorites.
	{4, models.Movie{ID: -401, Title: "Oldboy", Year: "2003", Rating: 8.4, VoteCount: 9500, Poster: PosterPlaceholder, Genres: []string{"Action", "Drama"}, Overview: "After being kidnapped and imprisoned for fifteen years, Oh Dae-Su is released, only to find that he must find his captor in five days."}},
	{4, models.Movie{ID: -402, Title: "A Clockwork Orange", Year: "1971", Rating: 8.3, VoteCount: 13000, Poster: PosterPlaceholder, Genres: []string{"Crime", "Science Fiction"}, Overview: "In a future Britain, a young delinquent undergoes an experimental aversion therapy meant to cure him of violence, with unintended consequences."}},
	{4, models.Movie{ID: -403, Title: "Donnie Darko", Year: "2001", Rating: 8.0, VoteCount: 12000, Poster: PosterPlaceholder, Genres: []string{"Drama", "Science Fiction"}, Overview: "After narrowly escaping a bizarre accident, a troubled teenager is plagued by visions of a man in a large rabbit suit."}},
	{4, models.Movie{ID: -404, Title: "The Lighthouse", Year: "2019", Rating: 7.4, VoteCount: 5200, Poster: PosterPlaceholder, Genres: []string{"Drama", "Horror"}, Overview: "Two lighthouse keepers try to maintain their sanity while living on a remote and mysterious New England island in the 1890s."}},
	{4, models.Movie{ID: -405, Title: "Portrait of a Lady on Fire", Year: "2019", Rating: 8.1, VoteCount: 4800, Poster: PosterPlaceholder, Genres: []string{"Drama", "Romance"}, Overview: "On an isolated island in Brittany at the end of the eighteenth century, a female painter is obliged to paint a wedding portrait of a young woman."}},
	{4, models.Movie{ID: -406, Title: "Midsommar", Year: "2019", Rating: 7.1, VoteCount: 6800, Poster: PosterPlaceholder, Genres: []string{"Horror", "Drama"}, Overview: "A couple travels to Northern Europe to visit a rural hometown's fabled Swedish mid-summer festival, which takes a sinister turn."}},

	// Tier 5: demanding arthouse and transgressive cinema.
	{5, models.Movie{ID: -501, Title: "Stalker", Year: "1979", Rating: 8.1, VoteCount: 3200, Poster: PosterPlaceholder, Genres: []string{"Science Fiction", "Drama"}, Overview: "A guide leads two men through an area known as the Zone to find a room that grants wishes."}},
	{5, models.Movie{ID: -502, Title: "Eraserhead", Year: "1977", Rating: 7.3, VoteCount: 3000, Poster: PosterPlaceholder, Genres: []string{"Horror", "Fantasy"}, Overview: "Henry Spencer tries to survive his industrial environment, his angry girlfriend, and the unbearable screams of his newly born mutant child."}},
	{5, models.Movie{ID: -503, Title: "The Holy Mountain", Year: "1973", Rating: 7.8, VoteCount: 1600, Poster: PosterPlaceholder, Genres: []string{"Fantasy", "Drama"}, Overview: "A Christlike figure wanders through bizarre, grotesque scenarios filled with religious and sacrilegious imagery."}},
	{5, models.Movie{ID: -504, Title: "Tetsuo: The Iron Man", Year: "1989", Rating: 6.9, VoteCount: 1100, Poster: PosterPlaceholder, Genres: []string{"Horror", "Science Fiction"}, Overview: "A businessman accidentally kills a metal fetishist, who returns to exact revenge by slowly turning the man into a grotesque hybrid of flesh and metal."}},
	{5, models.Movie{ID: -505, Title: "Salò, or the 120 Days of Sodom", Year: "1975", Rating: 5.8, VoteCount: 1800, Poster: PosterPlaceholder, Genres: []string{"Drama", "Horror"}, Overview: "In wartime Italy, four fascist libertines round up a group of teenagers and subject them to four months of extreme torment."}},
	{5, models.Movie{ID: -506, Title: "House (Hausu)", Year: "1977", Rating: 7.3, VoteCount: 1200, Poster: PosterPlaceholder, Genres: []string{"Comedy", "Horror"}, Overview: "A schoolgirl and six of her classmates travel to her aunt's country home, which turns out to be haunted."}},

	// Tier 6: canon classics.
	{6, models.Movie{ID: -601, Title: "Seven Samurai", Year: "1954", Rating: 8.6, VoteCount: 3700, Poster: PosterPlaceholder, Genres: []string{"Action", "Drama"}, Overview: "Farmers from a village exploited by bandits hire a veteran samurai for protection, who gathers six other samurai to join him."}},
	{6, models.Movie{ID: -602, Title: "Metropolis", Year: "1927", Rating: 8.3, VoteCount: 2800, Poster: PosterPlaceholder, Genres: []string{"Science Fiction", "Drama"}, Overview: "In a futuristic city sharply divided between the working class and the city planners, the son of the city's mastermind falls in love with a prophet of the workers."}},
	{6, models.Movie{ID: -603, Title: "Citizen Kane", Year: "1941", Rating: 8.3, VoteCount: 5600, Poster: PosterPlaceholder, Genres: []string{"Drama", "Mystery"}, Overview: "Following the death of publishing tycoon Charles Foster Kane, reporters scramble to uncover the meaning of his final utterance: Rosebud."}},
	{6, models.Movie{ID: -604, Title: "2001: A Space Odyssey", Year: "1968", Rating: 8.3, VoteCount: 12000, Poster: PosterPlaceholder, Genres: []string{"Science Fiction", "Adventure"}, Overview: "After discovering a mysterious artifact buried beneath the lunar surface, mankind sets off on a quest to find its origins with help from intelligent supercomputer HAL 9000."}},
	{6, models.Movie{ID: -605, Title: "Tokyo Story", Year: "1953", Rating: 8.2, VoteCount: 1400, Poster: PosterPlaceholder, Genres: []string{"Drama"}, Overview: "An old couple visit their children and grandchildren in the city, but receive little attention."}},
	{6, models.Movie{ID: -606, Title: "The Seventh Seal", Year: "1957", Rating: 8.1, VoteCount: 3500, Poster: PosterPlaceholder, Genres: []string{"Drama", "Fantasy"}, Overview: "A knight returning from the Crusades plays chess with Death while the plague ravages medieval Sweden."}},
}
