package sources

import "gamestore/pkg/models"

// FallbackGames is the small built-in list served when the catalog API is
// unreachable, so search never comes back completely empty because of a
// provider outage.
func FallbackGames() []models.Game {
	return []models.Game{
		{ID: "the-witcher-3-wild-hunt", Name: "The Witcher 3: Wild Hunt", Genres: []string{"RPG", "Action"}, Released: "2015-05-18", Rating: 4.7, Price: 39.99},
		{ID: "doom-2016", Name: "DOOM", Genres: []string{"Shooter", "Action"}, Released: "2016-05-13", Rating: 4.4, Price: 19.99},
		{ID: "hades", Name: "Hades", Genres: []string{"Roguelike", "Indie"}, Released: "2020-09-17", Rating: 4.6, Price: 24.99},
		{ID: "stardew-valley", Name: "Stardew Valley", Genres: []string{"Simulation", "Indie"}, Released: "2016-02-26", Rating: 4.5, Price: 14.99},
		{ID: "hollow-knight", Name: "Hollow Knight", Genres: []string{"Metroidvania", "Indie"}, Released: "2017-02-24", Rating: 4.6, Price: 14.99},
		{ID: "portal-2", Name: "Portal 2", Genres: []string{"Puzzle", "Shooter"}, Released: "2011-04-18", Rating: 4.7, Price: 9.99},
		{ID: "celeste", Name: "Celeste", Genres: []string{"Platformer", "Indie"}, Released: "2018-01-25", Rating: 4.5, Price: 19.99},
		{ID: "red-dead-redemption-2", Name: "Red Dead Redemption 2", Genres: []string{"Action", "Adventure"}, Released: "2018-10-26", Rating: 4.6, Price: 59.99},
	}
}
