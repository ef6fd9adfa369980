package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// MaxMoves is the number of moves kept in a detail projection.
const MaxMoves = 10

// ErrMalformedPayload is returned when a PokeAPI payload lacks the fields the projection needs.
var ErrMalformedPayload = errors.New("malformed pokeapi payload")

// Pokemon is the list projection of a PokeAPI entry.
type Pokemon struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Number   string   `json:"number"`
	ImageURL string   `json:"imageUrl"`
	Types    []string `json:"types"`
}

// Ability is a projected ability.
type Ability struct {
	Name     string `json:"name"`
	IsHidden bool   `json:"isHidden"`
}

// Move is a projected move with the first known learn method.
type Move struct {
	Name        string `json:"name"`
	LearnMethod string `json:"learnMethod"`
}

// Form is a projected alternate form.
type Form struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PokemonDetail is the detail projection of a PokeAPI entry.
type PokemonDetail struct {
	Pokemon
	Abilities []Ability `json:"abilities"`
	Moves     []Move    `json:"moves"`
	Forms     []Form    `json:"forms"`
	Height    int       `json:"height"`
	Weight    int       `json:"weight"`
}

// PaginatedResponse is one page of results.
type PaginatedResponse[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TotalPages returns ceil(total/limit), and 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// FormatNumber zero-pads an id to at least three digits.
func FormatNumber(id int) string {
	return fmt.Sprintf("%03d", id)
}

var idFromURL = regexp.MustCompile(`/pokemon/(\d+)/`)

// ExtractID returns the numeric id in a PokeAPI resource URL, or 0 when there is none.
func ExtractID(url string) int {
	m := idFromURL.FindStringSubmatch(url)
	if m == nil {
		return 0
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return id
}

// ToPokemon maps a raw resource to the list projection.
func ToPokemon(r *PokemonResource) (Pokemon, error) {
	if r == nil || r.ID <= 0 || r.Name == "" {
		return Pokemon{}, ErrMalformedPayload
	}

	types := make([]string, 0, len(r.Types))
	for _, t := range r.Types {
		types = append(types, t.Type.Name)
	}

	return Pokemon{
		ID:       r.ID,
		Name:     r.Name,
		Number:   FormatNumber(r.ID),
		ImageURL: imageURL(r.Sprites),
		Types:    types,
	}, nil
}

// ToPokemonDetail maps a raw resource to the detail projection.
func ToPokemonDetail(r *PokemonResource) (*PokemonDetail, error) {
	basic, err := ToPokemon(r)
	if err != nil {
		return nil, err
	}

	abilities := make([]Ability, 0, len(r.Abilities))
	for _, a := range r.Abilities {
		abilities = append(abilities, Ability{Name: a.Ability.Name, IsHidden: a.IsHidden})
	}

	moves := make([]Move, 0, min(len(r.Moves), MaxMoves))
	for _, m := range r.Moves {
		if len(moves) == MaxMoves {
			break
		}
		method := "unknown"
		if len(m.VersionGroupDetails) > 0 && m.VersionGroupDetails[0].MoveLearnMethod.Name != "" {
			method = m.VersionGroupDetails[0].MoveLearnMethod.Name
		}
		moves = append(moves, Move{Name: m.Move.Name, LearnMethod: method})
	}

	forms := make([]Form, 0, len(r.Forms))
	for _, f := range r.Forms {
		forms = append(forms, Form{Name: f.Name, URL: f.URL})
	}

	return &PokemonDetail{
		Pokemon:   basic,
		Abilities: abilities,
		Moves:     moves,
		Forms:     forms,
		Height:    r.Height,
		Weight:    r.Weight,
	}, nil
}

// imageURL prefers the official artwork and falls back to the default sprite.
func imageURL(s PokemonSprites) string {
	if art := s.Other.OfficialArtwork.FrontDefault; art != nil && *art != "" {
		return *art
	}
	if s.FrontDefault != nil {
		return *s.FrontDefault
	}
	return ""
}
