package catalog

// NamedAPIResource is PokeAPI's {name, url} reference.
type NamedAPIResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// PokemonListResponse is the payload of GET /pokemon.
type PokemonListResponse struct {
	Count    int                `json:"count"`
	Next     *string            `json:"next"`
	Previous *string            `json:"previous"`
	Results  []NamedAPIResource `json:"results"`
}

// PokemonResource is the subset of GET /pokemon/{id} that the projection reads.
type PokemonResource struct {
	ID        int                `json:"id"`
	Name      string             `json:"name"`
	Height    int                `json:"height"`
	Weight    int                `json:"weight"`
	Sprites   PokemonSprites     `json:"sprites"`
	Types     []PokemonType      `json:"types"`
	Abilities []PokemonAbility   `json:"abilities"`
	Moves     []PokemonMove      `json:"moves"`
	Forms     []NamedAPIResource `json:"forms"`
}

// PokemonSprites holds the image URLs. Any of them may be null.
type PokemonSprites struct {
	FrontDefault *string `json:"front_default"`
	Other        struct {
		OfficialArtwork struct {
			FrontDefault *string `json:"front_default"`
		} `json:"official-artwork"`
	} `json:"other"`
}

// PokemonType is one entry of the types list.
type PokemonType struct {
	Slot int              `json:"slot"`
	Type NamedAPIResource `json:"type"`
}

// PokemonAbility is one entry of the abilities list.
type PokemonAbility struct {
	IsHidden bool             `json:"is_hidden"`
	Slot     int              `json:"slot"`
	Ability  NamedAPIResource `json:"ability"`
}

// PokemonMove is one entry of the moves list.
type PokemonMove struct {
	Move                NamedAPIResource     `json:"move"`
	VersionGroupDetails []VersionGroupDetail `json:"version_group_details"`
}

// VersionGroupDetail describes how a move is learned in one version group.
type VersionGroupDetail struct {
	LevelLearnedAt  int              `json:"level_learned_at"`
	MoveLearnMethod NamedAPIResource `json:"move_learn_method"`
	VersionGroup    NamedAPIResource `json:"version_group"`
}
