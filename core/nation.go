package core

// Nation is the owning faction for satellites and ground stations.
// The engine only reads identity and the home position; everything
// else about a faction lives in the host.
type Nation struct {
	ID      string  `json:"ID"`
	Name    string  `json:"Name"`
	HomeLon float64 `json:"HomeLon"`
	HomeLat float64 `json:"HomeLat"`
	IsHuman bool    `json:"IsHuman"`
}

// NationResolver resolves an owner id to a nation, or nil when the id
// is unknown. It is the only ownership validation the engine performs
// and it runs only on the two creation commands.
type NationResolver func(id string) *Nation

// DirectoryResolver builds a NationResolver over a fixed nation list.
func DirectoryResolver(nations []Nation) NationResolver {
	byID := make(map[string]*Nation, len(nations))
	for i := range nations {
		byID[nations[i].ID] = &nations[i]
	}
	return func(id string) *Nation {
		return byID[id]
	}
}
