package reconcile

// FieldView is one selectable difference.
type FieldView struct {
	Key        string     `json:"key"`
	Name       string     `json:"name"`
	Selected   bool       `json:"selected"`
	Difference Difference `json:"difference"`
}

// GroupView is a namespace of world settings.
type GroupView struct {
	Name   string      `json:"name"`
	State  TriState    `json:"state"`
	Fields []FieldView `json:"fields"`
}

// PlayerView is a player row. A missing player has one field keyed by its name
// and no difference.
type PlayerView struct {
	Name     string      `json:"name"`
	NotFound bool        `json:"not_found"`
	State    TriState    `json:"state"`
	Fields   []FieldView `json:"fields"`
}

// View is a read-only rendering of the session for adapters.
type View struct {
	State            TriState       `json:"state"`
	Groups           []GroupView    `json:"groups"`
	Players          []PlayerView   `json:"players"`
	MissingPlayers   []PlayerView   `json:"missing_players"`
	UnchangedPlayers []string       `json:"unchanged_players"`
	SupportingData   SupportingData `json:"supporting_data,omitempty"`
	Diagnostics      []Diagnostic   `json:"diagnostics"`
}

// View renders the current working set and selection.
func (s *Session) View() View {
	v := View{
		State:            s.State(),
		Groups:           make([]GroupView, 0, len(s.groups)),
		Players:          make([]PlayerView, 0, len(s.changed)),
		MissingPlayers:   make([]PlayerView, 0, len(s.missing)),
		UnchangedPlayers: make([]string, 0, len(s.unchanged)),
		SupportingData:   s.supporting,
		Diagnostics:      append([]Diagnostic{}, s.diagnostics...),
	}

	for _, g := range s.groups {
		gv := GroupView{Name: g.Name, State: s.GroupState(g.Name)}
		for _, ws := range g.Settings {
			gv.Fields = append(gv.Fields, FieldView{
				Key:        ws.Key,
				Name:       ws.Key,
				Selected:   s.selection.IsSelected(ws.Key),
				Difference: ws.Difference,
			})
		}
		v.Groups = append(v.Groups, gv)
	}

	for _, p := range s.changed {
		v.Players = append(v.Players, s.playerView(p))
	}
	for _, p := range s.missing {
		v.MissingPlayers = append(v.MissingPlayers, s.playerView(p))
	}
	for _, p := range s.unchanged {
		v.UnchangedPlayers = append(v.UnchangedPlayers, p.Name)
	}

	return v
}

func (s *Session) playerView(p *PlayerSetting) PlayerView {
	pv := PlayerView{Name: p.Name, NotFound: p.PlayerNotFound, State: s.PlayerState(p.Name)}
	if p.PlayerNotFound {
		pv.Fields = []FieldView{{Key: p.Name, Name: p.Name, Selected: s.selection.IsSelected(p.Name)}}
		return pv
	}
	for _, field := range SortedKeys(p.CoreDifferences) {
		key := CoreFieldKey(p.Name, field)
		pv.Fields = append(pv.Fields, FieldView{
			Key:        key,
			Name:       field,
			Selected:   s.selection.IsSelected(key),
			Difference: p.CoreDifferences[field],
		})
	}
	for _, flag := range SortedKeys(p.FlagDifferences) {
		key := FlagFieldKey(p.Name, flag)
		pv.Fields = append(pv.Fields, FieldView{
			Key:        key,
			Name:       flag,
			Selected:   s.selection.IsSelected(key),
			Difference: p.FlagDifferences[flag],
		})
	}
	return pv
}
