package district

// District is one of the fixed administrative regions the workflows operate
// over. Sub-areas (stadium lots, unincorporated villages) resolve to their
// parent district and are never returned as districts themselves.
type District string

const (
	Redwood        District = "Redwood"
	Arborfield     District = "Arborfield"
	Prominence     District = "Prominence"
	Unincorporated District = "Unincorporated"
)

var Districts = []District{Redwood, Arborfield, Prominence, Unincorporated}

type areaEntry struct {
	name    string
	listIDs []string
	// parent is set for sub-areas only
	parent District
}

// Table is the immutable bidirectional mapping between districts and the
// external-list/label identifiers of the ticket system. Reads need no
// synchronization.
type Table struct {
	areas  []areaEntry
	labels map[District][]string
}

func DefaultTable() *Table {
	return &Table{
		areas: []areaEntry{
			// default cities
			{name: string(Redwood), listIDs: []string{"641e1077958b7e7aeb847a48"}},
			{name: string(Arborfield), listIDs: []string{"641e108a923770039e58f70b"}},
			{name: string(Prominence), listIDs: []string{"641e108172f11b32b2cd1d7a"}},

			// unincorporated
			{name: string(Unincorporated), listIDs: []string{"641e15dc99f278f73fcfbb9e"}},
			{name: "Greendale", listIDs: []string{"641e174a2bdd24d0cb8ac85f"}, parent: Unincorporated},
			{name: "Hillview", listIDs: []string{"641e17536f76c164213b94b0"}, parent: Unincorporated},

			// stadium lots
			{name: "Triumph Stadium", listIDs: []string{"641e16219cd033f2188ff043"}, parent: Prominence},
			{name: "Lunar Arena", listIDs: []string{"64c99bd2e6ac1002eda1ae5b"}, parent: Prominence},
		},
		labels: map[District][]string{
			Prominence:     {"641e0d512e15ff6a3be2b6ba"},
			Redwood:        {"641e0d6a7c2b18c899627dcf"},
			Arborfield:     {"641e0d784e470de8bccd151e"},
			Unincorporated: {"6423ba519eaba3c931bd402f"},
		},
	}
}

// ResolveFromListID maps an external-list identifier to its district,
// resolving sub-areas to the parent district. Exact, case-sensitive match.
// The second result is false when no area carries the identifier.
func (t *Table) ResolveFromListID(listID string) (District, bool) {
	for _, area := range t.areas {
		for _, id := range area.listIDs {
			if id == listID {
				if area.parent != "" {
					return area.parent, true
				}
				return District(area.name), true
			}
		}
	}
	return "", false
}

// Parse returns the district with the given canonical name.
func Parse(name string) (District, bool) {
	for _, d := range Districts {
		if string(d) == name {
			return d, true
		}
	}
	return "", false
}

// LabelsFor returns the ticket label identifiers filed with submissions for
// the district.
func (t *Table) LabelsFor(d District) []string {
	labels := t.labels[d]
	result := make([]string, len(labels))
	copy(result, labels)
	return result
}

// ListIDsFor returns every external-list identifier that denotes the
// district, including those of its sub-areas.
func (t *Table) ListIDsFor(d District) []string {
	result := []string{}
	for _, area := range t.areas {
		owner := area.parent
		if owner == "" {
			owner = District(area.name)
		}
		if owner == d {
			result = append(result, area.listIDs...)
		}
	}
	return result
}
