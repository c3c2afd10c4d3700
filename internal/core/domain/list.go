package domain

type Category string

const (
	CategoryLocal      Category = "LOCAL"
	CategoryProvincial Category = "PROVINCIAL"
)

func (c Category) Valid() bool {
	return c == CategoryLocal || c == CategoryProvincial
}

// CandidateList is a candidate slate ("lista"). A slate running in both
// categories is modeled as two rows, one per category, so eligibility
// is simply row existence. Immutable after the catalog is loaded.
type CandidateList struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Rank     int      `json:"rank"`
	Active   bool     `json:"active"`
}

// Catalog resolves submitted list names to stable identifiers once per
// request, so the rest of the engine never dispatches on free-form
// strings. Only active lists are resolvable.
type Catalog struct {
	byName map[Category]map[string]CandidateList
	byID   map[int64]CandidateList
	lists  []CandidateList
}

func NewCatalog(lists []CandidateList) Catalog {
	c := Catalog{
		byName: map[Category]map[string]CandidateList{
			CategoryLocal:      {},
			CategoryProvincial: {},
		},
		byID:  make(map[int64]CandidateList, len(lists)),
		lists: lists,
	}
	for _, l := range lists {
		c.byID[l.ID] = l
		if l.Active {
			c.byName[l.Category][l.Name] = l
		}
	}
	return c
}

// Resolve returns the active list registered under name for the given
// category. Inactive and unknown lists are indistinguishable here;
// both must be rejected.
func (c Catalog) Resolve(category Category, name string) (CandidateList, bool) {
	l, ok := c.byName[category][name]
	return l, ok
}

func (c Catalog) ByID(id int64) (CandidateList, bool) {
	l, ok := c.byID[id]
	return l, ok
}

// Lists returns the catalog in load order (category, then rank).
func (c Catalog) Lists() []CandidateList {
	return c.lists
}
