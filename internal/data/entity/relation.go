package entity

type DeletePolicy string

const (
	// OnDeleteCascade removes the child row together with its parent.
	OnDeleteCascade DeletePolicy = "CASCADE"
	// OnDeleteSetNull keeps the child row and clears the reference.
	OnDeleteSetNull DeletePolicy = "SET NULL"
)

// Relation declares how a child table reacts to the removal of a parent row.
type Relation struct {
	Child    string
	Column   string
	Parent   string
	OnDelete DeletePolicy
}

// Relations is the delete policy of every foreign key in the schema.
var Relations = []Relation{
	{Child: "cinemas", Column: "address_id", Parent: "addresses", OnDelete: OnDeleteCascade},
	{Child: "film_cinemas", Column: "cinema_id", Parent: "cinemas", OnDelete: OnDeleteCascade},
	{Child: "film_cinemas", Column: "film_id", Parent: "films", OnDelete: OnDeleteCascade},
	{Child: "tickets", Column: "film_cinema_id", Parent: "film_cinemas", OnDelete: OnDeleteCascade},
	{Child: "tickets", Column: "user_id", Parent: "users", OnDelete: OnDeleteSetNull},
	{Child: "tokens", Column: "user_id", Parent: "users", OnDelete: OnDeleteCascade},
}

// RelationsFrom lists the relations whose parent is table.
func RelationsFrom(table string) []Relation {
	var out []Relation
	for _, rel := range Relations {
		if rel.Parent == table {
			out = append(out, rel)
		}
	}
	return out
}
