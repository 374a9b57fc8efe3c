package repository

import (
	"context"
	"fmt"

	"cinephile/internal/data/entity"
	"cinephile/pkg/database"
)

// confdeltype codes from pg_constraint.
var pgDeleteActions = map[entity.DeletePolicy]string{
	entity.OnDeleteCascade: "c",
	entity.OnDeleteSetNull: "n",
}

// CheckDeletePolicies verifies that every declared relation exists as a
// foreign key in the live schema with the declared ON DELETE action.
func CheckDeletePolicies(ctx context.Context, db database.Querier, relations []entity.Relation) error {
	query := `
		SELECT con.confdeltype::text
		FROM pg_constraint con
		JOIN pg_class child ON child.oid = con.conrelid
		JOIN pg_class parent ON parent.oid = con.confrelid
		JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = ANY (con.conkey)
		WHERE con.contype = 'f'
			AND child.relname = $1
			AND parent.relname = $2
			AND att.attname = $3
	`

	for _, rel := range relations {
		var action string
		err := db.QueryRow(ctx, query, rel.Child, rel.Parent, rel.Column).Scan(&action)
		if err != nil {
			return fmt.Errorf("foreign key %s.%s -> %s: %w", rel.Child, rel.Column, rel.Parent, err)
		}

		if want := pgDeleteActions[rel.OnDelete]; action != want {
			return fmt.Errorf("foreign key %s.%s -> %s: ON DELETE is %q, want %s",
				rel.Child, rel.Column, rel.Parent, action, rel.OnDelete)
		}
	}

	return nil
}
