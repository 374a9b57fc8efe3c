// Package memory keeps every table in process. It backs DB_DRIVER=memory and
// the service and route tests, and applies the same delete policies and
// uniqueness rules as the PostgreSQL schema.
package memory

import (
	"fmt"
	"sync"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"

	"github.com/google/uuid"
)

// table exposes a map to the generic relation logic. Keys are the string
// form of the primary key.
type table struct {
	keys   func() []string
	has    func(key string) bool
	ref    func(key, column string) (uuid.UUID, bool)
	clear  func(key, column string)
	remove func(key string)
}

type Store struct {
	mu sync.RWMutex

	addresses   map[uuid.UUID]entity.Address
	cinemas     map[uuid.UUID]entity.Cinema
	films       map[uuid.UUID]entity.Film
	filmCinemas map[uuid.UUID]entity.FilmCinema
	tickets     map[uuid.UUID]entity.Ticket
	users       map[uuid.UUID]entity.User
	tokens      map[string]entity.Token

	tables map[string]table
}

func NewStore() *Store {
	s := &Store{
		addresses:   make(map[uuid.UUID]entity.Address),
		cinemas:     make(map[uuid.UUID]entity.Cinema),
		films:       make(map[uuid.UUID]entity.Film),
		filmCinemas: make(map[uuid.UUID]entity.FilmCinema),
		tickets:     make(map[uuid.UUID]entity.Ticket),
		users:       make(map[uuid.UUID]entity.User),
		tokens:      make(map[string]entity.Token),
	}

	s.tables = map[string]table{
		"addresses": uuidTable(s.addresses, nil, nil),
		"cinemas": uuidTable(s.cinemas, func(c *entity.Cinema, column string) *uuid.UUID {
			if column == "address_id" {
				return &c.AddressID
			}
			return nil
		}, nil),
		"films": uuidTable(s.films, nil, nil),
		"film_cinemas": uuidTable(s.filmCinemas, func(fc *entity.FilmCinema, column string) *uuid.UUID {
			switch column {
			case "cinema_id":
				return &fc.CinemaID
			case "film_id":
				return &fc.FilmID
			}
			return nil
		}, nil),
		"tickets": uuidTable(s.tickets, func(t *entity.Ticket, column string) *uuid.UUID {
			if column == "film_cinema_id" {
				return &t.FilmCinemaID
			}
			return nil
		}, func(t *entity.Ticket, column string) **uuid.UUID {
			if column == "user_id" {
				return &t.UserID
			}
			return nil
		}),
		"users": uuidTable(s.users, nil, nil),
		"tokens": {
			keys: func() []string {
				out := make([]string, 0, len(s.tokens))
				for k := range s.tokens {
					out = append(out, k)
				}
				return out
			},
			has: func(key string) bool {
				_, ok := s.tokens[key]
				return ok
			},
			ref: func(key, column string) (uuid.UUID, bool) {
				t, ok := s.tokens[key]
				if !ok || column != "user_id" {
					return uuid.Nil, false
				}
				return t.UserID, true
			},
			clear:  func(string, string) {},
			remove: func(key string) { delete(s.tokens, key) },
		},
	}

	return s
}

// NewRepository returns the repository set backed by a fresh store.
func NewRepository() *repository.Repository {
	return NewStore().Repository()
}

func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		Address:    &addressRepo{s},
		Cinema:     &cinemaRepo{s},
		Film:       &filmRepo{s},
		FilmCinema: &filmCinemaRepo{s},
		Ticket:     &ticketRepo{s},
		User:       &userRepo{s},
		Token:      &tokenRepo{s},
	}
}

// uuidTable adapts a uuid keyed map. required returns the NOT NULL reference
// column of a row, nullable the optional one.
func uuidTable[V any](
	rows map[uuid.UUID]V,
	required func(*V, string) *uuid.UUID,
	nullable func(*V, string) **uuid.UUID,
) table {
	parse := func(key string) uuid.UUID {
		id, _ := uuid.Parse(key)
		return id
	}

	return table{
		keys: func() []string {
			out := make([]string, 0, len(rows))
			for id := range rows {
				out = append(out, id.String())
			}
			return out
		},
		has: func(key string) bool {
			_, ok := rows[parse(key)]
			return ok
		},
		ref: func(key, column string) (uuid.UUID, bool) {
			row, ok := rows[parse(key)]
			if !ok {
				return uuid.Nil, false
			}
			if required != nil {
				if p := required(&row, column); p != nil {
					return *p, true
				}
			}
			if nullable != nil {
				if p := nullable(&row, column); p != nil && *p != nil {
					return **p, true
				}
			}
			return uuid.Nil, false
		},
		clear: func(key, column string) {
			id := parse(key)
			row, ok := rows[id]
			if !ok || nullable == nil {
				return
			}
			if p := nullable(&row, column); p != nil {
				*p = nil
				rows[id] = row
			}
		},
		remove: func(key string) { delete(rows, parse(key)) },
	}
}

// deleteRow removes a row and applies the declared delete policy to every
// row referencing it. Callers hold the write lock.
func (s *Store) deleteRow(name, key string) bool {
	t := s.tables[name]
	if !t.has(key) {
		return false
	}
	t.remove(key)

	for _, rel := range entity.RelationsFrom(name) {
		child := s.tables[rel.Child]
		for _, childKey := range child.keys() {
			parent, ok := child.ref(childKey, rel.Column)
			if !ok || parent.String() != key {
				continue
			}
			switch rel.OnDelete {
			case entity.OnDeleteCascade:
				s.deleteRow(rel.Child, childKey)
			case entity.OnDeleteSetNull:
				child.clear(childKey, rel.Column)
			}
		}
	}
	return true
}

// checkReferences fails with repository.ErrReference when a row of name
// points at a parent that does not exist. Callers hold the lock.
func (s *Store) checkReferences(name, key string) error {
	t := s.tables[name]
	for _, rel := range entity.Relations {
		if rel.Child != name {
			continue
		}
		parent, ok := t.ref(key, rel.Column)
		if !ok {
			continue
		}
		if !s.tables[rel.Parent].has(parent.String()) {
			return fmt.Errorf("%s.%s %s: %w", name, rel.Column, parent, repository.ErrReference)
		}
	}
	return nil
}

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
