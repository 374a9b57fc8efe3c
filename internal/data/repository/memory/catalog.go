package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"

	"github.com/google/uuid"
)

type addressRepo struct{ s *Store }

func (r *addressRepo) Create(_ context.Context, address *entity.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.addresses[address.ID]; ok {
		return fmt.Errorf("address %s: %w", address.ID, repository.ErrDuplicate)
	}
	r.s.addresses[address.ID] = *address
	return nil
}

func (r *addressRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.addresses[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *addressRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Address, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := slices.SortedFunc(maps.Values(r.s.addresses), func(a, b entity.Address) int {
		return cmp.Or(
			strings.Compare(a.CityName, b.CityName),
			strings.Compare(a.StreetName, b.StreetName),
			cmp.Compare(a.HouseNumber, b.HouseNumber),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return pointers(page(all, limit, offset)), nil
}

func (r *addressRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.addresses)), nil
}

func (r *addressRepo) Update(_ context.Context, address *entity.Address) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.addresses[address.ID]; !ok {
		return fmt.Errorf("address %s: %w", address.ID, repository.ErrNotFound)
	}
	r.s.addresses[address.ID] = *address
	return nil
}

func (r *addressRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.deleteRow("addresses", id.String()) {
		return fmt.Errorf("address %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

type cinemaRepo struct{ s *Store }

func (r *cinemaRepo) Create(_ context.Context, cinema *entity.Cinema) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cinemas[cinema.ID]; ok {
		return fmt.Errorf("cinema %s: %w", cinema.ID, repository.ErrDuplicate)
	}
	return insert(r.s, "cinemas", r.s.cinemas, cinema.ID, *cinema)
}

func (r *cinemaRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Cinema, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.cinemas[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *cinemaRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Cinema, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := slices.SortedFunc(maps.Values(r.s.cinemas), func(a, b entity.Cinema) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID.String(), b.ID.String()))
	})
	return pointers(page(all, limit, offset)), nil
}

func (r *cinemaRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.cinemas)), nil
}

func (r *cinemaRepo) Update(_ context.Context, cinema *entity.Cinema) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return replace(r.s, "cinemas", r.s.cinemas, cinema.ID, *cinema)
}

func (r *cinemaRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.deleteRow("cinemas", id.String()) {
		return fmt.Errorf("cinema %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

type filmRepo struct{ s *Store }

func (r *filmRepo) Create(_ context.Context, film *entity.Film) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.films[film.ID]; ok {
		return fmt.Errorf("film %s: %w", film.ID, repository.ErrDuplicate)
	}
	r.s.films[film.ID] = *film
	return nil
}

func (r *filmRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Film, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	f, ok := r.s.films[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *filmRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Film, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := slices.SortedFunc(maps.Values(r.s.films), func(a, b entity.Film) int {
		return cmp.Or(
			cmp.Compare(b.Rating, a.Rating),
			strings.Compare(a.Name, b.Name),
			strings.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return pointers(page(all, limit, offset)), nil
}

func (r *filmRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.films)), nil
}

func (r *filmRepo) Update(_ context.Context, film *entity.Film) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.films[film.ID]; !ok {
		return fmt.Errorf("film %s: %w", film.ID, repository.ErrNotFound)
	}
	r.s.films[film.ID] = *film
	return nil
}

func (r *filmRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.deleteRow("films", id.String()) {
		return fmt.Errorf("film %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

type filmCinemaRepo struct{ s *Store }

func (r *filmCinemaRepo) duplicate(fc *entity.FilmCinema) bool {
	for id, other := range r.s.filmCinemas {
		if id != fc.ID && other.CinemaID == fc.CinemaID && other.FilmID == fc.FilmID {
			return true
		}
	}
	return false
}

func (r *filmCinemaRepo) Create(_ context.Context, fc *entity.FilmCinema) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.filmCinemas[fc.ID]; ok || r.duplicate(fc) {
		return fmt.Errorf("film %s at cinema %s: %w", fc.FilmID, fc.CinemaID, repository.ErrDuplicate)
	}
	return insert(r.s, "film_cinemas", r.s.filmCinemas, fc.ID, *fc)
}

func (r *filmCinemaRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.FilmCinema, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	fc, ok := r.s.filmCinemas[id]
	if !ok {
		return nil, nil
	}
	return &fc, nil
}

func (r *filmCinemaRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.FilmCinema, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := slices.SortedFunc(maps.Values(r.s.filmCinemas), func(a, b entity.FilmCinema) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(a.ID.String(), b.ID.String()))
	})
	return pointers(page(all, limit, offset)), nil
}

func (r *filmCinemaRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.filmCinemas)), nil
}

func (r *filmCinemaRepo) Update(_ context.Context, fc *entity.FilmCinema) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.duplicate(fc) {
		return fmt.Errorf("film %s at cinema %s: %w", fc.FilmID, fc.CinemaID, repository.ErrDuplicate)
	}
	return replace(r.s, "film_cinemas", r.s.filmCinemas, fc.ID, *fc)
}

func (r *filmCinemaRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.deleteRow("film_cinemas", id.String()) {
		return fmt.Errorf("film cinema %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

// insert stores row and undoes the write when a reference is dangling.
func insert[V any](s *Store, name string, rows map[uuid.UUID]V, id uuid.UUID, row V) error {
	rows[id] = row
	if err := s.checkReferences(name, id.String()); err != nil {
		delete(rows, id)
		return err
	}
	return nil
}

// replace overwrites an existing row, restoring the old one when a
// reference is dangling.
func replace[V any](s *Store, name string, rows map[uuid.UUID]V, id uuid.UUID, row V) error {
	old, ok := rows[id]
	if !ok {
		return fmt.Errorf("%s %s: %w", name, id, repository.ErrNotFound)
	}
	rows[id] = row
	if err := s.checkReferences(name, id.String()); err != nil {
		rows[id] = old
		return err
	}
	return nil
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}
