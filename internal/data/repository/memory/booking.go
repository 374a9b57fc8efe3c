package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"

	"github.com/google/uuid"
)

type ticketRepo struct{ s *Store }

func compareTickets(a, b entity.Ticket) int {
	return cmp.Or(
		cmp.Compare(a.Time.Microseconds, b.Time.Microseconds),
		strings.Compare(a.Place, b.Place),
		strings.Compare(a.ID.String(), b.ID.String()),
	)
}

func (r *ticketRepo) duplicate(t *entity.Ticket) bool {
	for id, other := range r.s.tickets {
		if id != t.ID && other.FilmCinemaID == t.FilmCinemaID {
			return true
		}
	}
	return false
}

func (r *ticketRepo) Create(_ context.Context, ticket *entity.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tickets[ticket.ID]; ok || r.duplicate(ticket) {
		return fmt.Errorf("ticket for showing %s: %w", ticket.FilmCinemaID, repository.ErrDuplicate)
	}
	return insert(r.s, "tickets", r.s.tickets, ticket.ID, cloneTicket(*ticket))
}

func (r *ticketRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return nil, nil
	}
	t = cloneTicket(t)
	return &t, nil
}

func (r *ticketRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Ticket, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := slices.SortedFunc(maps.Values(r.s.tickets), compareTickets)
	out := pointers(page(all, limit, offset))
	for _, t := range out {
		*t = cloneTicket(*t)
	}
	return out, nil
}

func (r *ticketRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.tickets)), nil
}

func (r *ticketRepo) Update(_ context.Context, ticket *entity.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.duplicate(ticket) {
		return fmt.Errorf("ticket for showing %s: %w", ticket.FilmCinemaID, repository.ErrDuplicate)
	}
	return replace(r.s, "tickets", r.s.tickets, ticket.ID, cloneTicket(*ticket))
}

func (r *ticketRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.deleteRow("tickets", id.String()) {
		return fmt.Errorf("ticket %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func (r *ticketRepo) SetOwner(_ context.Context, id uuid.UUID, userID *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets[id]
	if !ok {
		return fmt.Errorf("ticket %s: %w", id, repository.ErrNotFound)
	}
	if userID != nil {
		if _, ok := r.s.users[*userID]; !ok {
			return fmt.Errorf("tickets.user_id %s: %w", *userID, repository.ErrReference)
		}
	}
	r.s.tickets[id] = withOwner(t, userID)
	return nil
}

func (r *ticketRepo) ClaimIfFree(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets[id]
	if !ok || (t.IsClaimed() && !t.IsClaimedBy(userID)) {
		return false, nil
	}
	if _, ok := r.s.users[userID]; !ok {
		return false, fmt.Errorf("tickets.user_id %s: %w", userID, repository.ErrReference)
	}
	r.s.tickets[id] = withOwner(t, &userID)
	return true, nil
}

func (r *ticketRepo) ReleaseIfOwnedBy(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tickets[id]
	if !ok || !t.IsClaimedBy(userID) {
		return false, nil
	}
	r.s.tickets[id] = withOwner(t, nil)
	return true, nil
}

func (r *ticketRepo) FindDetails(_ context.Context, filter repository.TicketFilter) ([]*entity.TicketDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var details []*entity.TicketDetail
	for _, t := range slices.SortedFunc(maps.Values(r.s.tickets), compareTickets) {
		fc := r.s.filmCinemas[t.FilmCinemaID]
		switch {
		case filter.FilmID != nil && fc.FilmID != *filter.FilmID,
			filter.CinemaID != nil && fc.CinemaID != *filter.CinemaID,
			filter.UserID != nil && !t.IsClaimedBy(*filter.UserID):
			continue
		}

		details = append(details, &entity.TicketDetail{
			Ticket:     cloneTicket(t),
			FilmID:     fc.FilmID,
			FilmName:   r.s.films[fc.FilmID].Name,
			CinemaID:   fc.CinemaID,
			CinemaName: r.s.cinemas[fc.CinemaID].Name,
		})
	}
	return details, nil
}

func withOwner(t entity.Ticket, userID *uuid.UUID) entity.Ticket {
	if userID != nil {
		id := *userID
		userID = &id
	}
	t.UserID = userID
	t.UpdatedAt = time.Now()
	return t
}

// cloneTicket detaches the owner pointer from the stored row.
func cloneTicket(t entity.Ticket) entity.Ticket {
	if t.UserID != nil {
		id := *t.UserID
		t.UserID = &id
	}
	return t
}

type userRepo struct{ s *Store }

func (r *userRepo) CreateWithToken(_ context.Context, user *entity.User, token *entity.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; ok {
		return fmt.Errorf("user %s: %w", user.ID, repository.ErrDuplicate)
	}
	for _, other := range r.s.users {
		if other.Username == user.Username {
			return fmt.Errorf("username %s: %w", user.Username, repository.ErrDuplicate)
		}
	}
	if _, ok := r.s.tokens[token.Key]; ok {
		return fmt.Errorf("token: %w", repository.ErrDuplicate)
	}
	if token.UserID != user.ID {
		return fmt.Errorf("tokens.user_id %s: %w", token.UserID, repository.ErrReference)
	}

	r.s.users[user.ID] = cloneUser(*user)
	r.s.tokens[token.Key] = *token
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	u = cloneUser(u)
	return &u, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := slices.SortedFunc(maps.Values(r.s.users), func(a, b entity.User) int {
		return strings.Compare(a.Username, b.Username)
	})
	out := pointers(page(all, limit, offset))
	for _, u := range out {
		*u = cloneUser(*u)
	}
	return out, nil
}

func (r *userRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	old, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, repository.ErrNotFound)
	}
	for id, other := range r.s.users {
		if id != user.ID && other.Username == user.Username {
			return fmt.Errorf("username %s: %w", user.Username, repository.ErrDuplicate)
		}
	}

	updated := cloneUser(*user)
	updated.LastLogin = old.LastLogin
	r.s.users[user.ID] = updated
	return nil
}

func (r *userRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[id]; ok {
		u.LastLogin = &at
		r.s.users[id] = u
	}
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !r.s.deleteRow("users", id.String()) {
		return fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return nil
}

func cloneUser(u entity.User) entity.User {
	if u.LastLogin != nil {
		at := *u.LastLogin
		u.LastLogin = &at
	}
	return u
}

type tokenRepo struct{ s *Store }

func (r *tokenRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.Token, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tokens {
		if t.UserID == userID {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *tokenRepo) FindUserByKey(_ context.Context, key string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tokens[key]
	if !ok {
		return nil, nil
	}
	u, ok := r.s.users[t.UserID]
	if !ok {
		return nil, nil
	}
	u = cloneUser(u)
	return &u, nil
}
