package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/lithammer/shortuuid/v4"

	"github.com/abhisek/vulcan/internal/clock"
)

var deckColumns = []string{"id", "name", "file_name", "cards", "created_at", "last_used"}

type deckRow struct {
	ID        string `sql:"id"`
	Name      string `sql:"name"`
	FileName  string `sql:"file_name"`
	Cards     string `sql:"cards"`
	CreatedAt int64  `sql:"created_at"`
	LastUsed  int64  `sql:"last_used"`
}

func (r deckRow) toSavedDeck() (*SavedDeck, error) {
	var cards []CardData
	if err := json.Unmarshal([]byte(r.Cards), &cards); err != nil {
		return nil, fmt.Errorf("decode cards of deck %s: %w", r.ID, err)
	}
	return &SavedDeck{
		ID:        r.ID,
		Name:      r.Name,
		FileName:  r.FileName,
		Cards:     cards,
		CreatedAt: time.UnixMilli(r.CreatedAt),
		LastUsed:  time.UnixMilli(r.LastUsed),
	}, nil
}

// deckRepo implements DeckRepo on the decks table.
type deckRepo struct {
	drv   *entsql.Driver
	clock clock.Clock
}

func (r *deckRepo) List(ctx context.Context) ([]SavedDeck, error) {
	var rows []deckRow
	sel := builder.Select(deckColumns...).
		From(entsql.Table(tableDecks)).
		OrderBy(entsql.Desc("last_used"), entsql.Desc("created_at"))
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}

	decks := make([]SavedDeck, 0, len(rows))
	for _, row := range rows {
		d, err := row.toSavedDeck()
		if err != nil {
			return nil, err
		}
		decks = append(decks, *d)
	}
	return decks, nil
}

func (r *deckRepo) Save(ctx context.Context, name, fileName string, cards []CardData) (*SavedDeck, error) {
	data, err := json.Marshal(cards)
	if err != nil {
		return nil, fmt.Errorf("encode cards: %w", err)
	}
	now := r.clock.Now().UnixMilli()

	existing, err := r.find(ctx, entsql.EQ("name", name))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		upd := builder.Update(tableDecks).
			Set("file_name", fileName).
			Set("cards", string(data)).
			Set("last_used", now).
			Where(entsql.EQ("id", existing.ID))
		if _, err := exec(ctx, r.drv, upd); err != nil {
			return nil, fmt.Errorf("update deck %q: %w", name, err)
		}
		return r.Get(ctx, existing.ID)
	}

	id := shortuuid.New()
	ins := builder.Insert(tableDecks).
		Columns(deckColumns...).
		Values(id, name, fileName, string(data), now, now)
	if _, err := exec(ctx, r.drv, ins); err != nil {
		return nil, fmt.Errorf("insert deck %q: %w", name, err)
	}
	if err := r.trim(ctx); err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *deckRepo) Get(ctx context.Context, id string) (*SavedDeck, error) {
	row, err := r.find(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, ErrDeckNotFound
	}
	return row.toSavedDeck()
}

func (r *deckRepo) Delete(ctx context.Context, id string) error {
	del := builder.Delete(tableDecks).Where(entsql.EQ("id", id))
	if _, err := exec(ctx, r.drv, del); err != nil {
		return fmt.Errorf("delete deck %s: %w", id, err)
	}
	return nil
}

func (r *deckRepo) TouchLastUsed(ctx context.Context, id string) error {
	upd := builder.Update(tableDecks).
		Set("last_used", r.clock.Now().UnixMilli()).
		Where(entsql.EQ("id", id))
	res, err := exec(ctx, r.drv, upd)
	if err != nil {
		return fmt.Errorf("touch deck %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDeckNotFound
	}
	return nil
}

func (r *deckRepo) find(ctx context.Context, p *entsql.Predicate) (*deckRow, error) {
	var rows []deckRow
	sel := builder.Select(deckColumns...).
		From(entsql.Table(tableDecks)).
		Where(p).
		Limit(1)
	if err := scanAll(ctx, r.drv, sel, &rows); err != nil {
		return nil, fmt.Errorf("query deck: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// trim evicts the least recently used decks beyond MaxSavedDecks.
func (r *deckRepo) trim(ctx context.Context) error {
	var ids []string
	sel := builder.Select("id").
		From(entsql.Table(tableDecks)).
		OrderBy(entsql.Desc("last_used"), entsql.Desc("created_at"))
	if err := scanAll(ctx, r.drv, sel, &ids); err != nil {
		return fmt.Errorf("list deck ids: %w", err)
	}
	if len(ids) <= MaxSavedDecks {
		return nil
	}

	evict := make([]any, 0, len(ids)-MaxSavedDecks)
	for _, id := range ids[MaxSavedDecks:] {
		evict = append(evict, id)
	}
	del := builder.Delete(tableDecks).Where(entsql.In("id", evict...))
	if _, err := exec(ctx, r.drv, del); err != nil {
		return fmt.Errorf("evict decks: %w", err)
	}
	return nil
}
