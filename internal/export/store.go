package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"er-editor/internal/export/migrations"
	"er-editor/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

// DB is the part of *pgxpool.Pool the snapshot store uses.
type DB interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Store keeps the latest loaded record set in PostgreSQL, keyed by identifier.
type Store struct {
	db DB
}

// NewStore creates a snapshot store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Connect opens a pool and checks it answers.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")
	return pool, nil
}

const upsertAbility = `
	INSERT INTO abilities (id, ordinal, name, description)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO UPDATE SET
		ordinal     = EXCLUDED.ordinal,
		name        = EXCLUDED.name,
		description = EXCLUDED.description,
		updated_at  = now()`

const upsertMove = `
	INSERT INTO moves (id, ordinal, name, short_name, effect, power, type, type2, accuracy, pp,
		secondary_effect_chance, target, priority, split, flags, argument, animation)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (id) DO UPDATE SET
		ordinal                 = EXCLUDED.ordinal,
		name                    = EXCLUDED.name,
		short_name              = EXCLUDED.short_name,
		effect                  = EXCLUDED.effect,
		power                   = EXCLUDED.power,
		type                    = EXCLUDED.type,
		type2                   = EXCLUDED.type2,
		accuracy                = EXCLUDED.accuracy,
		pp                      = EXCLUDED.pp,
		secondary_effect_chance = EXCLUDED.secondary_effect_chance,
		target                  = EXCLUDED.target,
		priority                = EXCLUDED.priority,
		split                   = EXCLUDED.split,
		flags                   = EXCLUDED.flags,
		argument                = EXCLUDED.argument,
		animation               = EXCLUDED.animation,
		updated_at              = now()`

// Migrate applies the embedded snapshot migrations to the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

const (
	pruneAbilities = `DELETE FROM abilities WHERE NOT (id = ANY($1))`
	pruneMoves     = `DELETE FROM moves WHERE NOT (id = ANY($1))`
)

// SaveSnapshot upserts every ability and move in one batch, drops rows for
// identifiers no longer present, and returns the number of statements run.
func (s *Store) SaveSnapshot(ctx context.Context, rs *model.RecordSet) (int, error) {
	batch := &pgx.Batch{}
	abilityIDs := make([]string, 0, len(rs.Abilities.Abilities))
	for i, a := range rs.Abilities.Abilities {
		batch.Queue(upsertAbility, a.ID, i, a.Name, strings.Join(a.Description, "\n"))
		abilityIDs = append(abilityIDs, a.ID)
	}
	moveIDs := make([]string, 0, len(rs.Moves.Moves))
	for i, m := range rs.Moves.Moves {
		bm := m.Battle
		target, err := bm.Target.Names()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", m.ID, err)
		}
		batch.Queue(upsertMove,
			m.ID, i, m.Name, m.ShortName, bm.Effect, bm.Power,
			bm.Type.String(), bm.Type2.String(), bm.Accuracy, bm.PP,
			bm.SecondaryEffectChance, target, bm.Priority, bm.Split.String(),
			bm.Flags.Sorted(), bm.Argument, m.Animation,
		)
		moveIDs = append(moveIDs, m.ID)
	}
	batch.Queue(pruneAbilities, abilityIDs)
	batch.Queue(pruneMoves, moveIDs)

	br := s.db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return i, fmt.Errorf("snapshot statement %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return batch.Len(), fmt.Errorf("close batch: %w", err)
	}

	log.Info().
		Int("abilities", len(rs.Abilities.Abilities)).
		Int("moves", len(rs.Moves.Moves)).
		Msg("Saved snapshot to PostgreSQL")
	return batch.Len(), nil
}
