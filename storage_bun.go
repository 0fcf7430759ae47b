package foodsense

import (
	"context"
	"database/sql"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type sessionEntry struct {
	bun.BaseModel `bun:"table:session_entries,alias:se"`
	Key           string `bun:"key,pk" json:"key"`
	Value         string `bun:"value,notnull" json:"value"`
}

// BunStorage persists the session in a sqlite (or any bun-supported)
// database. Both entries are written in one transaction so readers never
// observe a token without its user or vice versa.
type BunStorage struct {
	db     *bun.DB
	logger Logger
}

var _ Storage = (*BunStorage)(nil)

// NewBunStorage wraps an existing bun.DB. Call EnsureSchema once before use.
func NewBunStorage(db *bun.DB) *BunStorage {
	return &BunStorage{db: db, logger: defLogger{}}
}

// WithLogger overrides the logger used for cleanup warnings.
func (s *BunStorage) WithLogger(logger Logger) *BunStorage {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// EnsureSchema creates the session table if it does not exist.
func (s *BunStorage) EnsureSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*sessionEntry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to create session table")
	}
	return nil
}

// Write upserts both entries in a single transaction.
func (s *BunStorage) Write(ctx context.Context, token string, user *UserProfile) error {
	raw, err := encodeSessionUser(token, user)
	if err != nil {
		return err
	}

	entries := []sessionEntry{
		{Key: storageKeyToken, Value: token},
		{Key: storageKeyUser, Value: string(raw)},
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for i := range entries {
			if _, err := tx.NewInsert().
				Model(&entries[i]).
				On("CONFLICT (key) DO UPDATE").
				Set("value = EXCLUDED.value").
				Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to persist session")
	}
	return nil
}

// Read returns the persisted session, or nil when absent. A stray single
// row or an undecodable user blob is deleted and reported as absent.
func (s *BunStorage) Read(ctx context.Context) (*Session, error) {
	var entries []sessionEntry
	err := s.db.NewSelect().
		Model(&entries).
		Where("key IN (?, ?)", storageKeyToken, storageKeyUser).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "unable to read session")
	}

	if len(entries) == 0 {
		return nil, nil
	}

	var token, userRaw string
	for _, e := range entries {
		switch e.Key {
		case storageKeyToken:
			token = e.Value
		case storageKeyUser:
			userRaw = e.Value
		}
	}

	if token == "" || userRaw == "" {
		s.logger.Warn("session table holds a stray entry, clearing")
		return nil, s.Clear(ctx)
	}

	session, ok := decodeSessionRow(token, userRaw)
	if !ok {
		s.logger.Warn("session user entry corrupt, clearing")
		return nil, s.Clear(ctx)
	}
	return session, nil
}

// Clear removes both entries unconditionally.
func (s *BunStorage) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*sessionEntry)(nil)).
		Where("key IN (?, ?)", storageKeyToken, storageKeyUser).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "unable to clear session")
	}
	return nil
}
