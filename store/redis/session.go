package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/maisonhq/runway/id"
	"github.com/maisonhq/runway/session"
)

// maxTxRetries bounds optimistic-lock retries on watched transactions.
const maxTxRetries = 3

// UpsertSession stores the record as JSON and indexes it by update time.
func (s *Store) UpsertSession(ctx context.Context, rec *session.Record) error {
	sID := rec.SessionID.String()

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("runway/redis: marshal session: %w", err)
	}

	entry := goredis.Z{
		Score:  float64(rec.UpdatedAt.UnixMilli()),
		Member: sID,
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sID), payload, 0)
	pipe.ZAdd(ctx, sessionIndexKey, entry)
	if !rec.UserID.IsNil() {
		pipe.ZAdd(ctx, sessionUserKey(rec.UserID.String()), entry)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("runway/redis: upsert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session record by ID.
func (s *Store) GetSession(ctx context.Context, sessionID id.SessionID) (*session.Record, error) {
	return s.getSessionByKey(ctx, sessionKey(sessionID.String()))
}

func (s *Store) getSessionByKey(ctx context.Context, key string) (*session.Record, error) {
	payload, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("runway/redis: get session: %w", err)
	}

	var rec session.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("runway/redis: unmarshal session: %w", err)
	}
	return &rec, nil
}

// DeleteSession removes a session record and its index entries. The record
// key is watched between the read and the delete so a concurrent upsert
// aborts the transaction instead of leaving dangling index entries.
func (s *Store) DeleteSession(ctx context.Context, sessionID id.SessionID) error {
	sID := sessionID.String()
	key := sessionKey(sID)

	txn := func(tx *goredis.Tx) error {
		payload, err := tx.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return nil
			}
			return err
		}

		var rec session.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, sessionIndexKey, sID)
			if !rec.UserID.IsNil() {
				pipe.ZRem(ctx, sessionUserKey(rec.UserID.String()), sID)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("runway/redis: delete session: %w", err)
	}
	return fmt.Errorf("runway/redis: delete session: %w", goredis.TxFailedErr)
}

// ListSessions returns session records most recently updated first. A
// user-filtered listing pages over that user's own index so Limit and
// Offset count only the user's sessions.
func (s *Store) ListSessions(ctx context.Context, opts session.ListOpts) ([]*session.Record, error) {
	index := sessionIndexKey
	if !opts.UserID.IsNil() {
		index = sessionUserKey(opts.UserID.String())
	}

	stop := int64(-1)
	if opts.Limit > 0 {
		stop = int64(opts.Offset + opts.Limit - 1)
	}

	ids, err := s.client.ZRevRange(ctx, index, int64(opts.Offset), stop).Result()
	if err != nil {
		return nil, fmt.Errorf("runway/redis: list sessions: %w", err)
	}

	out := make([]*session.Record, 0, len(ids))
	for _, sID := range ids {
		rec, getErr := s.getSessionByKey(ctx, sessionKey(sID))
		if getErr != nil {
			if errors.Is(getErr, session.ErrNotFound) {
				// Index entry outlived the record; skip it.
				continue
			}
			return nil, getErr
		}
		out = append(out, rec)
	}
	return out, nil
}
