package store

import (
	"context"
	"crawshaw.io/sqlite"
	"crawshaw.io/sqlite/sqlitex"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/pkg/errors"
)

const schema = `create table if not exists status (
	instance_id text primary key,
	txn_id      text not null,
	state       text not null,
	timestamp   integer not null,
	notify      text
)`

// SQLite is a file-backed store for running the recorders locally.
type SQLite struct {
	dbpool *sqlitex.Pool
}

func OpenSQLite(path string, poolSize int) (*SQLite, error) {
	dbpool, err := sqlitex.Open("file:"+path, 0, poolSize)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	conn := dbpool.Get(context.Background())
	err = sqlitex.Exec(conn, schema, nil)
	dbpool.Put(conn)
	if err != nil {
		dbpool.Close()
		return nil, errors.WithStack(err)
	}

	return &SQLite{dbpool: dbpool}, nil
}

func (s *SQLite) Close() error {
	return errors.WithStack(s.dbpool.Close())
}

// Put replaces the whole row. An empty notify is stored as NULL.
func (s *SQLite) Put(ctx context.Context, r status.Record) error {
	conn := s.dbpool.Get(ctx)
	if conn == nil {
		return storageError(r.InstanceID, ctx.Err())
	}
	defer s.dbpool.Put(conn)

	err := sqlitex.Exec(conn,
		`insert or replace into status(instance_id, txn_id, state, timestamp, notify) values(?, ?, ?, ?, nullif(?, ''))`,
		nil, r.InstanceID, r.TxnID, r.State, r.Timestamp, r.Notify)
	if err != nil {
		return storageError(r.InstanceID, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, instanceID string) (*status.Record, error) {
	conn := s.dbpool.Get(ctx)
	if conn == nil {
		return nil, storageError(instanceID, ctx.Err())
	}
	defer s.dbpool.Put(conn)

	var found *status.Record
	err := sqlitex.Exec(conn,
		`select instance_id, txn_id, state, timestamp, notify from status where instance_id = ?`,
		func(stmt *sqlite.Stmt) error {
			found = &status.Record{
				InstanceID: stmt.ColumnText(0),
				TxnID:      stmt.ColumnText(1),
				State:      stmt.ColumnText(2),
				Timestamp:  stmt.ColumnInt64(3),
				Notify:     stmt.ColumnText(4),
			}
			return nil
		}, instanceID)
	if err != nil {
		return nil, storageError(instanceID, err)
	}

	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}
