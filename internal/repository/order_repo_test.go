package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eunrcn/cs4218-2420-ecom-project-team48-sub000/internal/domain"
)

var errCommitLost = errors.New("connection lost during commit")

// commitFailDriver accepts every statement in the checkout transaction
// and then fails the commit, like a connection dropped at the worst
// possible moment.
type commitFailDriver struct{}

func (commitFailDriver) Open(name string) (driver.Conn, error) { return &commitFailConn{}, nil }

type commitFailConn struct{}

func (*commitFailConn) Prepare(query string) (driver.Stmt, error) { return &commitFailStmt{}, nil }
func (*commitFailConn) Close() error                              { return nil }
func (*commitFailConn) Begin() (driver.Tx, error)                 { return &commitFailTx{}, nil }

type commitFailTx struct{}

func (*commitFailTx) Commit() error   { return errCommitLost }
func (*commitFailTx) Rollback() error { return nil }

type commitFailStmt struct{}

func (*commitFailStmt) Close() error  { return nil }
func (*commitFailStmt) NumInput() int { return -1 }
func (*commitFailStmt) Exec(args []driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}
func (*commitFailStmt) Query(args []driver.Value) (driver.Rows, error) {
	return &orderInsertRows{}, nil
}

// orderInsertRows plays the RETURNING row of the order insert.
type orderInsertRows struct{ done bool }

func (*orderInsertRows) Columns() []string { return []string{"id", "created_at", "updated_at"} }
func (*orderInsertRows) Close() error      { return nil }
func (r *orderInsertRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	now := time.Now()
	dest[0] = int64(1)
	dest[1] = now
	dest[2] = now
	return nil
}

func init() {
	sql.Register("ordercommitfail", commitFailDriver{})
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestCreateOrderPropagatesCommitFailure(t *testing.T) {
	db, err := sql.Open("ordercommitfail", "")
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresOrderRepository(db, discardLogger())

	created, err := repo.CreateOrder(&domain.Order{
		Reference: "11111111-2222-3333-4444-555555555555",
		BuyerID:   7,
		Products:  []domain.OrderProduct{{ProductID: 1}, {ProductID: 2}},
		Payment:   domain.PaymentResult{Success: true, TransactionID: "txn-1"},
		Status:    domain.StatusNotProcess,
	})

	// A failed commit persisted nothing, so the checkout must fail too.
	require.Error(t, err)
	assert.ErrorIs(t, err, errCommitLost)
	assert.Contains(t, err.Error(), "commit")
	assert.Nil(t, created)
}
