package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
	"github.com/stretchr/testify/require"
)

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Adapter{db: db}, mock
}

func TestNewAdapter_ValidatesSchema(t *testing.T) {
	tests := []struct {
		name    string
		mockFn  func(mock sqlmock.Sqlmock)
		wantErr string
	}{
		{
			name: "table present",
			mockFn: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(queryTableExists)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
		},
		{
			name: "table missing",
			mockFn: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(queryTableExists)).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: "did you run migrations?",
		},
		{
			name: "query error",
			mockFn: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(queryTableExists)).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: "failed to check schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mockFn(mock)

			adapter, err := NewAdapter(db)
			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
				require.Nil(t, adapter)
			} else {
				require.NoError(t, err)
				require.Same(t, db, adapter.DB())
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdapter_Load(t *testing.T) {
	synced := time.Date(2025, 10, 29, 6, 0, 0, 0, time.UTC)

	t.Run("records in saved order with last sync", func(t *testing.T) {
		adapter, mock := newMockAdapter(t)

		mock.ExpectQuery(regexp.QuoteMeta(queryLoadRecords)).
			WillReturnRows(sqlmock.NewRows([]string{"data"}).
				AddRow([]byte(`{"state_name":"MAHARASHTRA","district_code":"1802","district_name":"PUNE","fin_year":"2024-2025","Approved_Labour_Budget":"900"}`)).
				AddRow([]byte(`{"state_name":"MAHARASHTRA","district_code":"1801","district_name":"NASHIK","fin_year":"2024-2025"}`)))
		mock.ExpectQuery(regexp.QuoteMeta(queryLoadLastSync)).
			WillReturnRows(sqlmock.NewRows([]string{"last_sync"}).AddRow(synced))

		snap, err := adapter.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, snap.Records, 2)
		require.Equal(t, "1802", snap.Records[0].DistrictCode)
		require.Equal(t, "1801", snap.Records[1].DistrictCode)
		require.Equal(t, "900", snap.Records[0].ApprovedBudget().String())
		require.NotNil(t, snap.LastSync)
		require.True(t, synced.Equal(*snap.LastSync))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty tables", func(t *testing.T) {
		adapter, mock := newMockAdapter(t)

		mock.ExpectQuery(regexp.QuoteMeta(queryLoadRecords)).
			WillReturnRows(sqlmock.NewRows([]string{"data"}))
		mock.ExpectQuery(regexp.QuoteMeta(queryLoadLastSync)).
			WillReturnError(sql.ErrNoRows)

		snap, err := adapter.Load(context.Background())
		require.NoError(t, err)
		require.NotNil(t, snap.Records)
		require.Empty(t, snap.Records)
		require.Nil(t, snap.LastSync)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt row", func(t *testing.T) {
		adapter, mock := newMockAdapter(t)

		mock.ExpectQuery(regexp.QuoteMeta(queryLoadRecords)).
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{not json`)))

		_, err := adapter.Load(context.Background())
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to unmarshal record")
	})
}

func TestAdapter_Save(t *testing.T) {
	synced := time.Date(2025, 10, 29, 6, 0, 0, 0, time.UTC)
	snap := &storage.Snapshot{
		Records: []v1.Record{
			{StateName: "MAHARASHTRA", DistrictCode: "1801", DistrictName: "NASHIK", FinYear: "2024-2025"},
			{StateName: "MAHARASHTRA", DistrictCode: "1802", DistrictName: "PUNE", DistrictNameLocalized: "पुणे", FinYear: "2024-2025"},
		},
		LastSync: &synced,
	}

	t.Run("replaces rows in one transaction", func(t *testing.T) {
		adapter, mock := newMockAdapter(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(queryDeleteRecords)).
			WillReturnResult(sqlmock.NewResult(0, 5))
		prep := mock.ExpectPrepare(regexp.QuoteMeta(queryInsertRecord))
		prep.ExpectExec().
			WithArgs(0, "1801", "2024-2025", "MAHARASHTRA", "NASHIK", "", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().
			WithArgs(1, "1802", "2024-2025", "MAHARASHTRA", "PUNE", "पुणे", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(queryUpsertLastSync)).
			WithArgs(synced).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, adapter.Save(context.Background(), snap))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		adapter, mock := newMockAdapter(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(queryDeleteRecords)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare(regexp.QuoteMeta(queryInsertRecord))
		prep.ExpectExec().
			WithArgs(0, "1801", "2024-2025", "MAHARASHTRA", "NASHIK", "", sqlmock.AnyArg()).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := adapter.Save(context.Background(), snap)
		require.Error(t, err)
		require.Contains(t, err.Error(), "insert record 1801-2024-2025")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("record without identity is rejected", func(t *testing.T) {
		adapter, mock := newMockAdapter(t)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(queryDeleteRecords)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectPrepare(regexp.QuoteMeta(queryInsertRecord))
		mock.ExpectRollback()

		bad := &storage.Snapshot{Records: []v1.Record{{StateName: "GOA", FinYear: "2024-2025"}}}
		err := adapter.Save(context.Background(), bad)
		require.ErrorIs(t, err, storage.ErrInvalidRecord)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		adapter, mock := newMockAdapter(t)

		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		err := adapter.Save(context.Background(), snap)
		require.Error(t, err)
		require.Contains(t, err.Error(), "begin tx")
	})
}

func TestAdapter_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	adapter := &Adapter{db: db}

	mock.ExpectPing()
	require.NoError(t, adapter.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	require.Error(t, adapter.Ping(context.Background()))

	require.NoError(t, mock.ExpectationsWereMet())
}
