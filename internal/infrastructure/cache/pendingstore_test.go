package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type visitRecord struct {
	Code  string `json:"code"`
	RowID uint   `json:"row_id"`
}

func TestPendingStore_Put(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewPendingStore(client)

	mock.ExpectSet("fammo:pending:referral-visit:tok-1", []byte(`{"code":"vet-abc","row_id":7}`), time.Hour).SetVal("OK")

	err := store.Put(t.Context(), "referral-visit", "tok-1", visitRecord{Code: "vet-abc", RowID: 7}, time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingStore_PutValidation(t *testing.T) {
	client, _ := redismock.NewClientMock()
	store := NewPendingStore(client)

	assert.Error(t, store.Put(t.Context(), "", "k", 1, time.Hour))
	assert.Error(t, store.Put(t.Context(), "kind", "", 1, time.Hour))
	assert.Error(t, store.Put(t.Context(), "kind", "k", 1, 0))
}

func TestPendingStore_TakeIsOneTime(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewPendingStore(client)
	key := "fammo:pending:pending-referral:42"

	mock.ExpectGetDel(key).SetVal(`{"code":"vet-abc","row_id":3}`)
	mock.ExpectGetDel(key).RedisNil()

	var got visitRecord
	require.NoError(t, store.Take(t.Context(), "pending-referral", "42", &got))
	assert.Equal(t, visitRecord{Code: "vet-abc", RowID: 3}, got)

	err := store.Take(t.Context(), "pending-referral", "42", &got)
	assert.ErrorIs(t, err, ErrPendingNotFound)
	assert.True(t, IsPendingNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingStore_Peek(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewPendingStore(client)

	mock.ExpectGet("fammo:pending:pet-wizard:w1").SetVal(`{"code":"x","row_id":1}`)
	mock.ExpectGet("fammo:pending:pet-wizard:w2").SetErr(errors.New("connection refused"))
	mock.ExpectGet("fammo:pending:pet-wizard:w3").SetVal(`not-json`)

	var got visitRecord
	require.NoError(t, store.Peek(t.Context(), "pet-wizard", "w1", &got))
	assert.Equal(t, "x", got.Code)

	err := store.Peek(t.Context(), "pet-wizard", "w2", &got)
	require.Error(t, err)
	assert.False(t, IsPendingNotFound(err))

	assert.Error(t, store.Peek(t.Context(), "pet-wizard", "w3", &got))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingStore_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewPendingStore(client)

	mock.ExpectDel("fammo:pending:pending-pet:9").SetVal(1)
	require.NoError(t, store.Delete(t.Context(), "pending-pet", "9"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
