package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popeskul/pharmacy-messenger/internal/models"
	"github.com/popeskul/pharmacy-messenger/internal/repository"
)

func TestMessageRepository_CreateAndList(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewRepository(db)

	customer, err := repo.Customer().Upsert(ctx, models.UpsertCustomerParams{ViberID: "viber-10", Name: "Su"})
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	token := "5491893452381427391"
	inputs := []*models.Message{
		{CustomerID: customer.ID, SenderType: models.SenderTypeCustomer, MessageText: "hello", ViberMessageToken: &token, CreatedAt: base},
		{CustomerID: customer.ID, SenderType: models.SenderTypeSystem, MessageText: "reply", CreatedAt: base},
		{CustomerID: customer.ID, SenderType: models.SenderTypeAdmin, MessageText: "from admin", CreatedAt: base.Add(time.Minute)},
	}
	for _, in := range inputs {
		stored, err := repo.Message().Create(ctx, in)
		require.NoError(t, err)
		assert.NotZero(t, stored.ID)
		assert.Equal(t, in.SenderType, stored.SenderType)
	}

	tests := []struct {
		name     string
		offset   int
		limit    int
		expected []string
	}{
		{name: "all messages oldest first with id tiebreak", offset: 0, limit: 10, expected: []string{"hello", "reply", "from admin"}},
		{name: "second page", offset: 2, limit: 2, expected: []string{"from admin"}},
		{name: "offset beyond end", offset: 5, limit: 2, expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Message().ListByCustomer(ctx, customer.ID, tt.offset, tt.limit)
			require.NoError(t, err)

			var texts []string
			for _, m := range got {
				texts = append(texts, m.MessageText)
			}
			assert.Equal(t, tt.expected, texts)
		})
	}

	count, err := repo.Message().CountByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	list, err := repo.Message().ListByCustomer(ctx, customer.ID, 0, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].ViberMessageToken)
	assert.Equal(t, token, *list[0].ViberMessageToken)
}

func TestMessageRepository_Create_Failure(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewMessageRepository(db)

	tests := []struct {
		name          string
		msg           *models.Message
		expectedError string
	}{
		{
			name:          "unknown customer violates foreign key",
			msg:           &models.Message{CustomerID: 999, SenderType: models.SenderTypeSystem, MessageText: "orphan"},
			expectedError: "foreign key",
		},
		{
			name:          "invalid sender type violates check constraint",
			msg:           &models.Message{CustomerID: 1, SenderType: "robot", MessageText: "bad"},
			expectedError: "failed to create message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanupTestData(t, db)

			stored, err := repo.Create(ctx, tt.msg)
			require.Error(t, err)
			assert.Nil(t, stored)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestRepository_Ping(t *testing.T) {
	db, cleanup := setupTestDB(t)

	repo := repository.NewRepository(db)
	assert.NotNil(t, repo.Customer())
	assert.Same(t, repo.Message(), repo.Message())
	require.NoError(t, repo.Ping(context.Background()))

	cleanup()

	err := repo.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is closed")
}
