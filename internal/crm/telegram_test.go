package crm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTelegramUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ResolveTelegramUser(12345)
	assert.ErrorIs(t, err, ErrChatNotLinked)

	require.NoError(t, s.LinkTelegramUser(12345, 7))

	userID, err := s.ResolveTelegramUser(12345)
	require.NoError(t, err)
	assert.EqualValues(t, 7, userID)
}

func TestLinkTelegramUserRelink(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.LinkTelegramUser(12345, 7))
	require.NoError(t, s.LinkTelegramUser(12345, 9))

	userID, err := s.ResolveTelegramUser(12345)
	require.NoError(t, err)
	assert.EqualValues(t, 9, userID)

	assert.ErrorIs(t, s.LinkTelegramUser(12345, 0), ErrUnauthenticated)
}
