package service

import (
	"context"
	"math/rand/v2"
	"net/http"
	"testing"

	"github.com/neslihan-na/playlearnkids-admin/internal/errs"
	"github.com/neslihan-na/playlearnkids-admin/internal/model"
	"github.com/neslihan-na/playlearnkids-admin/internal/repository"
	"github.com/neslihan-na/playlearnkids-admin/internal/store"
	"github.com/neslihan-na/playlearnkids-admin/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addMessage(t *testing.T, repos *repository.Repositories, userID, sender, text string, at int64, read bool) {
	t.Helper()
	_, err := repos.Messages.Add(context.Background(), model.Message{
		UserID:    userID,
		Text:      text,
		Sender:    sender,
		CreatedAt: at,
		Read:      read,
	})
	require.NoError(t, err)
}

func TestConversations(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	svc := NewMessageService(repos.Messages, repos.Users, testutil.Logger())

	seedUsers(t, repos, map[string]store.Document{
		"u1": {"username": "ali"},
		"u2": {"name": "Ayşe"},
	})
	addMessage(t, repos, "u1", model.SenderUser, "merhaba", 20, false)
	addMessage(t, repos, "u1", model.SenderUser, "orada mısın", 10, false)
	addMessage(t, repos, "u1", model.SenderAdmin, "evet", 30, false)
	addMessage(t, repos, "u2", model.SenderUser, "selam", 50, true)
	addMessage(t, repos, "u3", model.SenderUser, "?", 5, false)

	convs, err := svc.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 3)

	assert.Equal(t, "u2", convs[0].UserID)
	assert.Equal(t, "Ayşe", convs[0].Username)
	assert.Equal(t, 0, convs[0].UnreadCount)

	u1 := convs[1]
	assert.Equal(t, "ali", u1.Username)
	assert.Equal(t, 2, u1.UnreadCount)
	require.Len(t, u1.Messages, 3)
	assert.Equal(t, "orada mısın", u1.Messages[0].Text)
	require.NotNil(t, u1.LastMessage)
	assert.Equal(t, "evet", u1.LastMessage.Text)

	assert.Equal(t, "Bilinmeyen Kullanıcı", convs[2].Username)

	total, err := svc.UnreadTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	n, err := svc.MarkRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err = svc.UnreadTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	conv, err := svc.Conversation(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, conv.UnreadCount)
	assert.False(t, conv.Messages[2].Read, "admin replies stay untouched")
}

func TestReply(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	svc := NewMessageService(repos.Messages, repos.Users, testutil.Logger())
	svc.now = fixedClock()

	msg, err := svc.Reply(ctx, "u1", "Merhaba!", "")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, model.SenderAdmin, msg.Sender)
	assert.Equal(t, DefaultAdminID, msg.AdminID)
	assert.Equal(t, fixedNow.UnixMilli(), msg.CreatedAt)

	stored, err := repos.Messages.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Merhaba!", stored[0].Text)

	_, err = svc.Reply(ctx, "u1", "   ", "admin")
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
}

func TestBots(t *testing.T) {
	ctx := context.Background()
	repos := newRepos(t)
	svc := NewBotService(repos.Users, rand.New(rand.NewPCG(1, 2)), testutil.Logger())
	svc.now = fixedClock()

	seedUsers(t, repos, map[string]store.Document{
		"bot1": {"username": "Zeynep", "isSystemUser": true, "score": 7},
		"bot2": {"username": "Ahmet", "isSystemUser": true},
		"kid":  {"username": "Kid"},
	})

	bots, err := svc.ListBots(ctx)
	require.NoError(t, err)
	require.Len(t, bots, 2)
	assert.Equal(t, "Ahmet", bots[0].Username)

	bot, err := svc.RandomizeBot(ctx, "bot1")
	require.NoError(t, err)
	assert.Contains(t, BotAvatars, bot.AvatarKey)
	assert.Len(t, bot.GameScores, len(GameTypes))
	assert.Equal(t, fixedNow.UnixMilli(), bot.UpdatedAt)
	for _, game := range GameTypes {
		plays, score := bot.GamePlayCounts[game], bot.GameScores[game]
		if plays == 0 {
			assert.Zero(t, score, game)
			continue
		}
		assert.GreaterOrEqual(t, plays, 10, game)
		assert.Less(t, plays, 60, game)
		assert.Zero(t, score%plays, game)
		avg := score / plays
		assert.GreaterOrEqual(t, avg, 50, game)
		assert.Less(t, avg, 250, game)
	}

	doc, err := repos.Users.Get(ctx, "bot1")
	require.NoError(t, err)
	assert.EqualValues(t, 7, doc["score"])

	_, err = svc.RandomizeBot(ctx, "kid")
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
	_, err = svc.RandomizeBot(ctx, "ghost")
	assert.Equal(t, http.StatusNotFound, errs.StatusOf(err))

	res, err := svc.RandomizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Details)

	kid, err := repos.Users.Get(ctx, "kid")
	require.NoError(t, err)
	assert.False(t, kid.Has("gameMetrics"))

	bot2, err := repos.Users.Get(ctx, "bot2")
	require.NoError(t, err)
	assert.Len(t, bot2.Map("gameMetrics").Map("gamePlayCounts"), len(GameTypes))
}
