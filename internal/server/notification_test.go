package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"askme/internal/config"
	"askme/internal/notifications"
	"askme/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerFlow_PublishesNotifications(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := testutil.OpenSQLite(t)
	srv, err := NewServerWithDeps(&config.Config{JWTSecret: testSecret}, db, rdb)
	require.NoError(t, err)
	env := &testEnv{app: srv.NewApp(), db: db, srv: srv}

	asker := testutil.CreateUser(t, db, "asker")
	helper := testutil.CreateUser(t, db, "helper")
	q := testutil.CreateQuestion(t, db, asker, "How do I paginate?", "go")

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, notifications.UserChannel(asker.ID), notifications.UserChannel(helper.ID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err = sub.Receive(ctx)
	require.NoError(t, err)
	msgs := sub.Channel()

	next := func() (string, notifications.Event) {
		t.Helper()
		select {
		case msg := <-msgs:
			var ev notifications.Event
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &ev))
			return msg.Channel, ev
		case <-time.After(2 * time.Second):
			t.Fatal("no notification published")
			return "", notifications.Event{}
		}
	}

	var answer struct {
		ID uint `json:"id"`
	}
	require.Equal(t, fiber.StatusCreated, env.do(t, http.MethodPost,
		fmt.Sprintf("/api/questions/%d/answers", q.ID), env.tokenFor(t, helper),
		map[string]string{"text": "use LIMIT and OFFSET"}, &answer))

	channel, ev := next()
	assert.Equal(t, notifications.UserChannel(asker.ID), channel)
	assert.Equal(t, notifications.EventAnswerAdded, ev.Type)
	assert.Equal(t, answer.ID, ev.AnswerID)
	assert.Equal(t, helper.ID, ev.ActorID)

	require.Equal(t, fiber.StatusOK, env.do(t, http.MethodPost,
		fmt.Sprintf("/api/answers/%d/correct", answer.ID), env.tokenFor(t, asker), nil, nil))

	channel, ev = next()
	assert.Equal(t, notifications.UserChannel(helper.ID), channel)
	assert.Equal(t, notifications.EventAnswerMarked, ev.Type)
	assert.True(t, ev.Correct)
	assert.Equal(t, "How do I paginate?", ev.Title)
}
