// Package notifications publishes per-user activity notifications through Redis pub/sub.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"askme/internal/models"
	"askme/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event types carried in Event.Type.
const (
	EventAnswerAdded  = "answer_added"
	EventAnswerMarked = "answer_marked"
)

const userChannelPrefix = "notifications:user:"

// Event is the JSON payload published to a user's channel.
type Event struct {
	Type       string    `json:"type"`
	QuestionID uint      `json:"question_id"`
	AnswerID   uint      `json:"answer_id"`
	ActorID    uint      `json:"actor_id"`
	Title      string    `json:"title,omitempty"`
	Correct    bool      `json:"correct,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "publish")
	defer span.End()

	if err := n.rdb.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		span.RecordError(err)
		observability.RedisErrorRate.WithLabelValues("publish").Inc()
		return err
	}
	return nil
}

// NotifyAnswerAdded tells the question author that someone answered.
// Answering one's own question notifies nobody.
func (n *Notifier) NotifyAnswerAdded(ctx context.Context, question *models.Question, answer *models.Answer) error {
	if question == nil || answer == nil || question.AuthorID == answer.AuthorID {
		return nil
	}
	return n.publishEvent(ctx, question.AuthorID, Event{
		Type:       EventAnswerAdded,
		QuestionID: question.ID,
		AnswerID:   answer.ID,
		ActorID:    answer.AuthorID,
		Title:      question.Title,
		CreatedAt:  answer.CreatedAt,
	})
}

// NotifyAnswerMarked tells the answer author that the question author changed
// the answer's correctness.
func (n *Notifier) NotifyAnswerMarked(ctx context.Context, answer *models.Answer, markedBy uint) error {
	if answer == nil || answer.AuthorID == markedBy {
		return nil
	}
	ev := Event{
		Type:       EventAnswerMarked,
		QuestionID: answer.QuestionID,
		AnswerID:   answer.ID,
		ActorID:    markedBy,
		Correct:    answer.Correct,
		CreatedAt:  time.Now().UTC(),
	}
	if answer.Question != nil {
		ev.Title = answer.Question.Title
	}
	return n.publishEvent(ctx, answer.AuthorID, ev)
}

func (n *Notifier) publishEvent(ctx context.Context, userID uint, ev Event) error {
	if n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := n.PublishUser(ctx, userID, string(payload)); err != nil {
		observability.NotificationsPublished.WithLabelValues(ev.Type, "error").Inc()
		return fmt.Errorf("publish %s to user %d: %w", ev.Type, userID, err)
	}
	observability.NotificationsPublished.WithLabelValues(ev.Type, "ok").Inc()
	return nil
}

// StartPatternSubscriber subscribes to pattern `notifications:user:*` and calls onMessage
// for each incoming message until ctx is cancelled.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(userID uint, ev Event),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, userChannelPrefix+"*")
	// wait for the subscription so publishes right after this call are not lost
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe notifications: %w", err)
	}
	ch := sub.Channel()
	observability.LogAsyncOperationStart(ctx, "notifications.subscribe", nil)

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				observability.LogAsyncOperationEnd(ctx, "notifications.subscribe", nil)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				dispatch(ctx, msg, onMessage)
			}
		}
	}()

	return nil
}

func dispatch(ctx context.Context, msg *redis.Message, onMessage func(uint, Event)) {
	defer func() {
		if r := recover(); r != nil {
			observability.GlobalLogger.ErrorContext(ctx, "panic in notification subscriber",
				slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
		}
	}()

	userID, ok := ParseUserChannel(msg.Channel)
	if !ok {
		return
	}
	var ev Event
	if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
		observability.LogAsyncOperationError(ctx, "notifications.decode", err,
			map[string]interface{}{"channel": msg.Channel})
		return
	}
	onMessage(userID, ev)
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return userChannelPrefix + strconv.FormatUint(uint64(userID), 10)
}

// ParseUserChannel extracts the user ID from a channel built by UserChannel.
func ParseUserChannel(channel string) (uint, bool) {
	if len(channel) <= len(userChannelPrefix) || channel[:len(userChannelPrefix)] != userChannelPrefix {
		return 0, false
	}
	id, err := strconv.ParseUint(channel[len(userChannelPrefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
