package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	QuestionKeyPrefix = "question:%d"
	TopTagsKeyPrefix  = "tags:top:%d"
	HotPageKeyPrefix  = "questions:hot:%d:%d:%d"
	hotPagePattern    = "questions:hot:*"
	topTagsPattern    = "tags:top:*"
)

const (
	UserTTL     = 5 * time.Minute
	QuestionTTL = 2 * time.Minute
	TopTagsTTL  = 10 * time.Minute
	HotTTL      = time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func QuestionKey(questionID uint) string {
	return fmt.Sprintf(QuestionKeyPrefix, questionID)
}

func TopTagsKey(limit int) string {
	return fmt.Sprintf(TopTagsKeyPrefix, limit)
}

// HotPageKey identifies one page of the hot list for a given like threshold.
func HotPageKey(minLikes, page, size int) string {
	return fmt.Sprintf(HotPageKeyPrefix, minLikes, page, size)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePattern deletes every key matching pattern using SCAN.
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iter.Err() != nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateQuestion drops a cached question detail and every cached hot page.
func InvalidateQuestion(ctx context.Context, questionID uint) {
	Invalidate(ctx, QuestionKey(questionID))
	InvalidatePattern(ctx, hotPagePattern)
}

func InvalidateTags(ctx context.Context) {
	InvalidatePattern(ctx, topTagsPattern)
}
