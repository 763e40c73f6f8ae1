package database

import (
	"testing"

	modelspkg "askme/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_ParentsBeforeChildren(t *testing.T) {
	index := map[string]int{}
	for i, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.User:
			index["user"] = i
		case *modelspkg.Profile:
			index["profile"] = i
		case *modelspkg.Question:
			index["question"] = i
		case *modelspkg.Answer:
			index["answer"] = i
		case *modelspkg.Tag:
			index["tag"] = i
		case *modelspkg.Like:
			index["like"] = i
		}
	}
	require.Len(t, index, 6)
	require.Less(t, index["user"], index["profile"])
	require.Less(t, index["user"], index["question"])
	for _, child := range []string{"answer", "tag", "like"} {
		require.Less(t, index["question"], index[child], child)
	}
}
