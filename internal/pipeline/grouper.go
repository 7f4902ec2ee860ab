// Package pipeline orchestrates classification, thread grouping, extraction,
// and merging of one message batch into a ProcessedBundle.
package pipeline

import (
	"sort"
	"time"

	"github.com/Veraticus/six-degrees/internal/model"
)

// GroupThreads groups messages by thread key and sorts each thread's
// messages oldest first. Messages without a parsable send time sort as if
// sent at the supplied grouping time. Thread order follows first appearance
// in the batch, so repeated runs over the same batch group identically.
func GroupThreads(msgs []model.RawMessage, now time.Time) []model.Thread {
	index := make(map[string]int)
	var threads []model.Thread

	for _, msg := range msgs {
		key := msg.ThreadKey()
		i, ok := index[key]
		if !ok {
			i = len(threads)
			index[key] = i
			threads = append(threads, model.Thread{ID: key})
		}
		threads[i].Messages = append(threads[i].Messages, msg)
	}

	for i := range threads {
		messages := threads[i].Messages
		sort.SliceStable(messages, func(a, b int) bool {
			return sendTime(messages[a], now).Before(sendTime(messages[b], now))
		})
	}

	return threads
}

func sendTime(msg model.RawMessage, now time.Time) time.Time {
	if t, ok := msg.SentAt(); ok {
		return t
	}
	return now
}
