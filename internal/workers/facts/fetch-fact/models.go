// internal/workers/facts/fetch-fact/models.go
package fetchfact

import (
	"marboris-intents/internal/gateway"
	"marboris-intents/internal/intent"
)

// Topic binds a fact kind to the intent that serves it.
type Topic struct {
	TaskType   string
	Kind       gateway.Kind
	Tag        string
	FailureTag string
}

var (
	Jokes = Topic{
		TaskType:   "jokes",
		Kind:       gateway.KindJoke,
		Tag:        intent.TagJokes,
		FailureTag: intent.TagNoJokes,
	}
	Advices = Topic{
		TaskType:   "advices",
		Kind:       gateway.KindAdvice,
		Tag:        intent.TagAdvices,
		FailureTag: intent.TagNoAdvices,
	}
)

func Topics() []Topic {
	return []Topic{Jokes, Advices}
}
