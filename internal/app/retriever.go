package app

import "strings"

const contextMaxRunes = 800

// Retriever does the naive context lookup: the first token of the message,
// matched as a case-insensitive substring against each document in persisted
// order. First hit wins. No scoring, no merging.
type Retriever struct {
	docs DocumentStore
}

func NewRetriever(docs DocumentStore) *Retriever {
	return &Retriever{docs: docs}
}

// FindContext returns the first matching document's text capped at 800
// characters, or an empty string when nothing matches or the message has no
// tokens.
func (r *Retriever) FindContext(botID, message string) (string, error) {
	fields := strings.Fields(strings.ToLower(message))
	if len(fields) == 0 {
		return "", nil
	}
	token := fields[0]

	docs, err := r.docs.ListByBotID(botID)
	if err != nil {
		return "", err
	}
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Text), token) {
			return truncateRunes(doc.Text, contextMaxRunes), nil
		}
	}
	return "", nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
