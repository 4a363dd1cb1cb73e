package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/agext/levenshtein"

	"tfcraft/internal/llm"
)

// ErrNoResources means the index holds no resource names at all. This is a
// hard stop, not a recoverable fallback.
var ErrNoResources = errors.New("no known resources in index")

// similarityCutoff is the normalized edit-distance threshold for the fuzzy
// stages, mirroring the classic difflib default.
const similarityCutoff = 0.6

// resourcePrefix is prepended on the final retry for users who type
// "instance" instead of "cloudstack_instance".
const resourcePrefix = "cloudstack_"

// Stage maps a free-text query to a candidate, or reports a miss. Stages
// never return a string outside the candidate set.
type Stage interface {
	Name() string
	Resolve(ctx context.Context, query string, known []string) (string, bool)
}

// Resolver runs its stages in order; the first hit wins. An exhausted chain
// signals "unresolved" with ok=false rather than an error.
type Resolver struct {
	stages []Stage
}

func New(stages ...Stage) *Resolver {
	return &Resolver{stages: stages}
}

// NewDefault builds the standard cascade: LLM pick, substring heuristic,
// fuzzy similarity, then fuzzy similarity with the resource prefix applied.
func NewDefault(caller *llm.Caller) *Resolver {
	return New(
		&llmStage{caller: caller},
		substringStage{},
		similarityStage{},
		prefixStage{},
	)
}

func (r *Resolver) Resolve(ctx context.Context, query string, known []string) (string, bool, error) {
	if len(known) == 0 {
		return "", false, ErrNoResources
	}
	for _, stage := range r.stages {
		if name, ok := stage.Resolve(ctx, query, known); ok {
			return name, true, nil
		}
	}
	return "", false, nil
}

// llmStage asks the model to pick one name from the candidate list and
// accepts the answer only when it is a verbatim member of that list.
type llmStage struct {
	caller *llm.Caller
}

func (s *llmStage) Name() string { return "llm" }

func (s *llmStage) Resolve(ctx context.Context, query string, known []string) (string, bool) {
	if s.caller == nil {
		return "", false
	}
	sysPrompt := "You map a user's natural-language request to one of the exact resource names listed below.\n" +
		"Return ONLY a single exact resource name that appears in the list. If unsure, pick the best match."
	userPrompt := "User: \"" + query + "\"\nResources:\n" + strings.Join(known, "\n")

	answer, err := s.caller.Complete(ctx, []llm.Message{
		{Role: "system", Content: sysPrompt},
		{Role: "user", Content: userPrompt},
	}, 0)
	if err != nil {
		return "", false
	}
	answer = strings.TrimSpace(answer)
	for _, name := range known {
		if answer == name {
			return name, true
		}
	}
	return "", false
}

// substringStage accepts a candidate when the query contains it or it
// contains the query, case-insensitively.
type substringStage struct{}

func (substringStage) Name() string { return "substring" }

func (substringStage) Resolve(_ context.Context, query string, known []string) (string, bool) {
	q := strings.ToLower(query)
	for _, name := range known {
		n := strings.ToLower(name)
		if strings.Contains(n, q) || strings.Contains(q, n) {
			return name, true
		}
	}
	return "", false
}

// similarityStage picks the closest candidate by normalized edit similarity.
type similarityStage struct{}

func (similarityStage) Name() string { return "similarity" }

func (similarityStage) Resolve(_ context.Context, query string, known []string) (string, bool) {
	return closestMatch(strings.ToLower(query), known)
}

// prefixStage retries the similarity match with the resource namespace
// prefix applied to the query.
type prefixStage struct{}

func (prefixStage) Name() string { return "prefix" }

func (prefixStage) Resolve(_ context.Context, query string, known []string) (string, bool) {
	q := strings.ToLower(query)
	if strings.HasPrefix(q, resourcePrefix) {
		return "", false
	}
	return closestMatch(resourcePrefix+q, known)
}

func closestMatch(query string, known []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, name := range known {
		score := levenshtein.Similarity(query, strings.ToLower(name), levenshtein.NewParams())
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if bestScore >= similarityCutoff {
		return best, true
	}
	return "", false
}
