package app

import (
	"context"
	"strings"

	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/Travisswop/swap-engine/internal/logger"
)

// DefaultMaxResults caps a search result page.
const DefaultMaxResults = 20

// Service searches a chain's token list. Matching is ranked: an exact
// symbol match outranks a symbol prefix match, which outranks a
// substring match on symbol or name. Order within a band follows the
// source's order.
type Service struct {
	source     Source
	maxResults int
	log        logger.LoggerInterface
}

func NewService(source Source, maxResults int, log logger.LoggerInterface) *Service {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Service{source: source, maxResults: maxResults, log: log}
}

// Search returns the ranked matches for query on chain. An empty query
// returns the head of the chain's list.
func (s *Service) Search(ctx context.Context, chain, query string) ([]asset.Token, error) {
	if _, err := asset.LookupChain(chain); err != nil {
		return nil, err
	}

	tokens, err := s.source.Tokens(ctx, chain)
	if err != nil {
		return nil, err
	}

	ranked := Rank(tokens, query, s.maxResults)
	s.log.Debug(ctx, "catalog search",
		"chain", chain, "query", query, "candidates", len(tokens), "results", len(ranked))
	return ranked, nil
}

// Rank filters and orders tokens for a query, capped at limit.
func Rank(tokens []asset.Token, query string, limit int) []asset.Token {
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if len(tokens) > limit {
			return tokens[:limit]
		}
		return tokens
	}

	var exact, prefix, substring []asset.Token
	for _, token := range tokens {
		symbol := strings.ToLower(token.Symbol)
		name := strings.ToLower(token.Name)
		switch {
		case symbol == query:
			exact = append(exact, token)
		case strings.HasPrefix(symbol, query):
			prefix = append(prefix, token)
		case strings.Contains(symbol, query) || strings.Contains(name, query):
			substring = append(substring, token)
		}
	}

	out := make([]asset.Token, 0, len(exact)+len(prefix)+len(substring))
	out = append(out, exact...)
	out = append(out, prefix...)
	out = append(out, substring...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
