package app

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"tripchat/internal/domain"
)

const extractionPrompt = `You are a travel query extraction engine.
Extract travel parameters from the user message and reply with a single JSON object, nothing else.
Schema (omit any field you cannot determine, never invent values):
{
  "destination": "city or region name",
  "checkIn": "date or natural phrase, verbatim",
  "checkOut": "date or natural phrase, verbatim",
  "guests": {"adults": 1, "children": 0},
  "budget": {"amount": 0, "currency": "USD"},
  "preferences": {"hotelType": [], "amenities": [], "activities": [], "transportation": []},
  "flexibility": 0
}`

// QueryParser turns a user utterance into a resolved TravelQuery. Any
// failure degrades to an empty or partially-empty query; a chat turn is
// never aborted from here.
type QueryParser struct {
	llm domain.LanguageModel
	now func() time.Time
}

func NewQueryParser(llm domain.LanguageModel) *QueryParser {
	return &QueryParser{llm: llm, now: time.Now}
}

func (p *QueryParser) Parse(ctx context.Context, utterance, lang string) domain.TravelQuery {
	var q domain.TravelQuery

	if p.llm != nil {
		sys := extractionPrompt
		if lang != "" {
			sys += "\nThe user writes in " + lang + "; field values stay in their original language."
		}
		raw, err := p.llm.Extract(ctx, sys, utterance)
		if err != nil {
			log.Warn().Err(err).Msg("query extraction failed")
		} else if err := json.Unmarshal([]byte(stripFences(raw)), &q); err != nil {
			log.Warn().Err(err).Msg("query extraction returned malformed JSON")
			q = domain.TravelQuery{}
		}
	}

	now := p.now()
	if q.CheckIn != "" {
		if r, ok := ResolveDate(q.CheckIn, now); ok {
			q.CheckIn = r.Start.Format(isoDate)
			// A range phrase ("next weekend") supplies the checkout too.
			if q.CheckOut == "" && !r.End.IsZero() {
				q.CheckOut = r.End.Format(isoDate)
			}
		} else {
			q.CheckIn = ""
		}
	}
	if q.CheckOut != "" {
		if r, ok := ResolveDate(q.CheckOut, now); ok {
			q.CheckOut = r.Start.Format(isoDate)
			if !r.End.IsZero() {
				q.CheckOut = r.End.Format(isoDate)
			}
		} else {
			q.CheckOut = ""
		}
	}

	if q.Budget == nil {
		q.Budget = ExtractBudget(utterance)
	}
	return q
}

// stripFences drops a markdown code fence the model may wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
