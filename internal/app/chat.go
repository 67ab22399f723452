package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"tripchat/internal/domain"
)

const composerRole = `You are a friendly travel-planning assistant.
Answer conversationally and keep replies concise.
Use currency symbols when quoting prices, call out free-cancellation rooms,
and when budget analysis is present say clearly whether the budget fits.`

// Keep prompts bounded; only the tail of the conversation is replayed.
const historyWindow = 10

// OfferSearcher is what the composer needs from the inventory side.
type OfferSearcher interface {
	Search(ctx context.Context, q domain.TravelQuery) ([]domain.HotelOffer, error)
}

// ChatService runs one full chat turn: parse the utterance, gather and
// aggregate offers, compose the assistant reply, and persist the exchange.
type ChatService struct {
	parser    *QueryParser
	inventory OfferSearcher
	llm       domain.LanguageModel
	repo      domain.ConversationRepository
}

func NewChatService(parser *QueryParser, inventory OfferSearcher, llm domain.LanguageModel, repo domain.ConversationRepository) *ChatService {
	return &ChatService{parser: parser, inventory: inventory, llm: llm, repo: repo}
}

// Handle processes one user turn. Inventory and extraction failures degrade
// to a reduced-context reply; only store failures and a failing live
// language model surface as errors. The user's message is persisted before
// the composition call, so it survives a composition failure.
func (s *ChatService) Handle(ctx context.Context, user domain.UserKey, message, lang string) (string, error) {
	q := s.parser.Parse(ctx, message, lang)

	var summary *domain.OfferSummary
	if q.Destination != "" && s.inventory != nil {
		offers, err := s.inventory.Search(ctx, q)
		switch {
		case errors.Is(err, domain.ErrNoInventory):
			log.Info().Str("destination", q.Destination).Msg("no inventory for destination")
		case err != nil:
			return "", err // context cancellation
		default:
			summary = Aggregate(offers, q)
		}
	}

	convID, err := s.repo.FindOrCreate(ctx, user)
	if err != nil {
		return "", fmt.Errorf("find conversation: %w", err)
	}
	history, err := s.repo.ListMessages(ctx, user)
	if err != nil {
		log.Warn().Err(err).Str("user", user.String()).Msg("load history failed")
	}
	if err := s.repo.Append(ctx, convID, domain.RoleUser, message); err != nil {
		return "", fmt.Errorf("append user message: %w", err)
	}

	var reply string
	if s.llm == nil {
		reply = fallbackReply(summary)
	} else {
		reply, err = s.llm.Complete(ctx, composerSystem(summary, history, lang), message)
		if err != nil {
			log.Error().Err(err).Msg("reply composition failed")
			return "", domain.ErrLLMUnavailable
		}
		reply = strings.TrimSpace(reply)
		if reply == "" {
			reply = fallbackReply(summary)
		}
	}

	if err := s.repo.Append(ctx, convID, domain.RoleAssistant, reply); err != nil {
		log.Error().Err(err).Msg("append assistant message failed")
	}
	return reply, nil
}

func (s *ChatService) History(ctx context.Context, user domain.UserKey) ([]domain.Message, error) {
	return s.repo.ListMessages(ctx, user)
}

func composerSystem(summary *domain.OfferSummary, history []domain.Message, lang string) string {
	var b strings.Builder
	b.WriteString(composerRole)
	if lang != "" {
		b.WriteString("\nReply in ")
		b.WriteString(lang)
		b.WriteString(".")
	}

	if summary != nil {
		data, err := json.Marshal(summary)
		if err == nil {
			b.WriteString("\n\nLive hotel data for this request (JSON):\n")
			b.Write(data)
			b.WriteString("\nGround every hotel recommendation in this data; do not invent hotels or prices.")
		}
	} else {
		b.WriteString("\n\nNo live hotel data is available for this request; say so if the user asked about lodging.")
	}

	if n := len(history); n > 0 {
		if n > historyWindow {
			history = history[n-historyWindow:]
		}
		b.WriteString("\n\nRecent conversation:\n")
		for _, m := range history {
			b.WriteString(string(m.Role))
			b.WriteString(": ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// fallbackReply keeps the service answering when no language model is
// configured. The two branches stay observably distinct.
func fallbackReply(summary *domain.OfferSummary) string {
	if summary == nil || len(summary.Hotels) == 0 {
		return "I can help you plan your trip. I couldn't retrieve live hotel availability for this request; tell me your destination and dates and I'll try again."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d hotel option(s) for your trip:", len(summary.Hotels))
	for _, h := range summary.Hotels {
		cheapest := h.Rooms[0].Price
		for _, r := range h.Rooms[1:] {
			if r.Price.Amount < cheapest.Amount {
				cheapest = r.Price
			}
		}
		fmt.Fprintf(&b, "\n- %s from %.2f %s", h.Name, cheapest.Amount, cheapest.Currency)
	}
	if ba := summary.BudgetAnalysis; ba != nil {
		if ba.WithinBudget {
			fmt.Fprintf(&b, "\nGood news: options start at %.2f, within your budget.", ba.CheapestPrice)
		} else {
			fmt.Fprintf(&b, "\nHeads up: the cheapest room is %.2f, above your budget.", ba.CheapestPrice)
		}
	}
	return b.String()
}
