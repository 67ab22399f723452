package app

import (
	"regexp"
	"strconv"
	"strings"

	"tripchat/internal/domain"
)

// Symbol or ISO code before the number ("$3000", "USD 1,200") or a code /
// currency word after it ("3000 EUR", "3000 dollars").
var (
	symbolAmountRe = regexp.MustCompile(`([$€£¥]|USD|EUR|GBP|JPY|INR|AUD|CAD|CHF)\s?(\d[\d,]*(?:\.\d+)?)`)
	amountWordRe   = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s?(USD|EUR|GBP|JPY|INR|AUD|CAD|CHF|dollars?|euros?|pounds?|yen)\b`)

	currencyWords = map[string]string{
		"dollar": "$", "dollars": "$",
		"euro": "€", "euros": "€",
		"pound": "£", "pounds": "£",
		"yen": "¥",
	}
)

// ExtractBudget scans free text for a currency amount. Ambiguous or absent
// amounts yield nil; a budget is never fabricated.
func ExtractBudget(text string) *domain.Budget {
	if m := symbolAmountRe.FindStringSubmatch(text); m != nil {
		return makeBudget(m[2], m[1])
	}
	if m := amountWordRe.FindStringSubmatch(text); m != nil {
		cur := m[2]
		if sym, ok := currencyWords[strings.ToLower(cur)]; ok {
			cur = sym
		}
		return makeBudget(m[1], cur)
	}
	return nil
}

func makeBudget(amount, currency string) *domain.Budget {
	f, err := strconv.ParseFloat(strings.ReplaceAll(amount, ",", ""), 64)
	if err != nil || f <= 0 {
		return nil
	}
	return &domain.Budget{Amount: f, Currency: currency}
}
