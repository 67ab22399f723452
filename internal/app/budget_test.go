package app

import "testing"

func TestExtractBudget(t *testing.T) {
	cases := []struct {
		text     string
		amount   float64
		currency string
	}{
		{"I have a budget of $3000 for the whole trip", 3000, "$"},
		{"somewhere around €1,250.50 per person", 1250.50, "€"},
		{"up to 2000 euros total", 2000, "€"},
		{"we can spend 1500 USD", 1500, "USD"},
		{"GBP 900 max", 900, "GBP"},
		{"roughly 800 dollars", 800, "$"},
	}
	for _, c := range cases {
		b := ExtractBudget(c.text)
		if b == nil {
			t.Errorf("%q: expected a budget", c.text)
			continue
		}
		if b.Amount != c.amount || b.Currency != c.currency {
			t.Errorf("%q: got %+v, want {%v %s}", c.text, b, c.amount, c.currency)
		}
	}
}

func TestExtractBudget_NoFabrication(t *testing.T) {
	for _, text := range []string{
		"",
		"find me a nice hotel in Lisbon",
		"we are 4 adults and 2 children",
		"arriving on the 15th",
	} {
		if b := ExtractBudget(text); b != nil {
			t.Errorf("%q: fabricated budget %+v", text, b)
		}
	}
}
