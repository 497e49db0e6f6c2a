package insight

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
)

// ErrNoAmount is returned when no total can be found in the receipt text.
var ErrNoAmount = errors.New("no amount found in receipt")

var (
	amountPattern = `([0-9]{1,3}(?:[.\s][0-9]{3})*,[0-9]{2}|[0-9]+[.,][0-9]{2}|[0-9]+)`
	totalLineRe   = regexp.MustCompile(`(?i)(?:genel\s+toplam|toplam|total|tutar|top)\s*[:=]?\s*(?:tl|₺)?\s*\*?\s*` + amountPattern)
	anyAmountRe   = regexp.MustCompile(`\*?\s*([0-9]{1,3}(?:\.[0-9]{3})*,[0-9]{2}|[0-9]+[.,][0-9]{2})\b`)
	receiptDateRe = regexp.MustCompile(`\b([0-3][0-9])[./-]([01][0-9])[./-]((?:19|20)[0-9]{2})\b`)
	letterRe      = regexp.MustCompile(`\pL{3,}`)
)

// categoryKeywords maps receipt vocabulary onto the default category ids.
var categoryKeywords = map[string][]string{
	"yemek":     {"market", "migros", "bim", "a101", "şok", "carrefour", "restoran", "restaurant", "cafe", "kafe", "kahve", "lokanta", "fırın", "gıda"},
	"ulasim":    {"akaryakıt", "benzin", "motorin", "opet", "shell", "petrol", "taksi", "otopark", "istanbulkart", "metro"},
	"kira":      {"kira", "aidat", "emlak"},
	"alisveris": {"giyim", "mağaza", "lcw", "defacto", "koton", "zara", "boyner", "kozmetik"},
	"teknoloji": {"teknosa", "mediamarkt", "vatan", "elektronik", "bilgisayar", "telefon"},
}

// ParseReceiptText pulls the total, date, store name and category out of
// OCR text. Dates are read in loc.
func ParseReceiptText(text string, categories []model.CategoryDef, loc *time.Location) (*Receipt, error) {
	amount, ok := findTotal(text)
	if !ok {
		return nil, ErrNoAmount
	}

	r := &Receipt{
		Amount:     amount,
		StoreName:  findStoreName(text),
		CategoryID: guessCategory(text, categories),
	}
	if m := receiptDateRe.FindStringSubmatch(text); m != nil {
		if d, ok := parseReceiptDate(m[1]+"."+m[2]+"."+m[3], loc); ok {
			r.Date = d
		}
	}
	return r, nil
}

func findTotal(text string) (decimal.Decimal, bool) {
	// The last labelled total wins; subtotals usually come first.
	matches := totalLineRe.FindAllStringSubmatch(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		if d, ok := normalizeAmount(matches[i][1]); ok && d.IsPositive() {
			return d, true
		}
	}

	var best decimal.Decimal
	for _, m := range anyAmountRe.FindAllStringSubmatch(text, -1) {
		if d, ok := normalizeAmount(m[1]); ok && d.GreaterThan(best) {
			best = d
		}
	}
	return best, best.IsPositive()
}

func findStoreName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if letterRe.MatchString(line) {
			return line
		}
	}
	return ""
}

func guessCategory(text string, categories []model.CategoryDef) string {
	lower := strings.ToLower(text)
	known := func(id string) bool {
		return slices.ContainsFunc(categories, func(c model.CategoryDef) bool { return c.ID == id })
	}

	for _, c := range categories {
		if name := strings.ToLower(strings.TrimSpace(c.Name)); name != "" && strings.Contains(lower, name) {
			return c.ID
		}
	}

	ids := make([]string, 0, len(categoryKeywords))
	for id := range categoryKeywords {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if !known(id) {
			continue
		}
		for _, kw := range categoryKeywords[id] {
			if strings.Contains(lower, kw) {
				return id
			}
		}
	}
	return model.UncategorizedID
}
