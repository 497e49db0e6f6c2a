package insight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
)

// Receipt is the structured result of a receipt scan. It is a proposal only;
// nothing reaches the ledger until the caller commits Draft().
type Receipt struct {
	Date       time.Time
	CategoryID string
	StoreName  string
	Note       string
	Amount     decimal.Decimal
}

// Draft converts the receipt into an expense draft.
func (r Receipt) Draft() model.TransactionDraft {
	note := r.Note
	switch {
	case r.StoreName != "" && note != "":
		note = r.StoreName + ": " + note
	case r.StoreName != "":
		note = r.StoreName
	}
	return model.TransactionDraft{
		Amount:   r.Amount,
		Category: r.CategoryID,
		Date:     r.Date,
		Type:     model.TypeExpense,
		Note:     note,
	}
}

// receiptPayload is the JSON shape requested from the extraction model.
type receiptPayload struct {
	Amount     json.RawMessage `json:"amount"`
	Date       string          `json:"date"`
	CategoryID string          `json:"categoryId"`
	StoreName  string          `json:"storeName"`
	Note       string          `json:"note"`
}

var receiptDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04",
	"02.01.2006",
	"02/01/2006",
	"02-01-2006",
}

// parseReceiptDate accepts ISO instants and the common Turkish receipt
// layouts. Layouts without a zone are read in loc.
func parseReceiptDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range receiptDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseReceiptAmount reads a JSON number or a string such as "123,45" or
// "1.234,56 TL".
func parseReceiptAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero, fmt.Errorf("%w: missing amount", ErrMalformedResponse)
	}

	if raw[0] != '"' {
		d, err := decimal.NewFromString(string(raw))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: unreadable amount %s", ErrMalformedResponse, raw)
		}
		return d, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	d, ok := normalizeAmount(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unreadable amount %q", ErrMalformedResponse, s)
	}
	return d, nil
}

// normalizeAmount parses a printed amount, deciding which of '.' and ','
// is the decimal separator by which appears last.
func normalizeAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "TL"), "₺")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "₺"), "*")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case strings.Count(s, ".") > 1 || (lastDot >= 0 && len(s)-lastDot-1 == 3):
		// "1.250" on a Turkish receipt is a thousands group.
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// normalize applies the receipt fallbacks: unknown categories become
// "other" and a missing date becomes today.
func (r *Receipt) normalize(categories []model.CategoryDef, now time.Time) {
	valid := slices.ContainsFunc(categories, func(c model.CategoryDef) bool { return c.ID == r.CategoryID })
	if !valid {
		r.CategoryID = model.UncategorizedID
	}
	if r.Date.IsZero() {
		r.Date = now
	}
	r.StoreName = strings.TrimSpace(r.StoreName)
	r.Note = strings.TrimSpace(r.Note)
}

func decodeReceipt(text string, loc *time.Location) (*Receipt, error) {
	var payload receiptPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	amount, err := parseReceiptAmount(payload.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive amount %s", ErrMalformedResponse, amount)
	}

	date, _ := parseReceiptDate(payload.Date, loc)
	return &Receipt{
		Amount:     amount,
		Date:       date,
		CategoryID: strings.TrimSpace(payload.CategoryID),
		StoreName:  payload.StoreName,
		Note:       payload.Note,
	}, nil
}
