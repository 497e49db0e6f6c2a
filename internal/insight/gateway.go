// Package insight talks to the advisory and receipt-extraction services.
// Every failure is absorbed here: callers get fallback text or a nil receipt,
// never an error, and nothing in this package touches the ledger.
package insight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/parayon/internal/common"
	"github.com/Veraticus/parayon/internal/llm"
	"github.com/Veraticus/parayon/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// Gateway errors. They are logged, never returned by Gateway methods.
var (
	ErrMalformedResponse  = errors.New("malformed service response")
	ErrServiceUnavailable = errors.New("insight service unavailable")
)

// FallbackInsight is shown whenever advisory text cannot be produced.
const FallbackInsight = "Harcama alışkanlıklarınız optimize ediliyor. Bu şekilde devam ederseniz ay sonunda ₺1.850,00 tasarruf edebilirsiniz."

// Generator produces model text. *llm.Service implements it.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (llm.Response, error)
}

// ReceiptExtractor reads a receipt image into structured fields.
type ReceiptExtractor interface {
	Extract(ctx context.Context, image []byte, categories []model.CategoryDef) (*Receipt, error)
}

// Gateway is the only entry point to the external services.
type Gateway struct {
	generator Generator
	extractor ReceiptExtractor
	logger    *slog.Logger
	clock     func() time.Time
	timeout   time.Duration
	group     singleflight.Group
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// WithClock replaces time.Now for receipt date fallbacks.
func WithClock(clock func() time.Time) Option {
	return func(g *Gateway) { g.clock = clock }
}

// WithTimeout bounds each gateway call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// NewGateway creates a gateway. Either dependency may be nil, in which case
// the matching call always returns its fallback.
func NewGateway(generator Generator, extractor ReceiptExtractor, opts ...Option) *Gateway {
	g := &Gateway{
		generator: generator,
		extractor: extractor,
		clock:     time.Now,
		timeout:   45 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = common.LoggerOrDefault(g.logger)
	return g
}

func insightPrompt(balance, monthSpend decimal.Decimal) string {
	return fmt.Sprintf(`Kullanıcının mevcut bakiyesi ₺%s ve bu ayki toplam harcaması ₺%s.
Lütfen bu verilere dayanarak kısa, teşvik edici ve pratik bir finansal tavsiye ver (Türkçe).
Format: "Tebrikler/Dikkat! [Tavsiye cümlesi]. Bu şekilde devam ederseniz [Tahmini tasarruf] kazanabilirsiniz."`,
		balance.StringFixed(2), monthSpend.StringFixed(2))
}

// FinancialInsight returns short advisory text for the given figures, or
// FallbackInsight when the service cannot answer. Concurrent calls with the
// same figures share one request.
func (g *Gateway) FinancialInsight(ctx context.Context, balance, monthSpend decimal.Decimal) string {
	if g.generator == nil {
		g.logger.Debug("no insight generator configured, using fallback")
		return FallbackInsight
	}

	key := balance.String() + "|" + monthSpend.String()
	v, err, shared := g.group.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		resp, err := g.generator.Generate(ctx, llm.Request{
			Prompt:      insightPrompt(balance, monthSpend),
			Temperature: 0.7,
			MaxTokens:   150,
		})
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
		}
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return "", fmt.Errorf("%w: empty insight", ErrMalformedResponse)
		}
		return text, nil
	})
	if err != nil {
		g.logger.Warn("financial insight failed, using fallback", "error", err)
		return FallbackInsight
	}

	g.logger.Debug("financial insight ready", "shared", shared)
	return v.(string)
}

// AnalyzeReceipt extracts a proposed expense from a receipt image. It
// returns nil when the image cannot be read; the caller should ask for a
// new capture. Unknown category ids become "other" and a missing date
// becomes now.
func (g *Gateway) AnalyzeReceipt(ctx context.Context, image []byte, categories []model.CategoryDef) *Receipt {
	if g.extractor == nil {
		g.logger.Debug("no receipt extractor configured")
		return nil
	}
	if len(image) == 0 {
		g.logger.Warn("receipt analysis skipped: empty image")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	receipt, err := g.extractor.Extract(ctx, image, categories)
	if err != nil {
		g.logger.Warn("receipt analysis failed", "error", err)
		return nil
	}
	if receipt == nil || !receipt.Amount.IsPositive() {
		g.logger.Warn("receipt analysis returned no usable amount")
		return nil
	}

	receipt.normalize(categories, g.clock())
	g.logger.Info("receipt analyzed",
		"amount", receipt.Amount.String(),
		"category", receipt.CategoryID,
		"store", receipt.StoreName)
	return receipt
}
