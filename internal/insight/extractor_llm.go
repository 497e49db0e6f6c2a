package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/parayon/internal/llm"
	"github.com/Veraticus/parayon/internal/model"
)

// LLMExtractor reads receipts with a vision-capable language model.
type LLMExtractor struct {
	generator Generator
	location  *time.Location
	// Prepare, when set, is applied to the image before upload.
	Prepare func([]byte) ([]byte, string, error)
}

// NewLLMExtractor creates an extractor that downsizes images with PrepareImage.
func NewLLMExtractor(generator Generator) *LLMExtractor {
	return &LLMExtractor{
		generator: generator,
		location:  time.Local,
		Prepare:   PrepareImage,
	}
}

func receiptPrompt(categories []model.CategoryDef) string {
	entries := make([]string, 0, len(categories))
	for _, c := range categories {
		entries = append(entries, fmt.Sprintf("%s (%s)", c.ID, c.Name))
	}

	return fmt.Sprintf(`Bu bir alışveriş fişi veya faturasıdır. Görüntüyü analiz et ve şu bilgileri JSON formatında döndür:
- amount: Toplam tutar (sayı olarak, kuruşlar nokta ile ayrılmış)
- date: İşlem tarihi (ISO formatında, eğer bulunamazsa boş bırak)
- categoryId: Şu kategorilerden en uygun olanın ID'si: [%s]
- storeName: Mağaza veya market adı
- note: Alınan ana ürünlerin kısa bir özeti (örn: "Market alışverişi, meyve, süt")

Sadece JSON döndür, başka açıklama yapma.`, strings.Join(entries, ", "))
}

// Extract implements ReceiptExtractor.
func (e *LLMExtractor) Extract(ctx context.Context, image []byte, categories []model.CategoryDef) (*Receipt, error) {
	mime := "image/jpeg"
	if e.Prepare != nil {
		prepared, preparedMIME, err := e.Prepare(image)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare image: %w", err)
		}
		image, mime = prepared, preparedMIME
	}

	resp, err := e.generator.Generate(ctx, llm.Request{
		Prompt:    receiptPrompt(categories),
		Image:     image,
		ImageMIME: mime,
		JSON:      true,
		MaxTokens: 400,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	text, err := llm.ExtractJSON(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return decodeReceipt(text, e.location)
}
