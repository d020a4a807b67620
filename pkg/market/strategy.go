package market

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is the model used for strategy generation.
const DefaultModel = "claude-opus-4-5-20251101"

// Strategy is the generated daily trading commentary.
type Strategy struct {
	Overview  string `json:"overview"`
	Action    string `json:"action"`
	Risk      string `json:"risk"`
	Watchlist string `json:"watchlist"`
	Date      string `json:"date"`
}

// StrategySummary is the market digest handed to the strategist.
type StrategySummary struct {
	Date      string
	Indices   map[string]IndexQuote
	KRSectors []SectorChange
	KRLeaders []Stock
	USSectors []SectorChange
	USLeaders []Stock
}

// Strategist turns a market summary into a Strategy.
type Strategist interface {
	Generate(ctx context.Context, sum StrategySummary) (Strategy, error)
}

// PlaceholderStrategy is what the dashboard shows when no strategy could be
// generated; the reason tells the operator what to fix.
func PlaceholderStrategy(reason string) Strategy {
	return Strategy{
		Overview:  reason,
		Action:    "—",
		Risk:      "—",
		Watchlist: "—",
		Date:      NowKST(),
	}
}

// ClaudeStrategist generates strategies with the Anthropic API.
type ClaudeStrategist struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewClaudeStrategist creates a strategist using apiKey and the default model.
func NewClaudeStrategist(apiKey string, opts ...option.RequestOption) *ClaudeStrategist {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &ClaudeStrategist{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(DefaultModel),
	}
}

// Generate builds the Korean-language market prompt, asks for a JSON answer,
// and parses it. Callers should degrade to PlaceholderStrategy on error.
func (s *ClaudeStrategist) Generate(ctx context.Context, sum StrategySummary) (Strategy, error) {
	prompt := buildPrompt(sum)

	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     s.model,
		MaxTokens: 1000,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Strategy{}, fmt.Errorf("failed to generate strategy: %w", err)
	}

	var text string
	for i := range resp.Content {
		block := &resp.Content[i]
		if block.Type == "text" {
			text += block.AsText().Text
		}
	}
	if text == "" {
		return Strategy{}, fmt.Errorf("strategy response contained no text")
	}

	strategy, err := parseStrategy(text)
	if err != nil {
		return Strategy{}, err
	}
	strategy.Date = sum.Date
	return strategy, nil
}

// parseStrategy decodes the model's JSON answer, tolerating code fences and
// non-string field values.
func parseStrategy(raw string) (Strategy, error) {
	raw = stripFences(strings.TrimSpace(raw))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Strategy{}, fmt.Errorf("failed to parse strategy JSON: %w", err)
	}

	return Strategy{
		Overview:  coerceString(fields["overview"]),
		Action:    coerceString(fields["action"]),
		Risk:      coerceString(fields["risk"]),
		Watchlist: coerceString(fields["watchlist"]),
	}, nil
}

func stripFences(raw string) string {
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimPrefix(raw, "json")
	if idx := strings.LastIndex(raw, "```"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}

// coerceString flattens a JSON value to display text: the model sometimes
// answers with arrays or objects where a string was asked for.
func coerceString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "—"
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "—"
		}
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, coerceString(item))
		}
		return strings.Join(parts, "\n")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		parts := make([]string, 0, len(obj))
		for k, v := range obj {
			parts = append(parts, fmt.Sprintf("%s: %s", k, coerceString(v)))
		}
		return strings.Join(parts, "\n")
	}

	return string(raw)
}

func buildPrompt(sum StrategySummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[오늘 날짜] %s\n\n[주요 지수]\n", sum.Date)
	for _, key := range indexOrder {
		iq, ok := sum.Indices[key]
		if !ok || iq.Value == nil {
			fmt.Fprintf(&b, "- %s: N/A\n", key)
			continue
		}
		if iq.ChangePct != nil {
			fmt.Fprintf(&b, "- %s: %.2f (%+.2f%%)\n", key, *iq.Value, *iq.ChangePct)
		} else {
			fmt.Fprintf(&b, "- %s: %.2f\n", key, *iq.Value)
		}
	}

	b.WriteString("\n[한국 주도 섹터]\n")
	for _, s := range sum.KRSectors {
		fmt.Fprintf(&b, "  %s: %+.2f%%\n", s.Name, s.ChangePct)
	}
	b.WriteString("\n[한국 주도주]\n")
	for _, s := range sum.KRLeaders {
		fmt.Fprintf(&b, "  %s (%s): %+.2f%%  현재가 %.0f원\n", s.Name, s.Sector, s.ChangePct, s.Price)
	}
	b.WriteString("\n[미국 주도 섹터]\n")
	for _, s := range sum.USSectors {
		fmt.Fprintf(&b, "  %s: %+.2f%%\n", s.Name, s.ChangePct)
	}
	b.WriteString("\n[미국 주도주]\n")
	for _, s := range sum.USLeaders {
		fmt.Fprintf(&b, "  %s (%s): %+.2f%%  $%.2f\n", s.Name, s.Sector, s.ChangePct, s.Price)
	}

	b.WriteString(`
당신은 20년 경력의 전문 퀀트 트레이더입니다. 위 시장 데이터를 분석하여
오늘의 매매전략을 작성하세요. 다음 4가지 섹션으로 JSON 형식으로 응답하세요.
각 섹션은 한국어로, 2-3문장 이내로 간결하게 작성:

{
  "overview": "시장 전반적 분위기와 오늘의 핵심 테마",
  "action": "구체적 매매전략 (롱/숏 포지션, 타이밍, 진입/청산 기준)",
  "risk": "오늘 주목해야 할 리스크 요인과 손절 기준",
  "watchlist": "오늘 집중 관찰할 종목 3-4개와 간략한 이유"
}

JSON만 응답하고 다른 텍스트는 포함하지 마세요.`)

	return b.String()
}
