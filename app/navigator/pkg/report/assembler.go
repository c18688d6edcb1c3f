// Package report renders the final executive summary. Pure functions only: no
// I/O, no agent calls, byte-identical output for identical inputs.
package report

import (
	"fmt"
	"strings"

	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/schema"
)

// emptyItemsFallback is returned when no items were recommended, so the
// summary never indexes into an empty list.
const emptyItemsFallback = "창업 아이템 분석이 완료되었습니다."

// ExecutiveSummary renders the human-readable digest of a completed run. The
// first recommended item is presented as the top pick; at most three
// sub-district names are listed, with a "외" suffix when more were analyzed.
func ExecutiveSummary(
	persona *schema.PersonaProfile,
	marketList []schema.MarketAnalysis,
	items []schema.RecommendedItem,
	roadmaps []schema.Roadmap,
) string {
	if len(items) == 0 {
		return emptyItemsFallback
	}
	topItem := items[0]

	var marketInfo string
	switch {
	case len(marketList) == 1:
		market := marketList[0]
		marketInfo = fmt.Sprintf(`
### 시장 분석 결과
분석 지역: %s
- %s
- 주요 트렌드: %s`, market.Dong, market.Demographics, strings.Join(firstN(market.EmergingTrends, 2), ", "))
	case len(marketList) > 1:
		dongNames := make([]string, 0, 3)
		for _, m := range firstNMarkets(marketList, 3) {
			dongNames = append(dongNames, m.Dong)
		}
		suffix := ""
		if len(marketList) > 3 {
			suffix = " 외"
		}
		marketInfo = fmt.Sprintf(`
### 시장 분석 결과
분석 지역: %s%s (%d개 동)
- 총 %d개 동에 대한 상세 시장 분석 완료`, strings.Join(dongNames, ", "), suffix, len(marketList), len(marketList))
	}

	summary := fmt.Sprintf(`## 창업 컨설팅 종합 보고서

### 창업자 프로필
%s
- 리스크 수용도: %s
- 주요 강점: %s
%s

### 최우선 추천 아이템
**%s**
- 시장 적합도: %.1f점
- 페르소나 적합도: %.1f점
- 수익성 전망: %.1f점

총 %d개의 맞춤형 창업 아이템과 %d개의 상세 실행 로드맵이 준비되었습니다.`,
		persona.PersonaSummary,
		persona.RiskTolerance,
		strings.Join(firstN(persona.Strengths, 2), ", "),
		marketInfo,
		topItem.Item,
		topItem.MarketFitScore,
		topItem.PersonaFitScore,
		topItem.ProfitabilityScore,
		len(items),
		len(roadmaps),
	)

	return strings.TrimSpace(summary)
}

// Assemble packages validated artifacts into the terminal report.
func Assemble(
	persona *schema.PersonaProfile,
	marketList []schema.MarketAnalysis,
	items []schema.RecommendedItem,
	roadmaps []schema.Roadmap,
) *schema.FinalReport {
	return &schema.FinalReport{
		ExecutiveSummary:   ExecutiveSummary(persona, marketList, items, roadmaps),
		PersonaProfile:     *persona,
		MarketAnalysisList: marketList,
		RecommendedItems:   items,
		Roadmaps:           roadmaps,
	}
}

func firstN(xs []string, n int) []string {
	if len(xs) < n {
		n = len(xs)
	}
	return xs[:n]
}

func firstNMarkets(xs []schema.MarketAnalysis, n int) []schema.MarketAnalysis {
	if len(xs) < n {
		n = len(xs)
	}
	return xs[:n]
}
