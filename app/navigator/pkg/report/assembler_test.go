package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyssey-team/fnb_navigator/app/navigator/pkg/schema"
)

func fixture() (*schema.PersonaProfile, []schema.MarketAnalysis, []schema.RecommendedItem, []schema.Roadmap) {
	persona := &schema.PersonaProfile{
		PersonaSummary: "트렌드에 민감한 34세 마케터 출신 창업자",
		RiskTolerance:  "Medium",
		Strengths:      []string{"시장 이해", "고객 확보", "브랜딩"},
	}
	markets := []schema.MarketAnalysis{
		{Dong: "천호동", Demographics: "20-30대 중심", EmergingTrends: []string{"배달 특화", "심야 영업", "무인 매장"}},
		{Dong: "성내동", Demographics: "직장인 밀집"},
		{Dong: "길동", Demographics: "주거 밀집"},
		{Dong: "암사동", Demographics: "가족 단위"},
	}
	items := []schema.RecommendedItem{
		{Item: "수제 닭강정 테이크아웃", MarketFitScore: 88.5, PersonaFitScore: 91.0, ProfitabilityScore: 84.0},
		{Item: "매운맛 특화 닭강정", MarketFitScore: 82.0, PersonaFitScore: 79.5, ProfitabilityScore: 80.0},
		{Item: "닭강정 & 맥주 펍", MarketFitScore: 75.0, PersonaFitScore: 70.0, ProfitabilityScore: 77.5},
	}
	roadmaps := []schema.Roadmap{
		{Item: items[0].Item},
		{Item: items[1].Item},
		{Item: items[2].Item},
	}
	return persona, markets, items, roadmaps
}

func TestExecutiveSummaryMultiMarket(t *testing.T) {
	persona, markets, items, roadmaps := fixture()

	got := ExecutiveSummary(persona, markets, items, roadmaps)

	assert.True(t, strings.HasPrefix(got, "## 창업 컨설팅 종합 보고서"))
	assert.Contains(t, got, persona.PersonaSummary)
	assert.Contains(t, got, "리스크 수용도: Medium")
	// Only the first two strengths are surfaced.
	assert.Contains(t, got, "시장 이해, 고객 확보")
	assert.NotContains(t, got, "브랜딩")
	// Four districts collapse to three names plus a suffix.
	assert.Contains(t, got, "천호동, 성내동, 길동 외 (4개 동)")
	assert.Contains(t, got, "총 4개 동에 대한 상세 시장 분석 완료")
	assert.Contains(t, got, "**수제 닭강정 테이크아웃**")
	assert.Contains(t, got, "시장 적합도: 88.5점")
	assert.Contains(t, got, "총 3개의 맞춤형 창업 아이템과 3개의 상세 실행 로드맵")
}

func TestExecutiveSummarySingleMarket(t *testing.T) {
	persona, markets, items, roadmaps := fixture()

	got := ExecutiveSummary(persona, markets[:1], items, roadmaps)

	assert.Contains(t, got, "분석 지역: 천호동")
	assert.Contains(t, got, "20-30대 중심")
	// Only the first two trends are surfaced.
	assert.Contains(t, got, "주요 트렌드: 배달 특화, 심야 영업")
	assert.NotContains(t, got, "무인 매장")
	assert.NotContains(t, got, "개 동")
}

func TestExecutiveSummaryEmptyItemsFallback(t *testing.T) {
	persona, markets, _, _ := fixture()

	got := ExecutiveSummary(persona, markets, nil, nil)
	assert.Equal(t, "창업 아이템 분석이 완료되었습니다.", got)
}

func TestExecutiveSummaryDeterministic(t *testing.T) {
	persona, markets, items, roadmaps := fixture()

	first := ExecutiveSummary(persona, markets, items, roadmaps)
	second := ExecutiveSummary(persona, markets, items, roadmaps)
	assert.Equal(t, first, second)
}

func TestAssemble(t *testing.T) {
	persona, markets, items, roadmaps := fixture()

	rep := Assemble(persona, markets, items, roadmaps)
	require.NotNil(t, rep)
	assert.Equal(t, *persona, rep.PersonaProfile)
	assert.Equal(t, markets, rep.MarketAnalysisList)
	assert.Equal(t, items, rep.RecommendedItems)
	assert.Equal(t, roadmaps, rep.Roadmaps)
	assert.Equal(t, ExecutiveSummary(persona, markets, items, roadmaps), rep.ExecutiveSummary)
}
