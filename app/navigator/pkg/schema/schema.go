// Package schema declares the data contracts exchanged between pipeline stages.
// Every artifact is a value record produced once by its stage and never mutated
// afterwards; validation happens at the JSON -> typed boundary in registry.go.
package schema

// PersonalInfo 사용자 개인 정보 (input only, never persisted)
type PersonalInfo struct {
	Gender                 string `json:"gender"`
	Age                    int    `json:"age"`
	MBTI                   string `json:"mbti"`
	PreviousJob            string `json:"previous_job"`
	SelfEmployedExperience bool   `json:"self_employed_experience"`
}

// ProjectInfo 프로젝트 정보 (input only)
type ProjectInfo struct {
	FoodSector string `json:"food_sector"`
	Region     string `json:"region"` // 구 단위
	Capital    string `json:"capital"`
}

// PersonaProfile 창업자 페르소나 프로필
type PersonaProfile struct {
	PersonaSummary        string   `json:"persona_summary"`
	RecommendedStyle      []string `json:"recommended_style"`
	RiskTolerance         string   `json:"risk_tolerance"` // Low, Medium, High
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	SuitableBusinessTypes []string `json:"suitable_business_types"`
}

// MarketAnalysis 동 단위 시장 분석 데이터
type MarketAnalysis struct {
	Dong                string   `json:"dong"`
	Demographics        string   `json:"demographics"`
	AvgRent             string   `json:"avg_rent"`
	FootTraffic         string   `json:"foot_traffic"`
	EmergingTrends      []string `json:"emerging_trends"`
	MarketOpportunities []string `json:"market_opportunities"`
}

// MarketAnalysisList 구에 속한 모든 동의 분석 리스트
type MarketAnalysisList struct {
	MarketAnalyses []MarketAnalysis `json:"market_analyses"`
}

// LocationStrategy 입지 전략
type LocationStrategy struct {
	RecommendedAreas   []string `json:"recommended_areas"`
	LocationCriteria   []string `json:"location_criteria"`
	AccessibilityNotes string   `json:"accessibility_notes"`
}

// RecommendedItem 추천 창업 아이템
type RecommendedItem struct {
	Item               string           `json:"item"`
	Concept            string           `json:"concept"`
	Reason             string           `json:"reason"`
	LocationStrategy   LocationStrategy `json:"location_strategy"`
	MarketFitScore     float64          `json:"market_fit_score"`    // 0-100
	PersonaFitScore    float64          `json:"persona_fit_score"`   // 0-100
	ProfitabilityScore float64          `json:"profitability_score"` // 0-100
}

// RecommendedItemList 추천 아이템 리스트 (계약상 3개)
type RecommendedItemList struct {
	RecommendedItems []RecommendedItem `json:"recommended_items"`
}

// SpacePlanning 공간 기획
type SpacePlanning struct {
	InteriorConcept string   `json:"interior_concept"`
	SignageIdeas    []string `json:"signage_ideas"`
	EstimatedSpace  string   `json:"estimated_space"`
}

// OperationPrep 운영 준비
type OperationPrep struct {
	Suppliers      []string `json:"suppliers"`
	EquipmentList  []string `json:"equipment_list"`
	PackagingIdeas []string `json:"packaging_ideas"`
	StaffingPlan   string   `json:"staffing_plan"`
}

// PolicyFund 정책자금 정보
type PolicyFund struct {
	Name    string `json:"name"`
	Details string `json:"details"`
}

// FinancialPlan 자금 계획
type FinancialPlan struct {
	InitialInvestment int          `json:"initial_investment"`
	MonthlyFixedCosts int          `json:"monthly_fixed_costs"`
	BreakEvenPoint    string       `json:"break_even_point"`
	FundingSources    []string     `json:"funding_sources"`
	PolicyFunds       []PolicyFund `json:"policy_funds"`
}

// AdministrativeTasks 행정 및 인허가
type AdministrativeTasks struct {
	RequiredLicenses  []string `json:"required_licenses"`
	RegistrationSteps []string `json:"registration_steps"`
	RequiredEducation []string `json:"required_education"`
	EstimatedTimeline string   `json:"estimated_timeline"`
}

// SignatureMenuItem 시그니처 메뉴 항목
type SignatureMenuItem struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
}

// MenuDevelopment 메뉴 개발
type MenuDevelopment struct {
	SignatureMenu   []SignatureMenuItem `json:"signature_menu"`
	PricingStrategy string              `json:"pricing_strategy"`
	MenuDiversity   string              `json:"menu_diversity"`
	SeasonalItems   []string            `json:"seasonal_items"`
}

// Roadmap 아이템별 상세 실행 로드맵. Item echoes the originating
// RecommendedItem.Item so results can be re-paired by index downstream.
type Roadmap struct {
	Item                string              `json:"item"`
	SpacePlanning       SpacePlanning       `json:"space_planning"`
	OperationPrep       OperationPrep       `json:"operation_prep"`
	FinancialPlan       FinancialPlan       `json:"financial_plan"`
	AdministrativeTasks AdministrativeTasks `json:"administrative_tasks"`
	MenuDevelopment     MenuDevelopment     `json:"menu_development"`
}

// FinalReport 최종 보고서, assembled exactly once per workflow run.
type FinalReport struct {
	ExecutiveSummary   string            `json:"executive_summary"`
	PersonaProfile     PersonaProfile    `json:"persona_profile"`
	MarketAnalysisList []MarketAnalysis  `json:"market_analysis_list"`
	RecommendedItems   []RecommendedItem `json:"recommended_items"`
	Roadmaps           []Roadmap         `json:"roadmaps"`
}
