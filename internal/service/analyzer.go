package service

import (
	"context"
	"fmt"
	"math"

	"github.com/iliyamo/bracelet-energy/internal/model"
)

// Trend classifications produced by the analyzer.
const (
	TrendIncreasing = "increasing"
	TrendStable     = "stable"
	TrendDecreasing = "decreasing"
)

// trendThreshold is the mean-level gap between the recent and older
// history halves beyond which the trend is non-stable.
const trendThreshold = 5.0

// defaultTrendDays is the analysis window when the caller does not
// specify one.
const defaultTrendDays = 7

// TrendReport is the aggregate view of a bracelet's recent energy
// history: a classification, the window's mean level rounded to one
// decimal, and display-ready recommendation strings.
type TrendReport struct {
	Trend           string   `json:"trend"`
	AverageLevel    float64  `json:"average_level"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzerService is a read-only aggregator over the energy ledger and
// the consecration registry. It never writes.
type AnalyzerService struct {
	energy        *EnergyService
	consecrations *ConsecrationService
}

// NewAnalyzerService returns an AnalyzerService reading through the
// given services.
func NewAnalyzerService(energy *EnergyService, consecrations *ConsecrationService) *AnalyzerService {
	return &AnalyzerService{energy: energy, consecrations: consecrations}
}

// Trend classifies the bracelet's energy movement over the last days
// days. With fewer than two ledger entries the trend is stable and the
// average is the current level. Otherwise the newest-first history is
// split in half by index and the half means compared against the
// threshold.
func (s *AnalyzerService) Trend(ctx context.Context, braceletID string, days int) (TrendReport, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	history, err := s.energy.History(ctx, braceletID, days)
	if err != nil {
		return TrendReport{}, err
	}

	if len(history) < 2 {
		current, err := s.energy.CurrentLevel(ctx, braceletID)
		if err != nil {
			return TrendReport{}, err
		}
		return TrendReport{
			Trend:           TrendStable,
			AverageLevel:    current,
			Recommendations: []string{"建议增加佩戴时间以积累更多能量数据"},
		}, nil
	}

	half := len(history) / 2
	recentMean := meanLevel(history[:half])
	olderMean := meanLevel(history[half:])

	trend := TrendStable
	switch {
	case recentMean-olderMean > trendThreshold:
		trend = TrendIncreasing
	case olderMean-recentMean > trendThreshold:
		trend = TrendDecreasing
	}

	average := math.Round(meanLevel(history)*10) / 10

	recommendations := make([]string, 0, 3)
	switch {
	case average < 50:
		recommendations = append(recommendations,
			"能量水平较低，建议增加佩戴时间",
			"可尝试冥想或诵经来提升能量")
	case average < 80:
		recommendations = append(recommendations, "能量水平良好，保持当前的佩戴习惯")
	default:
		recommendations = append(recommendations, "能量水平优秀，法宝与您的连接很好")
	}
	if trend == TrendDecreasing {
		recommendations = append(recommendations, "注意能量下降趋势，检查是否佩戴时间不足")
	}

	return TrendReport{Trend: trend, AverageLevel: average, Recommendations: recommendations}, nil
}

// PersonalizedAdvice composes an ordered list of short advisory
// strings: a current-level band message, a trend-direction message
// when the trend is non-stable, and the consecration recommendation
// when one exists. The output needs no further interpretation by the
// caller.
func (s *AnalyzerService) PersonalizedAdvice(ctx context.Context, braceletID string) ([]string, error) {
	current, err := s.energy.CurrentLevel(ctx, braceletID)
	if err != nil {
		return nil, err
	}
	report, err := s.Trend(ctx, braceletID, defaultTrendDays)
	if err != nil {
		return nil, err
	}
	status, err := s.consecrations.Validate(ctx, braceletID)
	if err != nil {
		return nil, err
	}

	advice := make([]string, 0, 3)
	switch {
	case current >= 90:
		advice = append(advice, "✨ 能量充沛，是处理重要事务的好时机")
	case current >= 70:
		advice = append(advice, "🌟 能量良好，适合日常活动和轻度冥想")
	case current >= 50:
		advice = append(advice, "💫 能量中等，建议增加佩戴时间或进行短暂冥想")
	default:
		advice = append(advice, "🔋 能量较低，建议多佩戴并减少负面情绪")
	}

	switch report.Trend {
	case TrendIncreasing:
		advice = append(advice, "📈 能量呈上升趋势，继续保持良好习惯")
	case TrendDecreasing:
		advice = append(advice, "📉 注意能量下降，可能需要调整生活节奏")
	}

	if status.Recommendation != "" {
		advice = append(advice, fmt.Sprintf("🏛️ %s", status.Recommendation))
	}
	return advice, nil
}

// meanLevel averages the energy levels of a non-empty record slice.
func meanLevel(records []model.EnergyRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, rec := range records {
		sum += rec.EnergyLevel
	}
	return sum / float64(len(records))
}
