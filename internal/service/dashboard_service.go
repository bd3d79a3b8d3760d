package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/dto"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardService aggregates the record set into the overview the landing
// page renders: headline counts, average distribution statistics and
// per-class/per-subject breakdowns.
type DashboardService interface {
	GetSummary(ctx context.Context) (dto.DashboardResponse, error)
}

type dashboardService struct {
	repo     repository.GradeRepository
	subjects *catalog.Catalog
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService builds the aggregator. cache may be nil, in which
// case every request recomputes from the store.
func NewDashboardService(repo repository.GradeRepository, subjects *catalog.Catalog, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		repo:     repo,
		subjects: subjects,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) GetSummary(ctx context.Context) (dto.DashboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	records, err := s.repo.List(ctx, repository.GradeFilter{})
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	response := s.buildSummary(records)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}
	return response, nil
}

func (s *dashboardService) buildSummary(records []models.GradeRecord) dto.DashboardResponse {
	response := dto.DashboardResponse{
		TotalRecords:               len(records),
		ClassificationDistribution: make(map[string]int),
		ClassAverages:              []dto.ClassAverage{},
		SubjectAverages:            []dto.SubjectAverage{},
		GeneratedAt:                s.now().UTC(),
	}

	students := make(map[string]bool)
	classes := make(map[string]bool)
	averages := make([]float64, 0, len(records))
	classSums := make(map[string]float64)
	classCounts := make(map[string]int)

	for _, record := range records {
		students[record.StudentID] = true
		if record.ClassName != "" {
			classes[record.ClassName] = true
			classSums[record.ClassName] += record.Average
			classCounts[record.ClassName]++
		}
		averages = append(averages, record.Average)
		response.ClassificationDistribution[record.Classification]++
	}

	response.TotalStudents = len(students)
	response.TotalClasses = len(classes)
	response.AverageStats = averageStats(averages)

	classNames := make([]string, 0, len(classSums))
	for name := range classSums {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)
	for _, name := range classNames {
		response.ClassAverages = append(response.ClassAverages, dto.ClassAverage{
			ClassName: name,
			Average:   grading.Round2(classSums[name] / float64(classCounts[name])),
			Records:   classCounts[name],
		})
	}

	for _, subject := range s.subjects.Subjects() {
		var sum float64
		var count int
		for _, record := range records {
			if score := record.ScoreValues()[subject.Code]; score != nil && *score >= 0 {
				sum += *score
				count++
			}
		}
		if count == 0 {
			continue
		}
		response.SubjectAverages = append(response.SubjectAverages, dto.SubjectAverage{
			Code:        subject.Code,
			DisplayName: subject.DisplayName,
			Average:     grading.Round2(sum / float64(count)),
			Scored:      count,
		})
	}

	return response
}

func averageStats(averages []float64) dto.AverageStats {
	if len(averages) == 0 {
		return dto.AverageStats{}
	}

	// stats errors only on empty input, which is handled above.
	mean, _ := stats.Mean(averages)
	median, _ := stats.Median(averages)
	min, _ := stats.Min(averages)
	max, _ := stats.Max(averages)
	stdDev, _ := stats.StandardDeviationSample(averages)
	if len(averages) == 1 {
		stdDev = 0
	}

	return dto.AverageStats{
		Mean:   grading.Round2(mean),
		Median: grading.Round2(median),
		Min:    grading.Round2(min),
		Max:    grading.Round2(max),
		StdDev: grading.Round2(stdDev),
	}
}
