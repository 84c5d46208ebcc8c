package service

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"quizproctor/internal/dto"
	"quizproctor/internal/repository"
)

const (
	recentCompletionsLimit = 20
	popularTopicsLimit     = 10
)

type AnalyticsService struct {
	analyticsRepo *repository.AnalyticsRepository
}

func NewAnalyticsService(db *sql.DB) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: repository.NewAnalyticsRepository(db),
	}
}

// GetAnalytics aggregates completion records into per-topic stats and a
// recent-activity feed for the admin dashboard.
func (s *AnalyticsService) GetAnalytics(ctx context.Context) (*dto.GetAnalyticsResponse, error) {
	records, err := s.analyticsRepo.GetQuizAnalytics(ctx)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		topic       string
		difficulty  string
		completions int
		scoreSum    int
		timeSum     int
		answeredSum int
		correctSum  int
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0)

	resp := &dto.GetAnalyticsResponse{
		TotalCompletions: len(records),
		TopicStats:       []dto.TopicStatsDTO{},
		Recent:           []dto.RecentCompletionDTO{},
	}

	for _, record := range records {
		key := record.Topic + "|" + record.Difficulty
		b, ok := buckets[key]
		if !ok {
			b = &bucket{topic: record.Topic, difficulty: record.Difficulty}
			buckets[key] = b
			order = append(order, key)
		}
		b.completions++
		b.scoreSum += record.CorrectAnswers
		b.timeSum += record.TimeTakenSeconds
		b.answeredSum += record.QuestionsAnswered
		b.correctSum += record.CorrectAnswers

		if len(resp.Recent) < recentCompletionsLimit {
			resp.Recent = append(resp.Recent, dto.RecentCompletionDTO{
				Topic:            record.Topic,
				Difficulty:       record.Difficulty,
				CorrectAnswers:   record.CorrectAnswers,
				QuestionsTotal:   record.QuestionsTotal,
				TimeTakenSeconds: record.TimeTakenSeconds,
				CompletedAt:      record.CompletedAt.Format(time.RFC3339),
			})
		}
	}

	sort.Strings(order)
	for _, key := range order {
		b := buckets[key]
		stats := dto.TopicStatsDTO{
			Topic:       b.topic,
			Difficulty:  b.difficulty,
			Completions: b.completions,
		}
		if b.completions > 0 {
			stats.AverageScore = float64(b.scoreSum) / float64(b.completions)
			stats.AverageTimeSecs = float64(b.timeSum) / float64(b.completions)
		}
		if b.answeredSum > 0 {
			stats.AverageAccuracy = float64(b.correctSum) / float64(b.answeredSum)
		}
		resp.TopicStats = append(resp.TopicStats, stats)
	}

	return resp, nil
}

// GetPopularTopics ranks topics by total completions.
func (s *AnalyticsService) GetPopularTopics(ctx context.Context) (*dto.GetPopularTopicsResponse, error) {
	topics, err := s.analyticsRepo.GetPopularTopics(ctx, popularTopicsLimit)
	if err != nil {
		return nil, err
	}

	resp := &dto.GetPopularTopicsResponse{
		Topics: make([]dto.PopularTopicDTO, 0, len(topics)),
	}
	for _, t := range topics {
		resp.Topics = append(resp.Topics, dto.PopularTopicDTO{
			Topic:       t.Topic,
			Completions: t.Completions,
		})
	}
	return resp, nil
}

func (s *AnalyticsService) GetQuestionAccuracy(ctx context.Context, topic, difficulty string) (*dto.GetQuestionAccuracyResponse, error) {
	stats, err := s.analyticsRepo.GetQuestionAccuracy(ctx, topic, difficulty)
	if err != nil {
		return nil, err
	}

	resp := &dto.GetQuestionAccuracyResponse{
		Questions: make([]dto.QuestionAccuracyDTO, 0, len(stats)),
	}
	for _, s := range stats {
		d := dto.QuestionAccuracyDTO{
			QuestionID: s.QuestionID,
			Attempts:   s.Attempts,
			Correct:    s.Correct,
		}
		if s.Attempts > 0 {
			d.Accuracy = float64(s.Correct) / float64(s.Attempts)
		}
		resp.Questions = append(resp.Questions, d)
	}
	return resp, nil
}
