package service

import (
	"context"
	"encoding/json"
	"log"

	"quizproctor/pkg/email"
)

type NotificationService struct {
	smtpClient *email.SMTPClient
}

func NewNotificationService(smtpClient *email.SMTPClient) *NotificationService {
	return &NotificationService{
		smtpClient: smtpClient,
	}
}

func (s *NotificationService) HandleSendAuthCode(ctx context.Context, data []byte) error {
	var event struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}

	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	log.Printf("Sending auth code to %s", event.Email)
	return s.smtpClient.SendAuthCode(event.Email, event.Code)
}

func (s *NotificationService) HandleQuizCreated(ctx context.Context, data []byte) error {
	var event struct {
		QuizID     string `json:"quiz_id"`
		Title      string `json:"title"`
		Topic      string `json:"topic"`
		Difficulty string `json:"difficulty"`
	}

	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	log.Printf("Quiz published: %s (%s/%s)", event.Title, event.Topic, event.Difficulty)
	return nil
}

func (s *NotificationService) HandleQuizSubmitted(ctx context.Context, data []byte) error {
	var event QuizSubmittedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}

	percentage := 0
	if event.TotalQuestions > 0 {
		percentage = event.Score * 100 / event.TotalQuestions
	}

	log.Printf("Sending quiz results to %s for submission %s", event.Email, event.SubmissionID)
	return s.smtpClient.SendQuizResults(event.Email, email.QuizResultData{
		QuizTitle:      event.QuizTitle,
		Score:          event.Score,
		TotalQuestions: event.TotalQuestions,
		Percentage:     percentage,
		Passed:         event.Passed,
	})
}
