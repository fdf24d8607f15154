package service

import (
	"context"
	"fmt"
	"portfolio_backend/internal/model"
	"portfolio_backend/internal/repository"
	"regexp"
	"strconv"
)

const (
	MinGrade = 0.55
	MaxGrade = 0.9
)

var gradeNumber = regexp.MustCompile(`\d+\.?\d*`)

type GeminiService struct {
	repo *repository.GeminiRepository
	llm  TextGenerator
}

func NewGeminiService(repo *repository.GeminiRepository, llm TextGenerator) *GeminiService {
	return &GeminiService{repo: repo, llm: llm}
}

func (s *GeminiService) Chat(ctx context.Context, userID, message string) (*model.GeminiChat, error) {
	reply, err := s.llm.Generate(ctx, "chat", message)
	if err != nil {
		return nil, err
	}
	chat := &model.GeminiChat{UserID: userID, Message: message, Response: reply}
	return chat, s.repo.CreateChat(chat)
}

func (s *GeminiService) History(userID string) ([]model.GeminiChat, error) {
	return s.repo.FindChatsByUserID(userID)
}

func (s *GeminiService) GradeResponse(ctx context.Context, question, response string) (*model.GeminiGrading, error) {
	prompt := fmt.Sprintf("Grade the following free-response answer. Give a score out of 10 and concise feedback.\nQuestion: %s\nResponse: %s",
		question, response)
	reply, err := s.llm.Generate(ctx, "grade", prompt)
	if err != nil {
		return nil, err
	}
	g := &model.GeminiGrading{Question: question, Response: response, GeminiReply: reply}
	return g, s.repo.CreateGrading(g)
}

// NumericGrade 让模型给出[0.55, 0.9]区间的分数，越界时截断
func (s *GeminiService) NumericGrade(ctx context.Context, question, response string) (float64, error) {
	prompt := fmt.Sprintf("Grade the student's response to the question on a numeric scale between %.2f and %.1f inclusive. "+
		"Return ONLY the numeric grade. No explanation.\nQuestion: %s\nResponse: %s", MinGrade, MaxGrade, question, response)
	reply, err := s.llm.Generate(ctx, "stats_grade", prompt)
	if err != nil {
		return 0, err
	}
	return ParseGrade(reply)
}

func ParseGrade(text string) (float64, error) {
	m := gradeNumber.FindString(text)
	if m == "" {
		return 0, fmt.Errorf("unable to parse numeric grade from response: %q", text)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, err
	}
	if v < MinGrade {
		v = MinGrade
	}
	if v > MaxGrade {
		v = MaxGrade
	}
	return v, nil
}
