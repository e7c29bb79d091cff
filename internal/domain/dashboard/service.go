package dashboard

import (
	"context"
	"time"

	"github.com/citotrack/citotrack/internal/domain/exam"
	"github.com/citotrack/citotrack/internal/domain/lab"
)

// TopN is how many rows each summary list keeps. The full count is
// still reported so clients can render "and N more".
const TopN = 5

// ExamList is a truncated, correctly sorted list plus its true size.
type ExamList struct {
	Items []*exam.Exam `json:"items"`
	Total int          `json:"total"`
}

type BreachList struct {
	Items []SLABreach `json:"items"`
	Total int         `json:"total"`
}

// Summary is the dashboard payload: per-status counts and the three
// worklists.
type Summary struct {
	StatusCounts    map[string]int `json:"status_counts"`
	AwaitingOpinion ExamList       `json:"awaiting_opinion"`
	ReturnSchedule  ExamList       `json:"return_schedule"`
	SLABreaches     BreachList     `json:"sla_breaches"`
}

type Service struct {
	exams exam.Repository
	labs  lab.Repository

	now func() time.Time
}

func NewService(exams exam.Repository, labs lab.Repository) *Service {
	return &Service{exams: exams, labs: labs, now: time.Now}
}

func truncate(items []*exam.Exam) ExamList {
	l := ExamList{Items: items, Total: len(items)}
	if len(items) > TopN {
		l.Items = items[:TopN]
	}
	return l
}

func (s *Service) Summarize(ctx context.Context) (*Summary, error) {
	exams, err := s.exams.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	labItems, _, err := s.labs.List(ctx, 1000, 0)
	if err != nil {
		return nil, err
	}
	labsByID := make(map[string]*lab.Lab, len(labItems))
	for _, l := range labItems {
		labsByID[l.ID.String()] = l
	}

	now := s.now()
	breaches := SLABreaches(exams, labsByID, now)
	breachList := BreachList{Items: breaches, Total: len(breaches)}
	if len(breaches) > TopN {
		breachList.Items = breaches[:TopN]
	}

	return &Summary{
		StatusCounts:    StatusCounts(exams),
		AwaitingOpinion: truncate(AwaitingOpinion(exams)),
		ReturnSchedule:  truncate(ReturnSchedule(exams)),
		SLABreaches:     breachList,
	}, nil
}
