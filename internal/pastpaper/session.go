package pastpaper

import "fmt"

const batchSize = 5

// session tracks one student's walkthrough of a past paper. All access goes
// through the Manager's lock.
type session struct {
	unitCode string
	year     string

	questions    []string
	currentBatch int

	userAnswers map[int]string

	active bool
}

func (s *session) reset() {
	*s = session{}
}

func (s *session) start(unitCode, year string, questions []string) {
	s.unitCode = unitCode
	s.year = year
	s.questions = questions
	s.currentBatch = 0
	s.userAnswers = make(map[int]string)
	s.active = true
}

// nextBatch returns the next slice of questions and whether more remain after
// it. An empty batch means the paper is exhausted.
func (s *session) nextBatch() ([]string, bool) {
	start := s.currentBatch * batchSize
	if start > len(s.questions) {
		start = len(s.questions)
	}
	end := start + batchSize
	if end > len(s.questions) {
		end = len(s.questions)
	}

	s.currentBatch++

	return s.questions[start:end], end < len(s.questions)
}

func (s *session) progress() string {
	shown := s.currentBatch * batchSize
	if shown > len(s.questions) {
		shown = len(s.questions)
	}
	return fmt.Sprintf("Questions %d/%d", shown, len(s.questions))
}

func (s *session) saveAnswer(questionNum int, answer string) {
	if s.userAnswers == nil {
		s.userAnswers = make(map[int]string)
	}
	s.userAnswers[questionNum] = answer
}
